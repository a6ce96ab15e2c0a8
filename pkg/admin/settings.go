package admin

import (
	"context"
	"net/http"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/pkg/errors"
)

// settingsService implements the SettingsService interface
type settingsService struct {
	client *Client
}

// TokenSettings retrieves the global token quotas
func (s *settingsService) TokenSettings(ctx context.Context) (*TokenSettings, error) {
	var result TokenSettings
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: "/tokens/settings"}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get token settings")
	}
	return &result, nil
}

// UpdateTokenSettings replaces the global token quotas
func (s *settingsService) UpdateTokenSettings(ctx context.Context, settings *TokenSettings) (*TokenSettings, error) {
	if settings == nil {
		return nil, newValidationError("daily_token_limit", "Daily token limit is required", nil)
	}
	if settings.DailyTokenLimit < 0 {
		return nil, newValidationError("daily_token_limit", "Daily token limit must not be negative", settings.DailyTokenLimit)
	}

	var result TokenSettings
	err := s.client.execute(ctx, &transport.Request{Method: http.MethodPut, Path: "/tokens/settings", Body: settings}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update token settings")
	}
	return &result, nil
}

// SystemSettings retrieves the backend performance settings
func (s *settingsService) SystemSettings(ctx context.Context) (SystemSettings, error) {
	var result SystemSettings
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: "/system/settings"}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get system settings")
	}
	return result, nil
}

// UpdateSystemSettings writes the backend performance settings
func (s *settingsService) UpdateSystemSettings(ctx context.Context, settings SystemSettings) (SystemSettings, error) {
	if len(settings) == 0 {
		return nil, newValidationError("settings", "At least one setting is required", nil)
	}

	var result SystemSettings
	err := s.client.execute(ctx, &transport.Request{Method: http.MethodPut, Path: "/system/settings", Body: settings}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update system settings")
	}
	return result, nil
}
