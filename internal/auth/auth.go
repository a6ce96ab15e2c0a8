package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/eshaffer321/ragadmin-go/internal/types"
	"github.com/pkg/errors"
)

const (
	loginEndpoint = "/login"
	meEndpoint    = "/me"

	minPasswordLength = 6
)

// Doer executes REST requests
type Doer interface {
	Do(ctx context.Context, req *transport.Request, result interface{}) error
}

// Service handles credential exchange and profile lookup
type Service struct {
	doer   Doer
	logger types.Logger
}

// NewService creates a new auth service
func NewService(doer Doer, logger types.Logger) *Service {
	return &Service{
		doer:   doer,
		logger: logger,
	}
}

// ValidateCredentials applies the login form rules before any request is made
func ValidateCredentials(creds types.Credentials) error {
	verrs := &types.ValidationErrors{}

	if strings.TrimSpace(creds.Username) == "" {
		verrs.Add("username", "Username is required", creds.Username)
	}

	switch {
	case creds.Password == "":
		verrs.Add("password", "Password is required", nil)
	case len(creds.Password) < minPasswordLength:
		verrs.Add("password", "Password must be at least 6 characters", nil)
	}

	return verrs.OrNil()
}

// Login exchanges credentials for a bearer token.
// A 401 here means bad credentials, so the forced-logout hook is skipped.
func (s *Service) Login(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error) {
	if s.logger != nil {
		s.logger.Debug("Login request", "username", creds.Username)
	}

	var resp types.LoginResponse
	err := s.doer.Do(ctx, &transport.Request{
		Method:               http.MethodPost,
		Path:                 loginEndpoint,
		Body:                 creds,
		SkipUnauthorizedHook: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, errors.Wrap(types.ErrLoginFailed, "no access token in login response")
	}

	if s.logger != nil {
		s.logger.Info("Login successful", "username", creds.Username)
	}

	return &resp, nil
}

// Me fetches the profile for the current token
func (s *Service) Me(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := s.doer.Do(ctx, &transport.Request{Method: http.MethodGet, Path: meEndpoint}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
