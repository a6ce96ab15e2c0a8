package admin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/pkg/errors"
)

// userService implements the UserService interface
type userService struct {
	client *Client
}

// Limited retrieves a page of limited or blocked users
func (s *userService) Limited(ctx context.Context, params *ListParams) (*LimitedUserList, error) {
	if params == nil {
		params = &ListParams{}
	}

	query, err := pageQuery(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}

	var result LimitedUserList
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: "/users/limited", Query: query}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to list limited users")
	}

	return &result, nil
}

// Block stops a user from chatting
func (s *userService) Block(ctx context.Context, userID string) (*LimitedUser, error) {
	return s.setBlocked(ctx, userID, "block")
}

// Unblock lets a blocked user chat again
func (s *userService) Unblock(ctx context.Context, userID string) (*LimitedUser, error) {
	return s.setBlocked(ctx, userID, "unblock")
}

// TokenUsage retrieves a user's token consumption
func (s *userService) TokenUsage(ctx context.Context, userID string) (*TokenUsage, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}

	var result TokenUsage
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: userPath(userID) + "/token-usage"}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get user token usage")
	}

	return &result, nil
}

func (s *userService) setBlocked(ctx context.Context, userID, action string) (*LimitedUser, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}

	var result LimitedUser
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodPost, Path: userPath(userID) + "/" + action}, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to %s user", action)
	}

	return &result, nil
}

func userPath(userID string) string {
	return "/users/" + url.PathEscape(userID)
}
