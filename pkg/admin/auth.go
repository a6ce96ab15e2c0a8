package admin

import (
	"context"

	"github.com/eshaffer321/ragadmin-go/internal/auth"
)

// authService implements the AuthService interface
type authService struct {
	client  *Client
	service *auth.Service
}

// newAuthService creates a new auth service
func newAuthService(client *Client) *authService {
	return &authService{
		client:  client,
		service: auth.NewService(doerFunc(client.execute), client.options.Logger),
	}
}

// Login exchanges credentials for a bearer token without touching the session
func (a *authService) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	if err := auth.ValidateCredentials(creds); err != nil {
		return nil, err
	}
	return a.service.Login(ctx, creds)
}

// Me fetches the profile for the current token
func (a *authService) Me(ctx context.Context) (*User, error) {
	return a.service.Me(ctx)
}
