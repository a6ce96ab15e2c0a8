package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/eshaffer321/ragadmin-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *bool) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	forced := false
	tr := transport.NewRESTTransport(&transport.Options{
		BaseURL:        server.URL,
		OnUnauthorized: func(ctx context.Context) { forced = true },
	})
	return NewService(tr, nil), &forced
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		creds     types.Credentials
		wantField map[string]string
	}{
		{
			name:  "valid",
			creds: types.Credentials{Username: "admin", Password: "secret1"},
		},
		{
			name:      "short password",
			creds:     types.Credentials{Username: "a", Password: "short"},
			wantField: map[string]string{"password": "Password must be at least 6 characters"},
		},
		{
			name:  "blank username and missing password",
			creds: types.Credentials{Username: "   "},
			wantField: map[string]string{
				"username": "Username is required",
				"password": "Password is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.creds)
			if tt.wantField == nil {
				assert.NoError(t, err)
				return
			}

			var verrs *types.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			for field, msg := range tt.wantField {
				assert.Equal(t, msg, verrs.Field(field))
			}
		})
	}
}

func TestService_Login(t *testing.T) {
	svc, forced := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)

		var creds types.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds.Username)
		assert.Equal(t, "secret1", creds.Password)

		_, _ = w.Write([]byte(`{"access_token":"tok1","token_type":"bearer","user":{"username":"admin"}}`))
	})

	resp, err := svc.Login(context.Background(), types.Credentials{Username: "admin", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "tok1", resp.AccessToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "admin", resp.User.Username)
	assert.False(t, *forced)
}

func TestService_Login_BadCredentialsDoesNotForceLogout(t *testing.T) {
	svc, forced := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	})

	resp, err := svc.Login(context.Background(), types.Credentials{Username: "admin", Password: "wrong12"})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", types.Detail(err))
	assert.False(t, *forced)
}

func TestService_Login_MissingToken(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"username":"admin"}}`))
	})

	_, err := svc.Login(context.Background(), types.Credentials{Username: "admin", Password: "secret1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrLoginFailed))
}

func TestService_Me(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"u1","username":"admin","email":"admin@example.com","role":"admin"}`))
	})

	user, err := svc.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &types.User{ID: "u1", Username: "admin", Email: "admin@example.com", Role: "admin"}, user)
}
