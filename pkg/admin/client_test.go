package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eshaffer321/ragadmin-go/internal/auth"
	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// MockTransport is a mock implementation of the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(ctx context.Context, req *transport.Request, result interface{}) error {
	args := m.Called(ctx, req, result)

	// If mock provides result data, unmarshal it
	if args.Get(0) != nil && result != nil {
		resultJSON := args.Get(0).(string)
		if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
			return err
		}
	}

	return args.Error(1)
}

func (m *MockTransport) DoRaw(ctx context.Context, req *transport.Request) ([]byte, http.Header, error) {
	args := m.Called(ctx, req)

	var body []byte
	if args.Get(0) != nil {
		body = []byte(args.Get(0).(string))
	}
	return body, http.Header{}, args.Error(1)
}

func newMockClient(mt *MockTransport) *Client {
	c := &Client{
		transport: mt,
		options:   &ClientOptions{},
		baseURL:   "http://admin.test",
	}
	c.initServices()
	return c
}

// request matches a transport request by method and path
func request(method, path string) interface{} {
	return mock.MatchedBy(func(req *transport.Request) bool {
		m := req.Method
		if m == "" {
			m = http.MethodGet
		}
		return m == method && req.Path == path
	})
}

// requestWithQuery also requires the encoded query to match
func requestWithQuery(method, path string, query url.Values) interface{} {
	return mock.MatchedBy(func(req *transport.Request) bool {
		return req.Method == method && req.Path == path && req.Query.Encode() == query.Encode()
	})
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.Session)
	assert.Equal(t, StatusLoggedOut, client.Session.State().Status)

	withToken, err := NewClientWithToken("tok1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", withToken.Session.Token())
	assert.Equal(t, StatusLoggedInNoProfile, withToken.Session.State().Status)
}

func TestNewClient_TokenOverridesAreSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	client, err := NewClient(&ClientOptions{Token: "direct", TokenFile: path, Timeout: 3 * time.Second})
	require.NoError(t, err)

	stored, err := client.TokenStore().Load()
	require.NoError(t, err)
	assert.Equal(t, "direct", stored)
	assert.Equal(t, "direct", client.Session.Token())
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
}

func TestClient_AttachesSessionTokenAndRateLimits(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"daily_token_limit": 1000}`))
	}))
	defer server.Close()

	limiter := rate.NewLimiter(rate.Inf, 1)
	client, err := NewClient(&ClientOptions{
		BaseURL:     server.URL,
		TokenStore:  auth.NewMemoryTokenStore("stored-token"),
		RateLimiter: limiter,
	})
	require.NoError(t, err)

	settings, err := client.Settings.TokenSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1000, settings.DailyTokenLimit)
	assert.Equal(t, "Bearer stored-token", gotAuth)
}

func TestClient_RateLimiterErrorStopsRequest(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client, err := NewClient(&ClientOptions{
		BaseURL:     server.URL,
		RateLimiter: rate.NewLimiter(rate.Every(time.Hour), 0),
	})
	require.NoError(t, err)

	_, err = client.Settings.TokenSettings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestClient_UnauthorizedForcesLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, auth.NewFileTokenStore(path, nil).Save("expired"))

	var forced int32
	client, err := NewClient(&ClientOptions{
		BaseURL:        server.URL,
		TokenFile:      path,
		OnUnauthorized: func(ctx context.Context) { atomic.AddInt32(&forced, 1) },
	})
	require.NoError(t, err)
	require.True(t, client.Session.State().IsAuthenticated)

	_, err = client.Chats.List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Could not validate credentials", UserMessage(err))

	state := client.Session.State()
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, state.Token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&forced))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "token file removed")
}

func TestClient_LoginRoundTrip(t *testing.T) {
	var meAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok1","token_type":"bearer"}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		meAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"username":"admin","role":"admin"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	var forced int32
	client, err := NewClient(&ClientOptions{
		BaseURL:        server.URL,
		OnUnauthorized: func(ctx context.Context) { atomic.AddInt32(&forced, 1) },
	})
	require.NoError(t, err)

	_, err = client.Session.Login(context.Background(), Credentials{Username: "admin", Password: "wrong-1"})
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", client.Session.State().Error)
	assert.Equal(t, int32(0), atomic.LoadInt32(&forced), "bad credentials do not force logout")

	resp, err := client.Session.Login(context.Background(), Credentials{Username: "admin", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok1", resp.AccessToken)

	client.Session.Wait()
	state := client.Session.State()
	assert.Equal(t, StatusLoggedIn, state.Status)
	require.NotNil(t, state.User)
	assert.Equal(t, "admin", state.User.Username)
	assert.Equal(t, "Bearer tok1", meAuth)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	client, err := NewClient(&ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)
	assert.True(t, client.Ping(context.Background()), "any response means available")

	server.Close()
	assert.False(t, client.Ping(context.Background()))
	assert.False(t, CheckBackend(context.Background(), server.URL, 100*time.Millisecond))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestPing_UsesConfiguredTransport(t *testing.T) {
	var calls int32
	custom := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Header: http.Header{}, Request: req}, nil
	})

	client, err := NewClient(&ClientOptions{
		BaseURL:    "http://admin.internal:8013",
		HTTPClient: &http.Client{Transport: custom},
	})
	require.NoError(t, err)

	assert.True(t, client.Ping(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "the check goes through the client's transport")
}
