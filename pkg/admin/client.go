package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eshaffer321/ragadmin-go/internal/auth"
	"github.com/eshaffer321/ragadmin-go/internal/transport"
	internalTypes "github.com/eshaffer321/ragadmin-go/internal/types"
	"github.com/getsentry/sentry-go"
)

const (
	// DefaultBaseURL is the default admin API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent

	// NetworkErrorMessage is shown when the backend could not be reached
	NetworkErrorMessage = internalTypes.NetworkErrorMessage

	// GenericErrorMessage is used when a failure carries no usable text
	GenericErrorMessage = internalTypes.GenericErrorMessage
)

// Client is the admin API client
type Client struct {
	// Service interfaces
	Auth      AuthService
	Analytics AnalyticsService
	Chats     ChatService
	Feedback  FeedbackService
	FAQ       FAQService
	Settings  SettingsService
	Users     UserService
	Documents DocumentService

	// Session tracks the signed-in administrator. Its token is attached to
	// every request.
	Session *SessionStore

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
	tokens     TokenStore
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token provides a bearer token directly
	Token string

	// TokenFile persists the token as JSON at this path
	TokenFile string

	// TokenStore overrides TokenFile with a custom token slot
	TokenStore TokenStore

	// Logger for debug logging
	Logger Logger

	// RetryConfig enables transport-level retries of 5xx and 429 responses
	RetryConfig *RetryConfig

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *Hooks

	// OnUnauthorized runs after a 401 has forced the session to log out
	OnUnauthorized func(ctx context.Context)

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger = internalTypes.Logger

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport handles HTTP communication
type Transport interface {
	Do(ctx context.Context, req *transport.Request, result interface{}) error
	DoRaw(ctx context.Context, req *transport.Request) ([]byte, http.Header, error)
}

// NewClient creates a new admin client. The stored token, if any, is
// loaded into Client.Session; call Session.Init to also restore the profile.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}
		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}
		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}
		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		// Error tracking is optional; a bad DSN must not block the client
		if err := sentry.Init(sentryOpts); err != nil && opts.Logger != nil {
			opts.Logger.Error("Failed to initialize Sentry", "error", err)
		}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	tokens := opts.TokenStore
	switch {
	case tokens != nil:
	case opts.TokenFile != "":
		tokens = auth.NewFileTokenStore(opts.TokenFile, opts.Logger)
	default:
		tokens = auth.NewMemoryTokenStore(opts.Token)
	}

	if opts.Token != "" && (opts.TokenStore != nil || opts.TokenFile != "") {
		if err := tokens.Save(opts.Token); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		options:    opts,
		tokens:     tokens,
	}

	c.transport = transport.NewRESTTransport(&transport.Options{
		BaseURL:        opts.BaseURL,
		HTTPClient:     opts.HTTPClient,
		RetryConfig:    opts.RetryConfig,
		Logger:         opts.Logger,
		Hooks:          opts.Hooks,
		Token:          c.token,
		OnUnauthorized: c.handleUnauthorized,
	})

	c.initServices()

	c.Session = NewSessionStore(c.Auth, tokens, &SessionOptions{Logger: opts.Logger})
	if err := c.Session.restore(); err != nil && opts.Logger != nil {
		opts.Logger.Warn("Failed to load stored token", "error", err)
	}

	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = newAuthService(c)
	c.Analytics = &analyticsService{client: c}
	c.Chats = &chatService{client: c}
	c.Feedback = &feedbackService{client: c}
	c.FAQ = &faqService{client: c}
	c.Settings = &settingsService{client: c}
	c.Users = &userService{client: c}
	c.Documents = &documentService{client: c}
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TokenStore returns the slot the session persists its token in
func (c *Client) TokenStore() TokenStore {
	return c.tokens
}

func (c *Client) token() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.Token()
}

// handleUnauthorized is the global forced logout after a rejected token
func (c *Client) handleUnauthorized(ctx context.Context) {
	if c.Session != nil {
		c.Session.Logout()
	}
	if c.options.OnUnauthorized != nil {
		c.options.OnUnauthorized(ctx)
	}
}

// execute runs req through rate limiting, the transport and error capture
func (c *Client) execute(ctx context.Context, req *transport.Request, result interface{}) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	err := c.transport.Do(ctx, req, result)
	if err != nil {
		c.capture(ctx, req, err, time.Since(start))
	}
	return err
}

// executeRaw is execute for responses that are not JSON
func (c *Client) executeRaw(ctx context.Context, req *transport.Request) ([]byte, http.Header, error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	body, header, err := c.transport.DoRaw(ctx, req)
	if err != nil {
		c.capture(ctx, req, err, time.Since(start))
	}
	return body, header, err
}

func (c *Client) wait(ctx context.Context) error {
	if c.options.RateLimiter == nil {
		return nil
	}
	if err := c.options.RateLimiter.Wait(ctx); err != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// capture reports a failed call to Sentry. Validation failures and
// caller cancellation are not reported.
func (c *Client) capture(ctx context.Context, req *transport.Request, err error, duration time.Duration) {
	if IsValidationError(err) || ctx.Err() != nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("api.path", req.Path)
		scope.SetTag("api.method", req.Method)
		scope.SetContext("api", map[string]interface{}{
			"query":    req.Query.Encode(),
			"duration": duration.String(),
			"message":  UserMessage(err),
		})
		hub.CaptureException(err)
	})
}

// Close flushes any pending Sentry events
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}

// doerFunc adapts Client.execute to auth.Doer
type doerFunc func(ctx context.Context, req *transport.Request, result interface{}) error

func (f doerFunc) Do(ctx context.Context, req *transport.Request, result interface{}) error {
	return f(ctx, req, result)
}
