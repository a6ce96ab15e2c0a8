package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eshaffer321/ragadmin-go/internal/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	authHeaderKey     = "Authorization"
	clientIDHeaderKey = "X-Client-ID"
	contentType       = "application/json"
)

// Request describes one REST call
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-encoded when non-nil
	Body interface{}

	// RawBody is sent as-is with ContentType; used for multipart uploads
	RawBody     []byte
	ContentType string

	// SkipUnauthorizedHook leaves a 401 to the caller instead of forcing logout
	SkipUnauthorizedHook bool
}

// RESTTransport handles HTTP communication with the admin API
type RESTTransport struct {
	baseURL        string
	httpClient     *http.Client
	retryClient    *retryablehttp.Client
	headers        map[string]string
	token          func() string
	onUnauthorized func(ctx context.Context)
	logger         types.Logger
	hooks          *types.Hooks
}

// Options for REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks

	// ClientID is sent as X-Client-ID; a random UUID when empty
	ClientID string

	// Token returns the bearer token to attach, "" for none
	Token func() string

	// OnUnauthorized runs after any 401 response
	OnUnauthorized func(ctx context.Context)
}

// NewRESTTransport creates a new REST transport
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	// Create retry client if configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		// Hand the final response back so status mapping stays in one place
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	headers := map[string]string{
		"Accept":       contentType,
		"Content-Type": contentType,
		"User-Agent":   types.UserAgent,
	}

	clientID := opts.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}
	headers[clientIDHeaderKey] = clientID

	for k, v := range opts.Headers {
		headers[k] = v
	}

	token := opts.Token
	if token == nil {
		token = func() string { return "" }
	}

	return &RESTTransport{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpClient:     opts.HTTPClient,
		retryClient:    retryClient,
		headers:        headers,
		token:          token,
		onUnauthorized: opts.OnUnauthorized,
		logger:         opts.Logger,
		hooks:          opts.Hooks,
	}
}

// Do executes req and decodes a JSON response body into result.
// result may be nil when the body is not needed.
func (t *RESTTransport) Do(ctx context.Context, req *Request, result interface{}) error {
	body, _, err := t.DoRaw(ctx, req)
	if err != nil {
		return err
	}

	if result != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return errors.Wrap(err, "failed to parse response")
		}
	}

	return nil
}

// DoRaw executes req and returns the undecoded response body and headers
func (t *RESTTransport) DoRaw(ctx context.Context, req *Request) ([]byte, http.Header, error) {
	httpReq, err := t.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	if t.logger != nil {
		t.logger.Debug("API request", "method", req.Method, "path", req.Path, "query", req.Query.Encode())
	}

	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		err = t.transportError(ctx, httpReq, err)
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return nil, nil, err
	}
	defer resp.Body.Close()

	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read response")
	}

	if t.logger != nil {
		t.logger.Debug("API response", "status", resp.StatusCode, "duration", duration, "size", len(respBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := t.handleHTTPError(resp.StatusCode, respBody)
		if resp.StatusCode == http.StatusUnauthorized && !req.SkipUnauthorizedHook && t.onUnauthorized != nil {
			if t.logger != nil {
				t.logger.Warn("Token rejected, forcing logout", "path", req.Path)
			}
			t.onUnauthorized(ctx)
		}
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, apiErr)
		}
		return nil, nil, apiErr
	}

	return respBody, resp.Header, nil
}

func (t *RESTTransport) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	u := t.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	reqContentType := contentType
	switch {
	case req.RawBody != nil:
		body = bytes.NewReader(req.RawBody)
		if req.ContentType != "" {
			reqContentType = req.ContentType
		}
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request")
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Content-Type", reqContentType)

	if token := t.token(); token != "" {
		httpReq.Header.Set(authHeaderKey, "Bearer "+token)
	}

	return httpReq, nil
}

// doRequest executes the HTTP request with retry if configured
func (t *RESTTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

// transportError classifies a failure that produced no response.
// Caller cancellation is reported as the context error, everything else
// is a network error.
func (t *RESTTransport) transportError(ctx context.Context, req *http.Request, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &types.NetworkError{
		Method: req.Method,
		URL:    req.URL.Redacted(),
		Err:    err,
	}
}

// handleHTTPError maps a non-2xx response to an API error
func (t *RESTTransport) handleHTTPError(statusCode int, body []byte) error {
	var errResp struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}

	_ = json.Unmarshal(body, &errResp)

	detail := parseDetail(errResp.Detail)
	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}

	apiErr := &types.Error{
		Detail:     detail,
		StatusCode: statusCode,
	}

	switch statusCode {
	case http.StatusUnauthorized:
		apiErr.Code = "UNAUTHORIZED"
		apiErr.Err = types.ErrUnauthorized
	case http.StatusForbidden:
		apiErr.Code = "FORBIDDEN"
		apiErr.Err = types.ErrForbidden
	case http.StatusNotFound:
		apiErr.Code = "NOT_FOUND"
		apiErr.Err = types.ErrNotFound
	case http.StatusTooManyRequests:
		apiErr.Code = "RATE_LIMITED"
		apiErr.Err = types.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		apiErr.Code = "TIMEOUT"
		apiErr.Err = types.ErrTimeout
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr.Code = "BAD_REQUEST"
	default:
		if statusCode >= 500 {
			apiErr.Code = "SERVER_ERROR"
			apiErr.Err = types.ErrServerError
		} else {
			apiErr.Code = "HTTP_ERROR"
		}
	}

	baseMsg := fmt.Sprintf("HTTP error: %d", statusCode)
	if statusCode >= 500 {
		baseMsg = fmt.Sprintf("server error: %d", statusCode)
		if desc := httpStatusDescription(statusCode); desc != "" {
			baseMsg = fmt.Sprintf("server error: %d (%s)", statusCode, desc)
		}
	}

	switch {
	case detail != "":
		apiErr.Message = fmt.Sprintf("%s: %s", baseMsg, detail)
	case msg != "":
		apiErr.Message = fmt.Sprintf("%s: %s", baseMsg, msg)
	default:
		apiErr.Message = baseMsg
	}

	return apiErr
}

// parseDetail reads a "detail" field that is either a string or a list of
// validation entries carrying "msg".
func parseDetail(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var entries []struct {
		Msg string        `json:"msg"`
		Loc []interface{} `json:"loc"`
	}
	if err := json.Unmarshal(raw, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// httpStatusDescription returns a human-readable description for common HTTP status codes.
func httpStatusDescription(statusCode int) string {
	descriptions := map[int]string{
		500: "Internal Server Error",
		501: "Not Implemented",
		502: "Bad Gateway",
		503: "Service Unavailable",
		504: "Gateway Timeout",
		520: "Web Server Error",
		521: "Web Server Is Down",
		522: "Connection Timed Out",
		523: "Origin Is Unreachable",
		524: "A Timeout Occurred",
		525: "SSL Handshake Failed",
		526: "Invalid SSL Certificate",
	}
	return descriptions[statusCode]
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
