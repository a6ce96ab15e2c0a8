package admin

import (
	"context"
	"net/http"
	"time"
)

// DefaultCheckTimeout bounds a backend availability check
const DefaultCheckTimeout = 5 * time.Second

// CheckBackend reports whether anything answers HTTP at baseURL. Any
// response counts, error statuses included; only a failure to get a
// response within timeout means unavailable.
func CheckBackend(ctx context.Context, baseURL string, timeout time.Duration) bool {
	return checkBackend(ctx, http.DefaultClient, baseURL, timeout)
}

func checkBackend(ctx context.Context, httpClient *http.Client, baseURL string, timeout time.Duration) bool {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Ping reports whether the client's backend is reachable. It goes through
// the configured HTTP transport but with the short check timeout.
func (c *Client) Ping(ctx context.Context) bool {
	checker := &http.Client{
		Transport:     c.httpClient.Transport,
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
	}
	ok := checkBackend(ctx, checker, c.baseURL, DefaultCheckTimeout)
	if c.options.Logger != nil {
		if ok {
			c.options.Logger.Debug("Backend is available", "url", c.baseURL)
		} else {
			c.options.Logger.Warn("Backend is not available", "url", c.baseURL)
		}
	}
	return ok
}
