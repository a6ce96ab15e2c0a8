package admin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// getEnvelope reads an enveloped payload and turns success=false into an error
func getEnvelope[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	var env Envelope[T]

	if err := c.execute(ctx, &transport.Request{Method: http.MethodGet, Path: path, Query: query}, &env); err != nil {
		return zero, err
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = GenericErrorMessage
		}
		return zero, &Error{
			Code:       "BACKEND_FAILURE",
			Message:    msg,
			Detail:     env.Message,
			StatusCode: http.StatusOK,
			Err:        ErrBackendFailure,
		}
	}

	return env.Data, nil
}

// pageQuery validates and encodes pagination; zero values take the defaults
func pageQuery(page, limit int) (url.Values, error) {
	verrs := &ValidationErrors{}
	if page < 0 {
		verrs.Add("page", "Page must be at least 1", page)
	}
	if limit < 0 {
		verrs.Add("limit", "Limit must be at least 1", limit)
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}

	return url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}, nil
}

// setIf adds key only when value is non-empty
func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// rangeQuery encodes an analytics time range, defaulting to a week
func rangeQuery(timeRange string) url.Values {
	if timeRange == "" {
		timeRange = RangeWeek
	}
	return url.Values{"range": {timeRange}}
}
