package admin

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/pkg/errors"
)

const defaultDashboardDays = 30

// feedbackService implements the FeedbackService interface
type feedbackService struct {
	client *Client
}

// List retrieves a page of feedback entries
func (s *feedbackService) List(ctx context.Context, params *FeedbackListParams) (*FeedbackList, error) {
	if params == nil {
		params = &FeedbackListParams{}
	}
	if err := validateFeedbackFilters(params.Sentiment, params.Priority); err != nil {
		return nil, err
	}

	query, err := pageQuery(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}
	setIf(query, "user_id", params.UserID)
	setIf(query, "sentiment", params.Sentiment)
	setIf(query, "priority", params.Priority)
	setIf(query, "date_from", params.DateFrom)
	setIf(query, "date_to", params.DateTo)

	var result FeedbackList
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: "/feedbacks", Query: query}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to list feedback")
	}

	return &result, nil
}

// Get retrieves a single feedback entry
func (s *feedbackService) Get(ctx context.Context, feedbackID string) (*Feedback, error) {
	if err := requireID("feedback_id", feedbackID); err != nil {
		return nil, err
	}

	var result Feedback
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: feedbackPath(feedbackID)}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get feedback")
	}

	return &result, nil
}

// UpdatePriority sets the priority of a feedback entry
func (s *feedbackService) UpdatePriority(ctx context.Context, feedbackID, priority string) (*Feedback, error) {
	if err := requireID("feedback_id", feedbackID); err != nil {
		return nil, err
	}
	if !isPriority(priority) {
		return nil, newValidationError("priority", "Priority must be low, medium or high", priority)
	}

	var result Feedback
	err := s.client.execute(ctx, &transport.Request{
		Method: http.MethodPatch,
		Path:   feedbackPath(feedbackID) + "/priority",
		Body:   map[string]string{"priority": priority},
	}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update feedback priority")
	}

	return &result, nil
}

// AddNote attaches an admin note to a feedback entry
func (s *feedbackService) AddNote(ctx context.Context, feedbackID, note string) (*Feedback, error) {
	if err := requireID("feedback_id", feedbackID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(note) == "" {
		return nil, newValidationError("note", "Note is required", note)
	}

	var result Feedback
	err := s.client.execute(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   feedbackPath(feedbackID) + "/notes",
		Body:   map[string]string{"note": note},
	}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to add feedback note")
	}

	return &result, nil
}

// SentimentDistribution retrieves the good/bad split over a range
func (s *feedbackService) SentimentDistribution(ctx context.Context, params *DistributionParams) (*FeedbackDistribution, error) {
	dist, err := getEnvelope[*FeedbackDistribution](ctx, s.client, "/feedbacks/analytics/sentiment", distributionQuery(params))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sentiment distribution")
	}
	return dist, nil
}

// PriorityDistribution retrieves the low/medium/high split over a range
func (s *feedbackService) PriorityDistribution(ctx context.Context, params *DistributionParams) (*FeedbackDistribution, error) {
	dist, err := getEnvelope[*FeedbackDistribution](ctx, s.client, "/feedbacks/analytics/priority", distributionQuery(params))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get priority distribution")
	}
	return dist, nil
}

// SentimentTrends retrieves sentiment counts over time
func (s *feedbackService) SentimentTrends(ctx context.Context, params *TrendParams) (*TrendSeries, error) {
	series, err := getEnvelope[*TrendSeries](ctx, s.client, "/feedbacks/trends/sentiment", trendQuery(params))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sentiment trends")
	}
	return series, nil
}

// PriorityTrends retrieves priority counts over time
func (s *feedbackService) PriorityTrends(ctx context.Context, params *TrendParams) (*TrendSeries, error) {
	series, err := getEnvelope[*TrendSeries](ctx, s.client, "/feedbacks/trends/priority", trendQuery(params))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get priority trends")
	}
	return series, nil
}

// Dashboard aggregates the last days of feedback
func (s *feedbackService) Dashboard(ctx context.Context, days int, comparePrevious bool) (*FeedbackDashboard, error) {
	if days < 0 {
		return nil, newValidationError("days", "Days must be at least 1", days)
	}
	if days == 0 {
		days = defaultDashboardDays
	}

	query := url.Values{
		"days":             {strconv.Itoa(days)},
		"compare_previous": {strconv.FormatBool(comparePrevious)},
	}

	dashboard, err := getEnvelope[*FeedbackDashboard](ctx, s.client, "/feedbacks/dashboard", query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get feedback dashboard")
	}
	return dashboard, nil
}

// Export writes the filtered feedback to w
func (s *feedbackService) Export(ctx context.Context, params *FeedbackExportParams, w io.Writer) (int64, error) {
	if params == nil {
		params = &FeedbackExportParams{}
	}
	if err := validateFeedbackFilters(params.Sentiment, params.Priority); err != nil {
		return 0, err
	}

	format, err := exportFormat(params.Format)
	if err != nil {
		return 0, err
	}

	query := url.Values{"format": {format}}
	setIf(query, "user_id", params.UserID)
	setIf(query, "sentiment", params.Sentiment)
	setIf(query, "priority", params.Priority)
	setIf(query, "date_from", params.DateFrom)
	setIf(query, "date_to", params.DateTo)

	body, _, err := s.client.executeRaw(ctx, &transport.Request{Method: http.MethodGet, Path: "/feedbacks/export", Query: query})
	if err != nil {
		return 0, errors.Wrap(err, "failed to export feedback")
	}

	n, err := w.Write(body)
	if err != nil {
		return int64(n), errors.Wrap(err, "failed to write feedback export")
	}

	return int64(n), nil
}

func feedbackPath(feedbackID string) string {
	return "/feedbacks/" + url.PathEscape(feedbackID)
}

// distributionQuery sends custom bounds only for the custom range
func distributionQuery(params *DistributionParams) url.Values {
	if params == nil {
		params = &DistributionParams{}
	}

	query := rangeQuery(params.Range)
	query.Set("compare_previous", strconv.FormatBool(params.ComparePrevious))

	if params.Range == RangeCustom && params.StartDate != "" && params.EndDate != "" {
		query.Set("start_date", params.StartDate)
		query.Set("end_date", params.EndDate)
	}

	return query
}

// trendQuery defaults to a month of daily points
func trendQuery(params *TrendParams) url.Values {
	if params == nil {
		params = &TrendParams{}
	}

	timespan := params.Timespan
	if timespan == "" {
		timespan = RangeMonth
	}
	period := params.Period
	if period == "" {
		period = "daily"
	}

	query := url.Values{
		"timespan": {timespan},
		"period":   {period},
	}

	if params.StartDate != "" && params.EndDate != "" {
		query.Set("start_date", params.StartDate)
		query.Set("end_date", params.EndDate)
	}

	return query
}
