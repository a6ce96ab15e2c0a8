package admin

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// analyticsService implements the AnalyticsService interface
type analyticsService struct {
	client *Client
}

// DailyMessages retrieves message statistics for one day
func (s *analyticsService) DailyMessages(ctx context.Context, date string) (*DailyMessageStats, error) {
	query := url.Values{}
	setIf(query, "date", date)

	stats, err := getEnvelope[*DailyMessageStats](ctx, s.client, "/analytics/daily/messages", query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get daily messages")
	}
	return stats, nil
}

// DailyFeedback retrieves feedback statistics for one day
func (s *analyticsService) DailyFeedback(ctx context.Context, params *DailyFeedbackParams) (*DailyFeedbackStats, error) {
	if params == nil {
		params = &DailyFeedbackParams{}
	}
	if err := validateFeedbackFilters(params.Sentiment, params.Priority); err != nil {
		return nil, err
	}

	query := url.Values{}
	setIf(query, "date", params.Date)
	setIf(query, "sentiment", params.Sentiment)
	setIf(query, "priority", params.Priority)

	stats, err := getEnvelope[*DailyFeedbackStats](ctx, s.client, "/analytics/daily/feedback", query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get daily feedback")
	}
	return stats, nil
}

// MonthlyMessages retrieves message statistics for a month
func (s *analyticsService) MonthlyMessages(ctx context.Context, year, month int) (*MonthlyMessageStats, error) {
	query, err := monthQuery(year, month)
	if err != nil {
		return nil, err
	}

	stats, err := getEnvelope[*MonthlyMessageStats](ctx, s.client, "/analytics/monthly/messages", query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get monthly messages")
	}
	return stats, nil
}

// MonthlyFeedback retrieves feedback statistics for a month
func (s *analyticsService) MonthlyFeedback(ctx context.Context, params *MonthlyFeedbackParams) (*MonthlyFeedbackStats, error) {
	if params == nil {
		params = &MonthlyFeedbackParams{}
	}
	if err := validateFeedbackFilters(params.Sentiment, params.Priority); err != nil {
		return nil, err
	}

	query, err := monthQuery(params.Year, params.Month)
	if err != nil {
		return nil, err
	}
	setIf(query, "sentiment", params.Sentiment)
	setIf(query, "priority", params.Priority)

	stats, err := getEnvelope[*MonthlyFeedbackStats](ctx, s.client, "/analytics/monthly/feedback", query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get monthly feedback")
	}
	return stats, nil
}

// Summary retrieves the headline metrics for a range
func (s *analyticsService) Summary(ctx context.Context, timeRange string) (*SummaryMetrics, error) {
	metrics, err := getEnvelope[*SummaryMetrics](ctx, s.client, "/analytics/summary", rangeQuery(timeRange))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get summary metrics")
	}
	return metrics, nil
}

// UserActivity retrieves per-day active user counts
func (s *analyticsService) UserActivity(ctx context.Context, timeRange string) ([]*ActivityPoint, error) {
	points, err := getEnvelope[[]*ActivityPoint](ctx, s.client, "/analytics/user-activity", rangeQuery(timeRange))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user activity")
	}
	return points, nil
}

// TokenUsage retrieves per-day token consumption
func (s *analyticsService) TokenUsage(ctx context.Context, timeRange string) ([]*TokenUsagePoint, error) {
	points, err := getEnvelope[[]*TokenUsagePoint](ctx, s.client, "/analytics/token-usage", rangeQuery(timeRange))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token usage")
	}
	return points, nil
}

// RAGPerformance retrieves retrieval quality scores
func (s *analyticsService) RAGPerformance(ctx context.Context, timeRange string) (*RAGPerformance, error) {
	perf, err := getEnvelope[*RAGPerformance](ctx, s.client, "/analytics/rag-performance", rangeQuery(timeRange))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get RAG performance")
	}
	return perf, nil
}

// monthQuery encodes year and month, filling zeros from the current date
func monthQuery(year, month int) (url.Values, error) {
	if month < 0 || month > 12 {
		return nil, newValidationError("month", "Month must be between 1 and 12", month)
	}
	if year < 0 {
		return nil, newValidationError("year", "Year must be positive", year)
	}

	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	return url.Values{
		"year":  {strconv.Itoa(year)},
		"month": {strconv.Itoa(month)},
	}, nil
}
