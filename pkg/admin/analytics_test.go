package admin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_Summary(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/analytics/summary", url.Values{"range": {"week"}}), mock.Anything).
		Return(`{
			"success": true,
			"message": "ok",
			"data": {
				"total_messages": 1200,
				"unique_users": 85,
				"average_rating": 4.2,
				"total_feedback": 40,
				"positive_feedback_percentage": 72.5
			},
			"timestamp": "2025-04-01T09:15:00"
		}`, nil)

	summary, err := client.Analytics.Summary(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1200, summary.TotalMessages)
	assert.Equal(t, 85, summary.UniqueUsers)
	assert.InDelta(t, 72.5, summary.PositiveFeedbackPercentage, 0.001)

	mockTransport.AssertExpectations(t)
}

func TestAnalyticsService_EnvelopeFailure(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"with message", `{"success": false, "message": "Analytics store unavailable", "data": null}`, "Analytics store unavailable"},
		{"without message", `{"success": false, "data": null}`, GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTransport := &MockTransport{}
			client := newMockClient(mockTransport)

			mockTransport.On("Do", mock.Anything, request(http.MethodGet, "/analytics/rag-performance"), mock.Anything).
				Return(tt.body, nil)

			perf, err := client.Analytics.RAGPerformance(context.Background(), RangeMonth)
			require.Error(t, err)
			assert.Nil(t, perf)
			assert.True(t, errors.Is(err, ErrBackendFailure))
			assert.Equal(t, tt.wantMsg, UserMessage(err))
			assert.False(t, IsRetryable(err))
		})
	}
}

func TestAnalyticsService_UserActivity(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/analytics/user-activity", url.Values{"range": {"month"}}), mock.Anything).
		Return(`{"success": true, "data": [
			{"date": "2025-03-01", "count": 4},
			{"date": "2025-03-03", "count": 9}
		]}`, nil)

	points, err := client.Analytics.UserActivity(context.Background(), RangeMonth)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-03-03", points[1].Date.String())
	assert.Equal(t, 9, points[1].Count)
}

func TestAnalyticsService_Monthly(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/analytics/monthly/feedback", url.Values{
		"year":      {"2025"},
		"month":     {"3"},
		"sentiment": {"bad"},
	}), mock.Anything).
		Return(`{"success": true, "data": {"year": 2025, "month": 3, "total_feedback": 12, "sentiment": {"bad": 12}}}`, nil)

	stats, err := client.Analytics.MonthlyFeedback(context.Background(), &MonthlyFeedbackParams{Year: 2025, Month: 3, Sentiment: SentimentBad})
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Sentiment["bad"])

	_, err = client.Analytics.MonthlyMessages(context.Background(), 2025, 13)
	assert.True(t, IsValidationError(err))

	_, err = client.Analytics.MonthlyFeedback(context.Background(), &MonthlyFeedbackParams{Priority: "urgent"})
	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Priority must be low, medium or high", verrs.Field("priority"))

	mockTransport.AssertNumberOfCalls(t, "Do", 1)
}

func TestAnalyticsService_DailyMessages(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/analytics/daily/messages", url.Values{"date": {"2025-03-02"}}), mock.Anything).
		Return(`{"success": true, "data": {"date": "2025-03-02", "total_messages": 55, "unique_users": 7}}`, nil)

	stats, err := client.Analytics.DailyMessages(context.Background(), "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, 55, stats.TotalMessages)
	assert.Equal(t, "2025-03-02", stats.Date.String())
}
