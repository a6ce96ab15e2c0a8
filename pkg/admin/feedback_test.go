package admin

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_List(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/feedbacks", url.Values{
		"page":      {"1"},
		"limit":     {"25"},
		"sentiment": {"bad"},
		"priority":  {"high"},
	}), mock.Anything).
		Return(`{
			"feedbacks": [{
				"id": "f1",
				"user_id": "u1",
				"message_content": "wrong answer",
				"sentiment": "bad",
				"priority": "high",
				"timestamp": "2025-03-02T08:00:00Z",
				"notes": [{"note": "checked", "created_at": "2025-03-02T09:00:00Z"}]
			}],
			"total": 1, "page": 1, "limit": 25, "totalPages": 1
		}`, nil)

	list, err := client.Feedback.List(context.Background(), &FeedbackListParams{Limit: 25, Sentiment: SentimentBad, Priority: PriorityHigh})
	require.NoError(t, err)
	require.Len(t, list.Feedbacks, 1)
	assert.Equal(t, "f1", list.Feedbacks[0].ID)
	assert.Equal(t, "checked", list.Feedbacks[0].Notes[0].Note)

	_, err = client.Feedback.List(context.Background(), &FeedbackListParams{Sentiment: "neutral"})
	assert.True(t, IsValidationError(err))

	mockTransport.AssertNumberOfCalls(t, "Do", 1)
}

func TestFeedbackService_UpdatePriority(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	matcher := mock.MatchedBy(func(req *transport.Request) bool {
		body, ok := req.Body.(map[string]string)
		return ok && req.Method == http.MethodPatch && req.Path == "/feedbacks/f1/priority" && body["priority"] == "medium"
	})
	mockTransport.On("Do", mock.Anything, matcher, mock.Anything).
		Return(`{"id": "f1", "priority": "medium", "sentiment": "bad"}`, nil)

	fb, err := client.Feedback.UpdatePriority(context.Background(), "f1", PriorityMedium)
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, fb.Priority)

	_, err = client.Feedback.UpdatePriority(context.Background(), "f1", "critical")
	assert.True(t, IsValidationError(err))

	mockTransport.AssertNumberOfCalls(t, "Do", 1)
}

func TestFeedbackService_AddNote(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	matcher := mock.MatchedBy(func(req *transport.Request) bool {
		body, ok := req.Body.(map[string]string)
		return ok && req.Method == http.MethodPost && req.Path == "/feedbacks/f1/notes" && body["note"] == "escalated"
	})
	mockTransport.On("Do", mock.Anything, matcher, mock.Anything).
		Return(`{"id": "f1", "notes": [{"note": "escalated"}]}`, nil)

	fb, err := client.Feedback.AddNote(context.Background(), "f1", "escalated")
	require.NoError(t, err)
	require.Len(t, fb.Notes, 1)

	_, err = client.Feedback.AddNote(context.Background(), "f1", "   ")
	assert.True(t, IsValidationError(err))
}

func TestFeedbackService_Distribution(t *testing.T) {
	tests := []struct {
		name   string
		params *DistributionParams
		query  url.Values
	}{
		{
			name:   "defaults",
			params: nil,
			query:  url.Values{"range": {"week"}, "compare_previous": {"false"}},
		},
		{
			name:   "custom range sends bounds",
			params: &DistributionParams{Range: RangeCustom, StartDate: "2025-01-01", EndDate: "2025-01-31", ComparePrevious: true},
			query: url.Values{
				"range":            {"custom"},
				"compare_previous": {"true"},
				"start_date":       {"2025-01-01"},
				"end_date":         {"2025-01-31"},
			},
		},
		{
			name:   "bounds ignored outside custom range",
			params: &DistributionParams{Range: RangeMonth, StartDate: "2025-01-01", EndDate: "2025-01-31"},
			query:  url.Values{"range": {"month"}, "compare_previous": {"false"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTransport := &MockTransport{}
			client := newMockClient(mockTransport)

			mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/feedbacks/analytics/sentiment", tt.query), mock.Anything).
				Return(`{"success": true, "data": {
					"range": "week",
					"total": 10,
					"distribution": {"good": {"count": 7, "percentage": 70}, "bad": {"count": 3, "percentage": 30}}
				}}`, nil)

			dist, err := client.Feedback.SentimentDistribution(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, 7, dist.Distribution["good"].Count)
			mockTransport.AssertExpectations(t)
		})
	}
}

func TestFeedbackService_Trends(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/feedbacks/trends/priority", url.Values{
		"timespan": {"month"},
		"period":   {"daily"},
	}), mock.Anything).
		Return(`{"success": true, "data": {"timespan": "month", "period": "daily", "data": [
			{"date": "2025-03-01", "counts": {"high": 2, "low": 1}}
		]}}`, nil)

	series, err := client.Feedback.PriorityTrends(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, series.Data, 1)
	assert.Equal(t, 2, series.Data[0].Counts["high"])
	mockTransport.AssertExpectations(t)
}

func TestFeedbackService_Dashboard(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/feedbacks/dashboard", url.Values{
		"days":             {"30"},
		"compare_previous": {"true"},
	}), mock.Anything).
		Return(`{"success": true, "data": {
			"time_period": "30 days",
			"total_count": 50,
			"high_priority_count": 4,
			"sentiment_distribution": {"good": {"count": 40, "percentage": 80}},
			"comparison": {"total_change": 10, "total_change_percentage": 25}
		}}`, nil)

	dashboard, err := client.Feedback.Dashboard(context.Background(), 0, true)
	require.NoError(t, err)
	assert.Equal(t, 50, dashboard.TotalCount)
	assert.InDelta(t, 25, dashboard.Comparison.TotalChangePercentage, 0.001)

	_, err = client.Feedback.Dashboard(context.Background(), -7, false)
	assert.True(t, IsValidationError(err))

	mockTransport.AssertNumberOfCalls(t, "Do", 1)
}
