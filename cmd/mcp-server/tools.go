package main

import (
	"context"
	"fmt"
	"time"

	"github.com/eshaffer321/ragadmin-go/pkg/admin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// adminTools holds the admin client and implements all tool handlers
type adminTools struct {
	client *admin.Client
}

// GetSummary tool - headline metrics for a range
type GetSummaryInput struct {
	Range string `json:"range,omitempty" jsonschema:"Time range: day, week, month or year (default: week)"`
}

type GetSummaryOutput struct {
	Range                      string  `json:"range" jsonschema:"Range the metrics cover"`
	TotalMessages              int     `json:"totalMessages" jsonschema:"Messages exchanged in the range"`
	UniqueUsers                int     `json:"uniqueUsers" jsonschema:"Distinct users in the range"`
	AverageRating              float64 `json:"averageRating" jsonschema:"Average feedback rating"`
	TotalFeedback              int     `json:"totalFeedback" jsonschema:"Feedback entries in the range"`
	PositiveFeedbackPercentage float64 `json:"positiveFeedbackPercentage" jsonschema:"Share of good feedback in percent"`
}

func (t *adminTools) GetSummary(ctx context.Context, req *mcp.CallToolRequest, input GetSummaryInput) (*mcp.CallToolResult, GetSummaryOutput, error) {
	timeRange := input.Range
	if timeRange == "" {
		timeRange = admin.RangeWeek
	}

	summary, err := t.client.Analytics.Summary(ctx, timeRange)
	if err != nil {
		return nil, GetSummaryOutput{}, fmt.Errorf("failed to fetch summary: %s", admin.UserMessage(err))
	}

	return nil, GetSummaryOutput{
		Range:                      timeRange,
		TotalMessages:              summary.TotalMessages,
		UniqueUsers:                summary.UniqueUsers,
		AverageRating:              summary.AverageRating,
		TotalFeedback:              summary.TotalFeedback,
		PositiveFeedbackPercentage: summary.PositiveFeedbackPercentage,
	}, nil
}

// GetUserActivity tool - daily active users with missing days filled in
type GetUserActivityInput struct {
	Range string `json:"range,omitempty" jsonschema:"Time range to query: week, month or year (default: week)"`
	Days  int    `json:"days,omitempty" jsonschema:"Number of days to return, ending today (default: 7)"`
}

type ActivityEntry struct {
	Date  string `json:"date" jsonschema:"Day in YYYY-MM-DD format"`
	Count int    `json:"count" jsonschema:"Active users that day"`
}

type GetUserActivityOutput struct {
	Days []ActivityEntry `json:"days" jsonschema:"One entry per day, oldest first"`
}

func (t *adminTools) GetUserActivity(ctx context.Context, req *mcp.CallToolRequest, input GetUserActivityInput) (*mcp.CallToolResult, GetUserActivityOutput, error) {
	timeRange := input.Range
	if timeRange == "" {
		timeRange = admin.RangeWeek
	}
	days := input.Days
	if days <= 0 {
		days = 7
	}

	points, err := t.client.Analytics.UserActivity(ctx, timeRange)
	if err != nil {
		return nil, GetUserActivityOutput{}, fmt.Errorf("failed to fetch user activity: %s", admin.UserMessage(err))
	}

	filled, err := admin.LastDays(days, admin.NewDate(time.Now()))(points)
	if err != nil {
		return nil, GetUserActivityOutput{}, err
	}

	entries := make([]ActivityEntry, 0, len(filled))
	for _, p := range filled {
		entries = append(entries, ActivityEntry{Date: p.Date.String(), Count: p.Count})
	}

	return nil, GetUserActivityOutput{Days: entries}, nil
}

// ListFeedback tool - filtered feedback entries
type ListFeedbackInput struct {
	Sentiment string `json:"sentiment,omitempty" jsonschema:"Filter by sentiment: good or bad (optional)"`
	Priority  string `json:"priority,omitempty" jsonschema:"Filter by priority: low, medium or high (optional)"`
	UserID    string `json:"userId,omitempty" jsonschema:"Filter by user ID (optional)"`
	Page      int    `json:"page,omitempty" jsonschema:"Page number (default: 1)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Entries per page (default: 10)"`
}

type FeedbackEntry struct {
	ID        string    `json:"id" jsonschema:"Feedback ID"`
	UserID    string    `json:"userId" jsonschema:"User who left the feedback"`
	Message   string    `json:"message" jsonschema:"The rated assistant message"`
	Sentiment string    `json:"sentiment" jsonschema:"good or bad"`
	Priority  string    `json:"priority" jsonschema:"low, medium or high"`
	Timestamp time.Time `json:"timestamp" jsonschema:"When the feedback was left"`
	Notes     []string  `json:"notes,omitempty" jsonschema:"Admin notes"`
}

type ListFeedbackOutput struct {
	Feedback   []FeedbackEntry `json:"feedback" jsonschema:"Feedback entries on this page"`
	Total      int             `json:"total" jsonschema:"Entries matching the filters"`
	Page       int             `json:"page" jsonschema:"Current page"`
	TotalPages int             `json:"totalPages" jsonschema:"Number of pages"`
}

func (t *adminTools) ListFeedback(ctx context.Context, req *mcp.CallToolRequest, input ListFeedbackInput) (*mcp.CallToolResult, ListFeedbackOutput, error) {
	list, err := t.client.Feedback.List(ctx, &admin.FeedbackListParams{
		Page:      input.Page,
		Limit:     input.Limit,
		UserID:    input.UserID,
		Sentiment: input.Sentiment,
		Priority:  input.Priority,
	})
	if err != nil {
		return nil, ListFeedbackOutput{}, fmt.Errorf("failed to fetch feedback: %s", admin.UserMessage(err))
	}

	entries := make([]FeedbackEntry, 0, len(list.Feedbacks))
	for _, f := range list.Feedbacks {
		entry := FeedbackEntry{
			ID:        f.ID,
			UserID:    f.UserID,
			Message:   f.MessageContent,
			Sentiment: f.Sentiment,
			Priority:  f.Priority,
			Timestamp: f.Timestamp.Time,
		}
		for _, n := range f.Notes {
			entry.Notes = append(entry.Notes, n.Note)
		}
		entries = append(entries, entry)
	}

	return nil, ListFeedbackOutput{
		Feedback:   entries,
		Total:      list.Total,
		Page:       list.Page,
		TotalPages: list.TotalPages,
	}, nil
}

// GetFeedbackDashboard tool - aggregated feedback over recent days
type GetFeedbackDashboardInput struct {
	Days            int  `json:"days,omitempty" jsonschema:"Window in days (default: 30)"`
	ComparePrevious bool `json:"comparePrevious,omitempty" jsonschema:"Include change against the previous window"`
}

type BucketEntry struct {
	Name       string  `json:"name" jsonschema:"Bucket name"`
	Count      int     `json:"count" jsonschema:"Entries in the bucket"`
	Percentage float64 `json:"percentage" jsonschema:"Share of all entries in percent"`
}

type GetFeedbackDashboardOutput struct {
	TimePeriod            string        `json:"timePeriod" jsonschema:"Window the dashboard covers"`
	TotalCount            int           `json:"totalCount" jsonschema:"Feedback entries in the window"`
	HighPriorityCount     int           `json:"highPriorityCount" jsonschema:"High priority entries in the window"`
	Sentiment             []BucketEntry `json:"sentiment" jsonschema:"Sentiment split"`
	Priority              []BucketEntry `json:"priority" jsonschema:"Priority split"`
	TotalChangePercentage *float64      `json:"totalChangePercentage,omitempty" jsonschema:"Change in volume against the previous window"`
}

func (t *adminTools) GetFeedbackDashboard(ctx context.Context, req *mcp.CallToolRequest, input GetFeedbackDashboardInput) (*mcp.CallToolResult, GetFeedbackDashboardOutput, error) {
	dashboard, err := t.client.Feedback.Dashboard(ctx, input.Days, input.ComparePrevious)
	if err != nil {
		return nil, GetFeedbackDashboardOutput{}, fmt.Errorf("failed to fetch feedback dashboard: %s", admin.UserMessage(err))
	}

	out := GetFeedbackDashboardOutput{
		TimePeriod:        dashboard.TimePeriod,
		TotalCount:        dashboard.TotalCount,
		HighPriorityCount: dashboard.HighPriorityCount,
		Sentiment:         buckets(dashboard.SentimentDistribution, admin.SentimentGood, admin.SentimentBad),
		Priority:          buckets(dashboard.PriorityDistribution, admin.PriorityHigh, admin.PriorityMedium, admin.PriorityLow),
	}
	if dashboard.Comparison != nil {
		change := dashboard.Comparison.TotalChangePercentage
		out.TotalChangePercentage = &change
	}

	return nil, out, nil
}

// buckets orders a distribution by names, recomputing percentages
func buckets(d admin.Distribution, names ...string) []BucketEntry {
	d = admin.BreakdownPercentages(d)
	entries := make([]BucketEntry, 0, len(names))
	for _, name := range names {
		b, ok := d[name]
		if !ok {
			b = &admin.DistributionBucket{}
		}
		entries = append(entries, BucketEntry{Name: name, Count: b.Count, Percentage: b.Percentage})
	}
	return entries
}

// ListChats tool - recent chat sessions
type ListChatsInput struct {
	UserID   string `json:"userId,omitempty" jsonschema:"Only this user's sessions (optional)"`
	DateFrom string `json:"dateFrom,omitempty" jsonschema:"Start date in YYYY-MM-DD format (optional)"`
	DateTo   string `json:"dateTo,omitempty" jsonschema:"End date in YYYY-MM-DD format (optional)"`
	Page     int    `json:"page,omitempty" jsonschema:"Page number (default: 1)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Sessions per page (default: 10)"`
}

type ChatEntry struct {
	ID           string    `json:"id" jsonschema:"Chat session ID"`
	UserID       string    `json:"userId" jsonschema:"User who chatted"`
	MessageCount int       `json:"messageCount" jsonschema:"Messages in the session"`
	LastActive   time.Time `json:"lastActive" jsonschema:"Time of the last message"`
	FirstMessage string    `json:"firstMessage,omitempty" jsonschema:"Opening message of the session"`
}

type ListChatsOutput struct {
	Chats      []ChatEntry `json:"chats" jsonschema:"Chat sessions on this page"`
	Total      int         `json:"total" jsonschema:"Sessions matching the filters"`
	TotalPages int         `json:"totalPages" jsonschema:"Number of pages"`
}

func (t *adminTools) ListChats(ctx context.Context, req *mcp.CallToolRequest, input ListChatsInput) (*mcp.CallToolResult, ListChatsOutput, error) {
	params := &admin.ChatListParams{
		Page:     input.Page,
		Limit:    input.Limit,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
	}

	var list *admin.ChatList
	var err error
	if input.UserID != "" {
		list, err = t.client.Chats.UserHistory(ctx, input.UserID, params)
	} else {
		list, err = t.client.Chats.List(ctx, params)
	}
	if err != nil {
		return nil, ListChatsOutput{}, fmt.Errorf("failed to fetch chats: %s", admin.UserMessage(err))
	}

	entries := make([]ChatEntry, 0, len(list.Chats))
	for _, c := range list.Chats {
		entry := ChatEntry{
			ID:           c.ID,
			UserID:       c.UserID,
			MessageCount: len(c.Messages),
			LastActive:   c.LastActive.Time,
		}
		if len(c.Messages) > 0 {
			entry.FirstMessage = c.Messages[0].Content
		}
		entries = append(entries, entry)
	}

	return nil, ListChatsOutput{
		Chats:      entries,
		Total:      list.Total,
		TotalPages: list.TotalPages,
	}, nil
}

// GetFAQ tool - FAQ content for a language
type GetFAQInput struct {
	Language string `json:"language,omitempty" jsonschema:"Language code (default: en)"`
}

type FAQEntry struct {
	Category string `json:"category" jsonschema:"FAQ category"`
	Question string `json:"question" jsonschema:"Question text"`
	Answer   string `json:"answer" jsonschema:"Answer text"`
}

type GetFAQOutput struct {
	Language string     `json:"language" jsonschema:"Language code"`
	Items    []FAQEntry `json:"items" jsonschema:"All FAQ items in display order"`
}

func (t *adminTools) GetFAQ(ctx context.Context, req *mcp.CallToolRequest, input GetFAQInput) (*mcp.CallToolResult, GetFAQOutput, error) {
	lang := input.Language
	if lang == "" {
		lang = "en"
	}

	faq, err := t.client.FAQ.Get(ctx, lang)
	if err != nil {
		return nil, GetFAQOutput{}, fmt.Errorf("failed to fetch FAQ: %s", admin.UserMessage(err))
	}

	var items []FAQEntry
	for _, category := range faq.Content {
		for _, item := range category.Items {
			items = append(items, FAQEntry{
				Category: category.Category,
				Question: item.Question,
				Answer:   item.Answer,
			})
		}
	}

	return nil, GetFAQOutput{Language: lang, Items: items}, nil
}

// GetLimitedUsers tool - users who hit a quota or were blocked
type GetLimitedUsersInput struct {
	Page  int `json:"page,omitempty" jsonschema:"Page number (default: 1)"`
	Limit int `json:"limit,omitempty" jsonschema:"Users per page (default: 10)"`
}

type LimitedUserEntry struct {
	UserID      string `json:"userId" jsonschema:"User ID"`
	IsBlocked   bool   `json:"isBlocked" jsonschema:"Whether the user is blocked"`
	IsLimited   bool   `json:"isLimited" jsonschema:"Whether the user hit the daily token limit"`
	TotalTokens int    `json:"totalTokens,omitempty" jsonschema:"Tokens used today"`
}

type GetLimitedUsersOutput struct {
	Users []LimitedUserEntry `json:"users" jsonschema:"Limited users on this page"`
	Total int                `json:"total" jsonschema:"Number of limited users"`
}

func (t *adminTools) GetLimitedUsers(ctx context.Context, req *mcp.CallToolRequest, input GetLimitedUsersInput) (*mcp.CallToolResult, GetLimitedUsersOutput, error) {
	list, err := t.client.Users.Limited(ctx, &admin.ListParams{Page: input.Page, Limit: input.Limit})
	if err != nil {
		return nil, GetLimitedUsersOutput{}, fmt.Errorf("failed to fetch limited users: %s", admin.UserMessage(err))
	}

	entries := make([]LimitedUserEntry, 0, len(list.Users))
	for _, u := range list.Users {
		entry := LimitedUserEntry{
			UserID:    u.UserID,
			IsBlocked: u.IsBlocked,
			IsLimited: u.IsLimited,
		}
		if u.Usage != nil {
			entry.TotalTokens = u.Usage.TotalTokens
		}
		entries = append(entries, entry)
	}

	return nil, GetLimitedUsersOutput{Users: entries, Total: list.Total}, nil
}
