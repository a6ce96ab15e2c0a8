package admin

import (
	internalTypes "github.com/eshaffer321/ragadmin-go/internal/types"
)

// Credentials are exchanged for a bearer token
type Credentials = internalTypes.Credentials

// User is the profile of the signed-in administrator
type User = internalTypes.User

// LoginResponse is the /login payload
type LoginResponse = internalTypes.LoginResponse

// TokenStore is the durable slot holding the bearer token
type TokenStore = internalTypes.TokenStore

// RetryConfig configures transport-level retry behavior
type RetryConfig = internalTypes.RetryConfig

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// Envelope wraps analytics payloads
type Envelope[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Time ranges accepted by analytics endpoints
const (
	RangeDay    = "day"
	RangeWeek   = "week"
	RangeMonth  = "month"
	RangeYear   = "year"
	RangeCustom = "custom"
)

// Feedback sentiments
const (
	SentimentGood = "good"
	SentimentBad  = "bad"
)

// Feedback priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Analytics

// DailyMessageStats summarizes one day of chat traffic
type DailyMessageStats struct {
	Date              Date           `json:"date"`
	TotalMessages     int            `json:"total_messages"`
	UniqueUsers       int            `json:"unique_users"`
	UserMessages      int            `json:"user_messages"`
	AssistantMessages int            `json:"assistant_messages"`
	Hourly            []*HourlyCount `json:"hourly_distribution,omitempty"`
}

// DailyFeedbackStats summarizes one day of feedback
type DailyFeedbackStats struct {
	Date          Date           `json:"date"`
	TotalFeedback int            `json:"total_feedback"`
	Sentiment     map[string]int `json:"sentiment"`
	Priority      map[string]int `json:"priority"`
}

// DailyFeedbackParams filters daily feedback statistics
type DailyFeedbackParams struct {
	Date      string
	Sentiment string
	Priority  string
}

// MonthlyFeedbackParams selects a month of feedback statistics.
// A zero Year or Month means the current one.
type MonthlyFeedbackParams struct {
	Year      int
	Month     int
	Sentiment string
	Priority  string
}

// MonthlyMessageStats summarizes one month of chat traffic
type MonthlyMessageStats struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	TotalMessages int              `json:"total_messages"`
	UniqueUsers   int              `json:"unique_users"`
	Daily         []*ActivityPoint `json:"daily"`
}

// MonthlyFeedbackStats summarizes one month of feedback
type MonthlyFeedbackStats struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	TotalFeedback int              `json:"total_feedback"`
	Sentiment     map[string]int   `json:"sentiment"`
	Priority      map[string]int   `json:"priority"`
	Daily         []*ActivityPoint `json:"daily"`
}

// SummaryMetrics are the dashboard headline numbers
type SummaryMetrics struct {
	TotalMessages              int     `json:"total_messages"`
	UniqueUsers                int     `json:"unique_users"`
	AverageRating              float64 `json:"average_rating"`
	TotalFeedback              int     `json:"total_feedback"`
	PositiveFeedbackPercentage float64 `json:"positive_feedback_percentage"`
}

// ActivityPoint is a per-day count
type ActivityPoint struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// TokenUsagePoint is per-day token consumption
type TokenUsagePoint struct {
	Date         Date `json:"date"`
	InputTokens  int  `json:"input_tokens"`
	OutputTokens int  `json:"output_tokens"`
}

// RAGPerformance holds retrieval quality scores (0-100)
type RAGPerformance struct {
	RelevanceScore   float64 `json:"relevance_score"`
	AccuracyScore    float64 `json:"accuracy_score"`
	LatencyScore     float64 `json:"latency_score"`
	UtilizationScore float64 `json:"utilization_score"`
	SuccessRate      float64 `json:"success_rate"`
}

// HourlyCount is the message volume of one hour of the day
type HourlyCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Chats

// ChatMessage is one turn in a chat session
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
}

// ChatSession is a conversation between a user and the assistant
type ChatSession struct {
	ID         string         `json:"_id"`
	UserID     string         `json:"user_id"`
	CreatedAt  Timestamp      `json:"created_at"`
	LastActive Timestamp      `json:"last_active"`
	Messages   []*ChatMessage `json:"messages"`
}

// ChatList is a page of chat sessions
type ChatList struct {
	Chats      []*ChatSession `json:"chats"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// ChatListParams filters chat listings
type ChatListParams struct {
	Page     int
	Limit    int
	UserID   string
	DateFrom string
	DateTo   string
}

// ChatExportParams filters a chat export
type ChatExportParams struct {
	Format   string
	UserID   string
	DateFrom string
	DateTo   string
}

// Feedback

// FeedbackNote is an admin annotation on a feedback entry
type FeedbackNote struct {
	Note      string    `json:"note"`
	Author    string    `json:"author,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// Feedback is a user rating of an assistant answer
type Feedback struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	MessageContent string          `json:"message_content"`
	Sentiment      string          `json:"sentiment"`
	Priority       string          `json:"priority"`
	Timestamp      Timestamp       `json:"timestamp"`
	Notes          []*FeedbackNote `json:"notes,omitempty"`
}

// FeedbackList is a page of feedback entries
type FeedbackList struct {
	Feedbacks  []*Feedback `json:"feedbacks"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// FeedbackListParams filters feedback listings
type FeedbackListParams struct {
	Page      int
	Limit     int
	UserID    string
	Sentiment string
	Priority  string
	DateFrom  string
	DateTo    string
}

// FeedbackExportParams filters a feedback export
type FeedbackExportParams struct {
	Format    string
	UserID    string
	Sentiment string
	Priority  string
	DateFrom  string
	DateTo    string
}

// DistributionBucket is one slice of a distribution
type DistributionBucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution maps a sentiment or priority to its share
type Distribution map[string]*DistributionBucket

// FeedbackDistribution is a sentiment or priority breakdown over a range
type FeedbackDistribution struct {
	Range        string       `json:"range"`
	Total        int          `json:"total"`
	Distribution Distribution `json:"distribution"`
	Previous     Distribution `json:"previous_period,omitempty"`
}

// DistributionParams selects the range of a distribution
type DistributionParams struct {
	Range           string
	StartDate       string
	EndDate         string
	ComparePrevious bool
}

// TrendPoint holds per-bucket counts for one date
type TrendPoint struct {
	Date   Date           `json:"date"`
	Counts map[string]int `json:"counts"`
}

// TrendSeries is a time series of sentiment or priority counts
type TrendSeries struct {
	Timespan string        `json:"timespan"`
	Period   string        `json:"period"`
	Data     []*TrendPoint `json:"data"`
}

// TrendParams selects the window and granularity of a trend
type TrendParams struct {
	Timespan  string
	Period    string
	StartDate string
	EndDate   string
}

// ChangeMetric is the delta of one bucket against the previous period
type ChangeMetric struct {
	Change           float64 `json:"change"`
	ChangePercentage float64 `json:"change_percentage"`
}

// FeedbackComparison compares the dashboard period with the previous one
type FeedbackComparison struct {
	TotalChange           float64                  `json:"total_change"`
	TotalChangePercentage float64                  `json:"total_change_percentage"`
	SentimentChanges      map[string]*ChangeMetric `json:"sentiment_changes,omitempty"`
	PriorityChanges       map[string]*ChangeMetric `json:"priority_changes,omitempty"`
}

// FeedbackTrends are the dashboard's recent series
type FeedbackTrends struct {
	Sentiment []*TrendPoint `json:"sentiment"`
	Priority  []*TrendPoint `json:"priority"`
}

// FeedbackDashboard aggregates feedback analytics for one period
type FeedbackDashboard struct {
	TimePeriod            string              `json:"time_period"`
	TotalCount            int                 `json:"total_count"`
	HighPriorityCount     int                 `json:"high_priority_count"`
	SentimentDistribution Distribution        `json:"sentiment_distribution"`
	PriorityDistribution  Distribution        `json:"priority_distribution"`
	RecentTrends          *FeedbackTrends     `json:"recent_trends,omitempty"`
	Comparison            *FeedbackComparison `json:"comparison,omitempty"`
}

// FAQ

// FAQItem is one question and answer
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQCategory groups FAQ items under a heading
type FAQCategory struct {
	Category string     `json:"category"`
	Items    []*FAQItem `json:"items"`
}

// FAQContent is the FAQ for one language
type FAQContent struct {
	Language string         `json:"language,omitempty"`
	Content  []*FAQCategory `json:"content"`
}

// Language is an FAQ language option
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Settings and users

// TokenSettings are the global token quotas
type TokenSettings struct {
	DailyTokenLimit int `json:"daily_token_limit"`
}

// SystemSettings are the backend's tunable performance settings.
// The key set is owned by the backend.
type SystemSettings map[string]interface{}

// TokenUsage is a user's token consumption
type TokenUsage struct {
	UserID       string    `json:"user_id"`
	TotalTokens  int       `json:"total_tokens"`
	InputTokens  int       `json:"input_tokens,omitempty"`
	OutputTokens int       `json:"output_tokens,omitempty"`
	DailyLimit   int       `json:"daily_limit,omitempty"`
	LastReset    Timestamp `json:"last_reset,omitempty"`
}

// LimitedUser is a user who hit a quota or was blocked
type LimitedUser struct {
	UserID    string      `json:"user_id"`
	IsBlocked bool        `json:"is_blocked"`
	IsLimited bool        `json:"is_limited"`
	Usage     *TokenUsage `json:"usage,omitempty"`
}

// LimitedUserList is a page of limited users
type LimitedUserList struct {
	Users      []*LimitedUser `json:"users"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// Documents

// Document is a file indexed by the RAG system
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Language    string    `json:"language,omitempty"`
	UploadedAt  Timestamp `json:"uploaded_at"`
}

// DocumentList is a page of documents
type DocumentList struct {
	Documents []*Document `json:"documents"`
	Total     int         `json:"total"`
	Page      int         `json:"page"`
	Limit     int         `json:"limit"`
}

// DocumentMetadata is sent alongside an uploaded file
type DocumentMetadata struct {
	Description string
	Category    string
	Language    string
	Extra       map[string]string
}

// OperationResult is the acknowledgement of a mutation
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ListParams pages a listing
type ListParams struct {
	Page  int
	Limit int
}
