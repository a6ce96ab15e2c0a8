package admin

import (
	"context"
	"io"
)

// Authenticator exchanges credentials and looks up the signed-in profile
type Authenticator interface {
	// Login exchanges credentials for a bearer token
	Login(ctx context.Context, creds Credentials) (*LoginResponse, error)

	// Me fetches the profile for the current token
	Me(ctx context.Context) (*User, error)
}

// AuthService performs raw credential exchange. Use Client.Session to
// keep session state in step with it.
type AuthService interface {
	Authenticator
}

// AnalyticsService reads usage analytics
type AnalyticsService interface {
	// DailyMessages retrieves message statistics for date (YYYY-MM-DD, "" for today)
	DailyMessages(ctx context.Context, date string) (*DailyMessageStats, error)

	// DailyFeedback retrieves feedback statistics for one day
	DailyFeedback(ctx context.Context, params *DailyFeedbackParams) (*DailyFeedbackStats, error)

	// MonthlyMessages retrieves message statistics for a month
	MonthlyMessages(ctx context.Context, year, month int) (*MonthlyMessageStats, error)

	// MonthlyFeedback retrieves feedback statistics for a month
	MonthlyFeedback(ctx context.Context, params *MonthlyFeedbackParams) (*MonthlyFeedbackStats, error)

	// The range endpoints below are newer than the daily and monthly ones;
	// older backends answer them with 404 (ErrNotFound).
	Summary(ctx context.Context, timeRange string) (*SummaryMetrics, error)
	UserActivity(ctx context.Context, timeRange string) ([]*ActivityPoint, error)
	TokenUsage(ctx context.Context, timeRange string) ([]*TokenUsagePoint, error)
	RAGPerformance(ctx context.Context, timeRange string) (*RAGPerformance, error)
}

// ChatService manages chat history
type ChatService interface {
	// List retrieves a page of chat sessions
	List(ctx context.Context, params *ChatListParams) (*ChatList, error)

	// UserHistory retrieves a page of one user's sessions
	UserHistory(ctx context.Context, userID string, params *ChatListParams) (*ChatList, error)

	// Get retrieves a single session
	Get(ctx context.Context, chatID string) (*ChatSession, error)

	// Delete removes a session
	Delete(ctx context.Context, chatID string) error

	// Export writes the filtered history to w and returns the bytes written
	Export(ctx context.Context, params *ChatExportParams, w io.Writer) (int64, error)
}

// FeedbackService manages user feedback and its analytics
type FeedbackService interface {
	List(ctx context.Context, params *FeedbackListParams) (*FeedbackList, error)
	Get(ctx context.Context, feedbackID string) (*Feedback, error)

	// UpdatePriority sets the priority to low, medium or high
	UpdatePriority(ctx context.Context, feedbackID, priority string) (*Feedback, error)

	// AddNote attaches an admin note
	AddNote(ctx context.Context, feedbackID, note string) (*Feedback, error)

	SentimentDistribution(ctx context.Context, params *DistributionParams) (*FeedbackDistribution, error)
	PriorityDistribution(ctx context.Context, params *DistributionParams) (*FeedbackDistribution, error)
	SentimentTrends(ctx context.Context, params *TrendParams) (*TrendSeries, error)
	PriorityTrends(ctx context.Context, params *TrendParams) (*TrendSeries, error)

	// Dashboard aggregates the last days of feedback
	Dashboard(ctx context.Context, days int, comparePrevious bool) (*FeedbackDashboard, error)

	// Export writes the filtered feedback to w and returns the bytes written
	Export(ctx context.Context, params *FeedbackExportParams, w io.Writer) (int64, error)
}

// FAQService edits the per-language FAQ. Mutations return the updated content.
type FAQService interface {
	Get(ctx context.Context, lang string) (*FAQContent, error)
	Update(ctx context.Context, lang string, content *FAQContent) (*FAQContent, error)
	AddCategory(ctx context.Context, lang string, category *FAQCategory) (*FAQContent, error)
	DeleteCategory(ctx context.Context, lang, categoryName string) (*FAQContent, error)
	AddItem(ctx context.Context, lang, categoryName string, item *FAQItem) (*FAQContent, error)
	UpdateItem(ctx context.Context, lang, categoryName string, index int, item *FAQItem) (*FAQContent, error)
	DeleteItem(ctx context.Context, lang, categoryName string, index int) (*FAQContent, error)

	// ReorderCategories sets the category order by name
	ReorderCategories(ctx context.Context, lang string, order []string) (*FAQContent, error)

	// ReorderItems sets the item order of a category by current index
	ReorderItems(ctx context.Context, lang, categoryName string, order []int) (*FAQContent, error)

	Languages(ctx context.Context) ([]*Language, error)
}

// SettingsService reads and writes backend settings
type SettingsService interface {
	TokenSettings(ctx context.Context) (*TokenSettings, error)
	UpdateTokenSettings(ctx context.Context, settings *TokenSettings) (*TokenSettings, error)
	SystemSettings(ctx context.Context) (SystemSettings, error)
	UpdateSystemSettings(ctx context.Context, settings SystemSettings) (SystemSettings, error)
}

// UserService manages quota-limited users
type UserService interface {
	// Limited retrieves a page of limited or blocked users
	Limited(ctx context.Context, params *ListParams) (*LimitedUserList, error)

	Block(ctx context.Context, userID string) (*LimitedUser, error)
	Unblock(ctx context.Context, userID string) (*LimitedUser, error)
	TokenUsage(ctx context.Context, userID string) (*TokenUsage, error)
}

// DocumentService manages the documents indexed by the RAG system
type DocumentService interface {
	// Upload sends r as a multipart file named filename
	Upload(ctx context.Context, filename string, r io.Reader, metadata *DocumentMetadata) (*OperationResult, error)

	List(ctx context.Context, params *ListParams) (*DocumentList, error)
	Delete(ctx context.Context, documentID string) error
}
