package services

import (
	"context"
	"time"

	"spendpal/internal/llm"
	"spendpal/internal/models"
	"spendpal/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName, currency string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ExpenseInput carries the fields for creating an expense. The recurrence
// pair and the sharing triple are each set together or not at all.
type ExpenseInput struct {
	Amount      int64
	Category    models.ExpenseCategory
	Description string
	OccurredAt  time.Time

	CadenceMonths  *int
	NextOccurrence *time.Time

	CounterpartyID *string
	SharePercent   *float64
	Direction      *models.ShareDirection
}

// ExpenseUpdate carries the optional fields for editing an expense.
// NextOccurrence reschedules a recurring expense and is rejected for
// expenses without a cadence.
type ExpenseUpdate struct {
	Amount      *int64
	Category    *models.ExpenseCategory
	Description *string
	OccurredAt  *time.Time

	NextOccurrence *time.Time
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Category  *models.ExpenseCategory
	MinAmount *int64
	MaxAmount *int64
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, in ExpenseInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, upd ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// RollForwardFailure records one recurring expense whose materialization failed.
type RollForwardFailure struct {
	ExpenseID string `json:"expense_id"`
	Reason    string `json:"reason"`
}

// RollForwardResult reports the outcome of a rollforward pass.
type RollForwardResult struct {
	Materialized []models.Expense     `json:"materialized"`
	Failures     []RollForwardFailure `json:"failures,omitempty"`
}

// RecurrenceServicer materializes due instances of recurring expenses.
type RecurrenceServicer interface {
	RollForward(userID string, now time.Time) (*RollForwardResult, error)
}

// BudgetSummary contains the current period plus spend aggregates and the
// configured display thresholds for severity banding.
type BudgetSummary struct {
	Period          models.BudgetPeriod `json:"period"`
	TotalSpent      int64               `json:"total_spent"`
	Remaining       int64               `json:"remaining"`
	PercentUsed     float64             `json:"percent_used"`
	WarnPercent     float64             `json:"warn_percent"`
	CriticalPercent float64             `json:"critical_percent"`
}

// BudgetServicer defines the contract for budget-period business logic.
type BudgetServicer interface {
	SetPeriod(userID string, amount int64, currency string, startDate, endDate time.Time) (*models.BudgetPeriod, error)
	GetPeriod(userID string) (*models.BudgetPeriod, error)
	GetSummary(userID string, today time.Time) (*BudgetSummary, error)
}

// Friend is a resolved counterparty: a user the caller shares expenses with.
type Friend struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// FriendServicer defines the contract for the friend-link CRUD flow.
type FriendServicer interface {
	SendRequest(requesterID, recipientID string) (*models.FriendLink, error)
	Respond(userID, linkID string, accept bool) (*models.FriendLink, error)
	ListLinks(userID string) ([]models.FriendLink, error)
	GetFriends(userID string) ([]Friend, error)
	AreFriends(userID, otherID string) (bool, error)
}

// FriendBalance is the net amount between the user and one friend.
// Negative means the user owes the friend; positive means the friend owes
// the user. Cents.
type FriendBalance struct {
	FriendID    string `json:"friend_id"`
	DisplayName string `json:"display_name"`
	Net         int64  `json:"net"`
}

// SettlementServicer computes per-friend balances and records settlements.
type SettlementServicer interface {
	GetBalances(userID string) ([]FriendBalance, error)
	Settle(userID, friendID string, amount int64) (*models.Expense, error)
}

// WishlistServicer defines the contract for wishlist business logic.
type WishlistServicer interface {
	AddItem(userID string, amount int64, category models.ExpenseCategory, description string) (*models.WishlistItem, error)
	GetItems(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.WishlistItem], error)
	DeleteItem(userID, itemID string) error
	Convert(userID, itemID string, now time.Time) (*models.Expense, error)
}

// SpendingAnalyzer is the slice of the LLM client the analysis service
// needs; narrowed to an interface so tests can stub it.
type SpendingAnalyzer interface {
	AnalyzeSpending(ctx context.Context, digest string) (string, error)
	SpendingTips(ctx context.Context, digest string) (string, error)
}

// ReceiptExtractor turns a receipt image into a structured expense draft.
type ReceiptExtractor interface {
	ExtractReceipt(ctx context.Context, imageDataURL string) (*llm.ReceiptDraft, error)
}

// AnalysisServicer defines the contract for AI spending analysis.
type AnalysisServicer interface {
	CanGenerate(userID string, today time.Time) (bool, error)
	Generate(ctx context.Context, userID string, today time.Time) (*models.AnalysisReport, error)
	ListReports(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AnalysisReport], error)
	GetAdvice(ctx context.Context, userID string, today time.Time) ([]string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
