// Package errors provides custom error types for the Spendpal API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound    = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInvalidCategory    = &AppError{Code: "INVALID_CATEGORY", Message: "Unsupported expense category", StatusCode: http.StatusBadRequest}
	ErrNotRecurring       = &AppError{Code: "NOT_RECURRING", Message: "Expense has no recurrence configured", StatusCode: http.StatusBadRequest}
	ErrCounterpartyNeeded = &AppError{Code: "COUNTERPARTY_REQUIRED", Message: "Shared expenses require an accepted friend as counterparty", StatusCode: http.StatusBadRequest}
)

// Wishlist errors.
var (
	ErrWishlistItemNotFound = &AppError{Code: "WISHLIST_ITEM_NOT_FOUND", Message: "Wishlist item not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "No budget period configured", StatusCode: http.StatusNotFound}
)

// Friend errors.
var (
	ErrFriendLinkNotFound  = &AppError{Code: "FRIEND_LINK_NOT_FOUND", Message: "Friend request not found", StatusCode: http.StatusNotFound}
	ErrFriendLinkExists    = &AppError{Code: "FRIEND_LINK_EXISTS", Message: "A friend link between these users already exists", StatusCode: http.StatusConflict}
	ErrSelfFriend          = &AppError{Code: "SELF_FRIEND", Message: "Cannot send a friend request to yourself", StatusCode: http.StatusBadRequest}
	ErrNotFriends          = &AppError{Code: "NOT_FRIENDS", Message: "Users are not accepted friends", StatusCode: http.StatusBadRequest}
	ErrNotRequestRecipient = &AppError{Code: "NOT_REQUEST_RECIPIENT", Message: "Only the recipient can respond to a friend request", StatusCode: http.StatusForbidden}
)

// Analysis errors.
var (
	ErrAnalysisCoolingDown = &AppError{Code: "ANALYSIS_COOLING_DOWN", Message: "A report was generated recently, try again later", StatusCode: http.StatusTooManyRequests}
	ErrNothingToAnalyze    = &AppError{Code: "NOTHING_TO_ANALYZE", Message: "No expenses recorded in the last 30 days", StatusCode: http.StatusUnprocessableEntity}
	ErrAnalysisUnavailable = &AppError{Code: "ANALYSIS_UNAVAILABLE", Message: "Spending analysis is temporarily unavailable", StatusCode: http.StatusServiceUnavailable}
	ErrExtractionFailed    = &AppError{Code: "EXTRACTION_FAILED", Message: "Could not extract an expense from the receipt image", StatusCode: http.StatusUnprocessableEntity}
)
