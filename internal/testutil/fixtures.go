package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendpal/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       fmt.Sprintf("user%d@test.com", n),
		Password:    string(hash),
		DisplayName: fmt.Sprintf("Test User %d", n),
		Currency:    "USD",
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense creates a one-time, non-shared expense (amount in cents).
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, amount int64, occurredAt time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    models.CategoryFood,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		OccurredAt:  occurredAt,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestRecurringExpense creates a recurring expense with the given
// cadence and next occurrence.
func CreateTestRecurringExpense(t *testing.T, db *gorm.DB, userID string, cadenceMonths int, next time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:         userID,
		Amount:         2500,
		Category:       models.CategoryBills,
		Description:    fmt.Sprintf("Test Recurring %d", nextID()),
		OccurredAt:     next.AddDate(0, -cadenceMonths, 0),
		CadenceMonths:  &cadenceMonths,
		NextOccurrence: &next,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test recurring expense: %v", err)
	}
	return expense
}

// CreateTestBudgetPeriod creates the user's budget period (amount in cents).
func CreateTestBudgetPeriod(t *testing.T, db *gorm.DB, userID string, amount int64, start, end time.Time) *models.BudgetPeriod {
	t.Helper()

	period := &models.BudgetPeriod{
		UserID:    userID,
		Amount:    amount,
		Currency:  "USD",
		StartDate: start,
		EndDate:   end,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test budget period: %v", err)
	}
	return period
}

// CreateAcceptedFriendLink creates an accepted friend link between two users.
func CreateAcceptedFriendLink(t *testing.T, db *gorm.DB, userID, otherID string) *models.FriendLink {
	t.Helper()

	a, b := models.SortPair(userID, otherID)
	link := &models.FriendLink{
		UserAID:     a,
		UserBID:     b,
		RequesterID: userID,
		Status:      models.FriendStatusAccepted,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create test friend link: %v", err)
	}
	return link
}

// CreateTestWishlistItem creates a wishlist item (amount in cents).
func CreateTestWishlistItem(t *testing.T, db *gorm.DB, userID string, amount int64) *models.WishlistItem {
	t.Helper()

	item := &models.WishlistItem{
		UserID:      userID,
		Amount:      amount,
		Category:    models.CategoryShopping,
		Description: fmt.Sprintf("Test Wishlist Item %d", nextID()),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test wishlist item: %v", err)
	}
	return item
}

// CreateTestAnalysisReport creates a stored report generated at the given time.
func CreateTestAnalysisReport(t *testing.T, db *gorm.DB, userID string, generatedAt time.Time) *models.AnalysisReport {
	t.Helper()

	report := &models.AnalysisReport{
		UserID:      userID,
		Content:     fmt.Sprintf("Test report %d", nextID()),
		GeneratedAt: generatedAt,
	}
	if err := db.Create(report).Error; err != nil {
		t.Fatalf("failed to create test analysis report: %v", err)
	}
	return report
}
