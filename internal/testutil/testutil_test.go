package testutil_test

import (
	"testing"
	"time"

	"spendpal/internal/errors"
	"spendpal/internal/models"
	"spendpal/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "expenses", "wishlist_items", "budget_periods", "friend_links", "analysis_reports", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have a non-empty ID")
	}

	expense := testutil.CreateTestExpense(t, db, user.ID, 5000, time.Now())
	if expense.Amount != 5000 {
		t.Errorf("expected amount 5000, got %d", expense.Amount)
	}
	if expense.IsRecurring() || expense.IsShared() {
		t.Error("plain expense should be neither recurring nor shared")
	}

	next := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	recurring := testutil.CreateTestRecurringExpense(t, db, user.ID, 1, next)
	if !recurring.IsRecurring() {
		t.Error("expected recurring expense")
	}

	period := testutil.CreateTestBudgetPeriod(t, db, user.ID, 100000,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC))
	if period.Amount != 100000 {
		t.Errorf("expected period amount 100000, got %d", period.Amount)
	}

	other := testutil.CreateTestUser(t, db)
	link := testutil.CreateAcceptedFriendLink(t, db, user.ID, other.ID)
	if link.Status != models.FriendStatusAccepted {
		t.Errorf("expected accepted link, got %s", link.Status)
	}
	if link.Other(user.ID) != other.ID {
		t.Error("Other should return the opposite side of the link")
	}

	item := testutil.CreateTestWishlistItem(t, db, user.ID, 3000)
	if item.Amount != 3000 {
		t.Errorf("expected item amount 3000, got %d", item.Amount)
	}

	report := testutil.CreateTestAnalysisReport(t, db, user.ID, time.Now())
	if report.Content == "" {
		t.Error("expected non-empty report content")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.ErrExpenseNotFound
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

	wrapped := errors.Wrap(errors.ErrInternalServer, err)
	testutil.AssertAppError(t, wrapped, "INTERNAL_ERROR")
}
