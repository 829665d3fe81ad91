package services

import (
	"testing"
	"time"

	"spendpal/internal/models"
	"spendpal/internal/testutil"
)

func TestRollForward_MaterializesDueExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	svc := NewRecurrenceService(db)

	due := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	template := testutil.CreateTestRecurringExpense(t, db, user.ID, 1, due)

	now := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	result, err := svc.RollForward(user.ID, now)
	testutil.AssertNoError(t, err)

	if len(result.Materialized) != 1 {
		t.Fatalf("expected 1 materialized expense, got %d", len(result.Materialized))
	}
	if len(result.Failures) != 0 {
		t.Fatalf("expected no failures, got %d", len(result.Failures))
	}

	instance := result.Materialized[0]
	if instance.Amount != template.Amount || instance.Category != template.Category {
		t.Error("materialized instance should copy amount and category")
	}
	if !instance.OccurredAt.Equal(now) {
		t.Errorf("instance should be dated now, got %v", instance.OccurredAt)
	}

	wantNext := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	if instance.NextOccurrence == nil || !instance.NextOccurrence.Equal(wantNext) {
		t.Errorf("instance should carry the advanced recurrence, got %v", instance.NextOccurrence)
	}

	var stored models.Expense
	testutil.AssertNoError(t, db.Where("id = ?", template.ID).First(&stored).Error)
	if stored.NextOccurrence == nil || !stored.NextOccurrence.Equal(wantNext) {
		t.Errorf("template next occurrence should advance to %v, got %v", wantNext, stored.NextOccurrence)
	}
}

func TestRollForward_NotYetDue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	svc := NewRecurrenceService(db)

	next := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestRecurringExpense(t, db, user.ID, 1, next)

	result, err := svc.RollForward(user.ID, time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC))
	testutil.AssertNoError(t, err)
	if len(result.Materialized) != 0 {
		t.Errorf("nothing should materialize before the due date, got %d", len(result.Materialized))
	}
}

func TestRollForward_IdempotentAtSameInstant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	svc := NewRecurrenceService(db)

	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestRecurringExpense(t, db, user.ID, 1, due)

	now := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	first, err := svc.RollForward(user.ID, now)
	testutil.AssertNoError(t, err)
	if len(first.Materialized) != 1 {
		t.Fatalf("first pass should materialize 1, got %d", len(first.Materialized))
	}

	second, err := svc.RollForward(user.ID, now)
	testutil.AssertNoError(t, err)
	if len(second.Materialized) != 0 {
		t.Errorf("second pass at the same instant should materialize nothing, got %d", len(second.Materialized))
	}

	var count int64
	err = db.Model(&models.Expense{}).Where("user_id = ?", user.ID).Count(&count).Error
	testutil.AssertNoError(t, err)
	if count != 2 {
		t.Errorf("expected template plus one instance, got %d rows", count)
	}
}

func TestRollForward_MonthEndClamping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	svc := NewRecurrenceService(db)

	// Monthly from Jan 31: the next occurrence lands on Feb 28 in a
	// non-leap year, not Mar 3.
	due := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	template := testutil.CreateTestRecurringExpense(t, db, user.ID, 1, due)

	_, err := svc.RollForward(user.ID, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	testutil.AssertNoError(t, err)

	var stored models.Expense
	testutil.AssertNoError(t, db.Where("id = ?", template.ID).First(&stored).Error)

	want := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	if stored.NextOccurrence == nil || !stored.NextOccurrence.Equal(want) {
		t.Errorf("expected clamped next occurrence %v, got %v", want, stored.NextOccurrence)
	}
}

func TestRollForward_QuarterlyCadence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	svc := NewRecurrenceService(db)

	due := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	template := testutil.CreateTestRecurringExpense(t, db, user.ID, 3, due)

	_, err := svc.RollForward(user.ID, due)
	testutil.AssertNoError(t, err)

	var stored models.Expense
	testutil.AssertNoError(t, db.Where("id = ?", template.ID).First(&stored).Error)

	want := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	if stored.NextOccurrence == nil || !stored.NextOccurrence.Equal(want) {
		t.Errorf("expected quarterly advance to %v, got %v", want, stored.NextOccurrence)
	}
}

func TestRollForward_OnlyOwnExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	svc := NewRecurrenceService(db)

	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestRecurringExpense(t, db, other.ID, 1, due)

	result, err := svc.RollForward(user.ID, due)
	testutil.AssertNoError(t, err)
	if len(result.Materialized) != 0 {
		t.Errorf("rollforward must not touch other users' expenses, got %d", len(result.Materialized))
	}
}
