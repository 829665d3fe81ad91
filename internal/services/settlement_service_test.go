package services

import (
	"testing"
	"time"

	"spendpal/internal/models"
	"spendpal/internal/testutil"
)

func balanceFor(t *testing.T, svc SettlementServicer, userID, friendID string) int64 {
	t.Helper()
	balances, err := svc.GetBalances(userID)
	testutil.AssertNoError(t, err)
	for _, b := range balances {
		if b.FriendID == friendID {
			return b.Net
		}
	}
	t.Fatalf("no balance entry for friend %s", friendID)
	return 0
}

func TestGetBalances_SignsAndNetting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	userA := testutil.CreateTestUser(t, db)
	userB := testutil.CreateTestUser(t, db)
	testutil.CreateAcceptedFriendLink(t, db, userA.ID, userB.ID)

	friends := NewFriendService(db)
	expenses := NewExpenseService(db, friends)
	settlements := NewSettlementService(db, friends)

	// A paid 10000, B owes half: +5000 for A, -5000 for B.
	_, err := expenses.CreateExpense(userA.ID, ExpenseInput{
		Amount:         10000,
		Category:       models.CategoryFood,
		Description:    "Dinner",
		OccurredAt:     time.Now(),
		CounterpartyID: &userB.ID,
		SharePercent:   f64Ptr(50),
		Direction:      dirPtr(models.ShareOwedToMe),
	})
	testutil.AssertNoError(t, err)

	// B paid 4000, A owes half: nets against the first expense.
	_, err = expenses.CreateExpense(userB.ID, ExpenseInput{
		Amount:         4000,
		Category:       models.CategoryTransport,
		Description:    "Taxi",
		OccurredAt:     time.Now(),
		CounterpartyID: &userA.ID,
		SharePercent:   f64Ptr(50),
		Direction:      dirPtr(models.ShareOwedToMe),
	})
	testutil.AssertNoError(t, err)

	if got := balanceFor(t, settlements, userA.ID, userB.ID); got != 3000 {
		t.Errorf("A's balance toward B should be +3000, got %d", got)
	}
	if got := balanceFor(t, settlements, userB.ID, userA.ID); got != -3000 {
		t.Errorf("B's balance toward A should be -3000, got %d", got)
	}
}

func TestGetBalances_ZeroForFriendWithoutShares(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	userA := testutil.CreateTestUser(t, db)
	userB := testutil.CreateTestUser(t, db)
	testutil.CreateAcceptedFriendLink(t, db, userA.ID, userB.ID)

	settlements := NewSettlementService(db, NewFriendService(db))
	if got := balanceFor(t, settlements, userA.ID, userB.ID); got != 0 {
		t.Errorf("friend with no shared expenses should show 0, got %d", got)
	}
}

func TestSettle_ZeroesOwnBalanceOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	userA := testutil.CreateTestUser(t, db)
	userB := testutil.CreateTestUser(t, db)
	testutil.CreateAcceptedFriendLink(t, db, userA.ID, userB.ID)

	friends := NewFriendService(db)
	expenses := NewExpenseService(db, friends)
	settlements := NewSettlementService(db, friends)

	_, err := expenses.CreateExpense(userA.ID, ExpenseInput{
		Amount:         10000,
		Category:       models.CategoryFood,
		Description:    "Dinner",
		OccurredAt:     time.Now(),
		CounterpartyID: &userB.ID,
		SharePercent:   f64Ptr(50),
		Direction:      dirPtr(models.ShareOwedToMe),
	})
	testutil.AssertNoError(t, err)

	// B owes A 5000 and settles up.
	payment, err := settlements.Settle(userB.ID, userA.ID, 5000)
	testutil.AssertNoError(t, err)

	if payment.Category != models.CategoryDebtPayment {
		t.Errorf("settlement should be recorded as debt_payment, got %s", payment.Category)
	}
	if payment.IsShared() {
		t.Error("settlement expense must not itself be shared")
	}

	if got := balanceFor(t, settlements, userB.ID, userA.ID); got != 0 {
		t.Errorf("B's balance should be zero after settling, got %d", got)
	}

	// A settles independently; their ledger still shows what B owed.
	if got := balanceFor(t, settlements, userA.ID, userB.ID); got != 5000 {
		t.Errorf("A's balance should be unaffected by B's settlement, got %d", got)
	}
}

func TestSettle_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	userA := testutil.CreateTestUser(t, db)
	stranger := testutil.CreateTestUser(t, db)

	settlements := NewSettlementService(db, NewFriendService(db))

	_, err := settlements.Settle(userA.ID, stranger.ID, 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = settlements.Settle(userA.ID, stranger.ID, 1000)
	testutil.AssertAppError(t, err, "NOT_FRIENDS")
}
