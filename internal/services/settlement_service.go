package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/models"
)

// settlementService computes per-friend balances and records settlements.
type settlementService struct {
	db            *gorm.DB
	friendService FriendServicer
}

// NewSettlementService creates a new SettlementServicer.
func NewSettlementService(db *gorm.DB, friendService FriendServicer) SettlementServicer {
	return &settlementService{db: db, friendService: friendService}
}

// GetBalances returns, for every accepted friend, the net amount between
// the user and that friend. For each shared expense the counterparty's
// share is amount * share_percent / 100; owed_by_me subtracts it from the
// friend's balance, owed_to_me adds it.
func (s *settlementService) GetBalances(userID string) ([]FriendBalance, error) {
	friends, err := s.friendService.GetFriends(userID)
	if err != nil {
		return nil, err
	}

	var shared []models.Expense
	err = s.db.
		Where("user_id = ? AND counterparty_id IS NOT NULL AND share_percent IS NOT NULL AND direction IS NOT NULL", userID).
		Find(&shared).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	net := make(map[string]int64)
	for i := range shared {
		e := &shared[i]
		share := e.CounterpartyShare()
		if *e.Direction == models.ShareOwedByMe {
			net[*e.CounterpartyID] -= share
		} else {
			net[*e.CounterpartyID] += share
		}
	}

	balances := make([]FriendBalance, 0, len(friends))
	for _, f := range friends {
		balances = append(balances, FriendBalance{
			FriendID:    f.ID,
			DisplayName: f.DisplayName,
			Net:         net[f.ID],
		})
	}
	return balances, nil
}

// Settle records a debt payment toward the given friend and clears the
// share markers on the user's side of the ledger, zeroing the balance on
// the next recomputation. The settlement expense itself carries no
// sharing, so it never re-enters the balance calculation.
//
// This is one-way: the friend's mirrored rows keep their markers, so the
// friend's own displayed balance is unaffected. Each side settles
// independently; see the asymmetry note in DESIGN.md.
func (s *settlementService) Settle(userID, friendID string, amount int64) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	ok, err := s.friendService.AreFriends(userID, friendID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrNotFriends
	}

	payment := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    models.CategoryDebtPayment,
		Description: "Settlement",
		OccurredAt:  time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		clear := map[string]interface{}{
			"counterparty_id": nil,
			"share_percent":   nil,
			"direction":       nil,
		}
		return tx.Model(&models.Expense{}).
			Where("user_id = ? AND counterparty_id = ?", userID, friendID).
			Updates(clear).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return payment, nil
}
