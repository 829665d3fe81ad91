package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/models"
	"spendpal/internal/pagination"
	"spendpal/internal/uuid"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db            *gorm.DB
	friendService FriendServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, friendService FriendServicer) ExpenseServicer {
	return &expenseService{db: db, friendService: friendService}
}

// validateInput checks every expense invariant before any persistence
// happens. A failure here means no row is ever written.
func (s *expenseService) validateInput(userID string, in ExpenseInput) error {
	if in.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !models.IsValidCategory(in.Category) {
		return apperrors.ErrInvalidCategory
	}
	if in.Description == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	// Recurrence pair: both or neither.
	if (in.CadenceMonths == nil) != (in.NextOccurrence == nil) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurrence requires both cadence_months and next_occurrence")
	}
	if in.CadenceMonths != nil {
		if *in.CadenceMonths < models.MinCadenceMonths || *in.CadenceMonths > models.MaxCadenceMonths {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "cadence_months must be between 1 and 12")
		}
		if in.NextOccurrence.IsZero() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "next_occurrence must be a concrete date")
		}
	}

	// Sharing triple: all or none.
	shareFields := 0
	if in.CounterpartyID != nil {
		shareFields++
	}
	if in.SharePercent != nil {
		shareFields++
	}
	if in.Direction != nil {
		shareFields++
	}
	if shareFields != 0 && shareFields != 3 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "sharing requires counterparty_id, share_percent, and direction together")
	}
	if shareFields == 3 {
		if *in.SharePercent < 0 || *in.SharePercent > 100 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "share_percent must be between 0 and 100")
		}
		if *in.Direction != models.ShareOwedByMe && *in.Direction != models.ShareOwedToMe {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "direction must be owed_by_me or owed_to_me")
		}
		ok, err := s.friendService.AreFriends(userID, *in.CounterpartyID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrCounterpartyNeeded
		}
	}

	return nil
}

// CreateExpense validates and persists a new expense. For shared expenses
// the owner's row and the counterparty's mirrored row are written in one
// database transaction, linked by a common share group ID.
func (s *expenseService) CreateExpense(userID string, in ExpenseInput) (*models.Expense, error) {
	if err := s.validateInput(userID, in); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:         userID,
		Amount:         in.Amount,
		Category:       in.Category,
		Description:    in.Description,
		OccurredAt:     in.OccurredAt,
		CadenceMonths:  in.CadenceMonths,
		NextOccurrence: in.NextOccurrence,
		CounterpartyID: in.CounterpartyID,
		SharePercent:   in.SharePercent,
		Direction:      in.Direction,
	}

	if !expense.IsShared() {
		if err := s.db.Create(expense).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return expense, nil
	}

	groupID := uuid.New()
	expense.ShareGroupID = &groupID

	mirrorPercent := 100 - *in.SharePercent
	mirrorDirection := in.Direction.Inverted()
	mirror := &models.Expense{
		UserID:         *in.CounterpartyID,
		Amount:         in.Amount,
		Category:       in.Category,
		Description:    in.Description,
		OccurredAt:     in.OccurredAt,
		CounterpartyID: &userID,
		SharePercent:   &mirrorPercent,
		Direction:      &mirrorDirection,
		ShareGroupID:   &groupID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return err
		}
		return tx.Create(mirror).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetUserExpenses retrieves a paginated, filtered list of the user's expenses.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	base = applyExpenseFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("occurred_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("occurred_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("occurred_at <= ?", *f.ToDate)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetExpenseByID retrieves an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense edits an expense. Shared fields that are common to both
// ledgers (amount, category, description, occurred_at) are propagated to
// the mirrored counterparty row in the same transaction.
func (s *expenseService) UpdateExpense(userID, expenseID string, upd ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if upd.Amount != nil {
		if *upd.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *upd.Amount
	}
	if upd.Category != nil {
		if !models.IsValidCategory(*upd.Category) {
			return nil, apperrors.ErrInvalidCategory
		}
		updates["category"] = *upd.Category
	}
	if upd.Description != nil {
		if *upd.Description == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
		}
		updates["description"] = *upd.Description
	}
	if upd.OccurredAt != nil {
		updates["occurred_at"] = *upd.OccurredAt
	}

	// Rescheduling applies to this row only: mirror rows carry no
	// recurrence, so next_occurrence never propagates.
	ownUpdates := make(map[string]interface{})
	if upd.NextOccurrence != nil {
		if expense.CadenceMonths == nil {
			return nil, apperrors.ErrNotRecurring
		}
		ownUpdates["next_occurrence"] = *upd.NextOccurrence
	}

	if len(updates) == 0 && len(ownUpdates) == 0 {
		return expense, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for k, v := range updates {
			ownUpdates[k] = v
		}
		if err := tx.Model(expense).Updates(ownUpdates).Error; err != nil {
			return err
		}
		if expense.ShareGroupID != nil && len(updates) > 0 {
			return tx.Model(&models.Expense{}).
				Where("share_group_id = ? AND id <> ?", *expense.ShareGroupID, expense.ID).
				Updates(updates).Error
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense soft-deletes an expense. Deleting either side of a shared
// expense removes the mirrored row from the counterparty's ledger too.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if expense.ShareGroupID != nil {
			return tx.Where("share_group_id = ?", *expense.ShareGroupID).
				Delete(&models.Expense{}).Error
		}
		return tx.Delete(expense).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
