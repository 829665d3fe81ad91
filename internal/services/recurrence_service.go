package services

import (
	"time"

	"gorm.io/gorm"

	"spendpal/internal/dates"
	apperrors "spendpal/internal/errors"
	"spendpal/internal/logger"
	"spendpal/internal/metrics"
	"spendpal/internal/models"
)

// recurrenceService materializes due instances of recurring expenses.
type recurrenceService struct {
	db *gorm.DB
}

// NewRecurrenceService creates a new RecurrenceServicer.
func NewRecurrenceService(db *gorm.DB) RecurrenceServicer {
	return &recurrenceService{db: db}
}

// RollForward materializes one new expense for every recurring expense of
// the user whose next occurrence has arrived, and advances the stored
// next-occurrence date by the cadence using calendar-month arithmetic.
//
// Each materialization is all-or-nothing: the new row and the advanced
// date on the template are written in one transaction, so a failure
// leaves that expense untouched. Failures do not stop processing of the
// remaining due expenses.
//
// Running the check twice at the same instant is safe: the due query
// reads the stored, already-advanced next_occurrence, so a second pass
// finds nothing left to materialize.
func (s *recurrenceService) RollForward(userID string, now time.Time) (*RollForwardResult, error) {
	var due []models.Expense
	err := s.db.
		Where("user_id = ? AND next_occurrence IS NOT NULL AND next_occurrence <= ?", userID, now).
		Order("created_at ASC").
		Find(&due).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &RollForwardResult{Materialized: []models.Expense{}}
	for i := range due {
		template := &due[i]
		materialized, err := s.materialize(template, now)
		if err != nil {
			metrics.RollforwardFailures.Inc()
			logger.Get().Errorw("recurring expense materialization failed",
				"expense_id", template.ID,
				"user_id", userID,
				"error", err,
			)
			result.Failures = append(result.Failures, RollForwardFailure{
				ExpenseID: template.ID,
				Reason:    err.Error(),
			})
			continue
		}
		metrics.RollforwardMaterialized.Inc()
		result.Materialized = append(result.Materialized, *materialized)
	}

	return result, nil
}

// materialize creates the next instance of one recurring expense and
// advances the template's stored date, atomically.
func (s *recurrenceService) materialize(template *models.Expense, now time.Time) (*models.Expense, error) {
	cadence := *template.CadenceMonths
	newNext := dates.AddCalendarMonths(*template.NextOccurrence, cadence)

	// The copy carries the recurrence forward so future rollforwards are
	// tracked on the active chain. Sharing markers are copied as-is; the
	// share group is not, since it links one specific pair of rows.
	instance := &models.Expense{
		UserID:         template.UserID,
		Amount:         template.Amount,
		Category:       template.Category,
		Description:    template.Description,
		OccurredAt:     now,
		CadenceMonths:  &cadence,
		NextOccurrence: &newNext,
		CounterpartyID: template.CounterpartyID,
		SharePercent:   template.SharePercent,
		Direction:      template.Direction,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(instance).Error; err != nil {
			return err
		}
		return tx.Model(&models.Expense{}).
			Where("id = ?", template.ID).
			Update("next_occurrence", newNext).Error
	})
	if err != nil {
		return nil, err
	}

	template.NextOccurrence = &newNext
	return instance, nil
}
