package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"spendpal/internal/dates"
	apperrors "spendpal/internal/errors"
	"spendpal/internal/models"
)

// monthLikeSpanDays is the inclusive window length above which a budget
// period is treated as "a month" and rolled over by calendar-month
// arithmetic instead of sliding by its fixed length.
const monthLikeSpanDays = 26

// BudgetOptions carries the summary policy knobs from configuration.
type BudgetOptions struct {
	WarnPercent     float64
	CriticalPercent float64

	// CountOwedShares includes expenses the user purely owes a
	// counterparty for in the user's own spend total. Off by default;
	// see the shared-spend inclusion note in DESIGN.md.
	CountOwedShares bool
}

// budgetService handles budget-period business logic.
type budgetService struct {
	db   *gorm.DB
	opts BudgetOptions
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, opts BudgetOptions) BudgetServicer {
	return &budgetService{db: db, opts: opts}
}

// SetPeriod creates or replaces the user's single active budget period.
func (s *budgetService) SetPeriod(userID string, amount int64, currency string, startDate, endDate time.Time) (*models.BudgetPeriod, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not be before start_date")
	}

	var period models.BudgetPeriod
	err := s.db.Where("user_id = ?", userID).First(&period).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		period = models.BudgetPeriod{
			UserID:    userID,
			Amount:    amount,
			Currency:  currency,
			StartDate: startDate,
			EndDate:   endDate,
		}
		if err := s.db.Create(&period).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &period, nil
	}

	updates := map[string]interface{}{
		"amount":     amount,
		"currency":   currency,
		"start_date": startDate,
		"end_date":   endDate,
	}
	if err := s.db.Model(&period).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// GetPeriod returns the user's active budget period.
func (s *budgetService) GetPeriod(userID string) (*models.BudgetPeriod, error) {
	var period models.BudgetPeriod
	if err := s.db.Where("user_id = ?", userID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// GetSummary rolls the period forward if its end has passed, then computes
// total spend, remaining budget, and percentage used for the window.
func (s *budgetService) GetSummary(userID string, today time.Time) (*BudgetSummary, error) {
	period, err := s.GetPeriod(userID)
	if err != nil {
		return nil, err
	}

	if rolled := rollPeriodForward(period, today); rolled {
		updates := map[string]interface{}{
			"start_date": period.StartDate,
			"end_date":   period.EndDate,
		}
		if err := s.db.Model(period).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	spent, err := s.totalSpend(userID, period.StartDate)
	if err != nil {
		return nil, err
	}

	var percent float64
	if period.Amount > 0 {
		percent = float64(spent) / float64(period.Amount) * 100
	}

	return &BudgetSummary{
		Period:          *period,
		TotalSpent:      spent,
		Remaining:       period.Amount - spent,
		PercentUsed:     percent,
		WarnPercent:     s.opts.WarnPercent,
		CriticalPercent: s.opts.CriticalPercent,
	}, nil
}

// rollPeriodForward advances the window until it covers today. Month-like
// windows advance by calendar months on both ends; shorter fixed-length
// windows slide forward contiguously with no gap. Returns true if the
// period changed.
func rollPeriodForward(period *models.BudgetPeriod, today time.Time) bool {
	if dates.DaysBetween(period.EndDate, today) <= 0 {
		return false
	}

	if dates.SpanDays(period.StartDate, period.EndDate) > monthLikeSpanDays {
		// Advance whole months from the original anchor dates rather than
		// re-clamping step by step. A month-end window stays month-end
		// (Jan 31 -> Feb 28 -> Mar 31, not Mar 28), so catching up across
		// February cannot land the window past today.
		for months := 1; ; months++ {
			end := dates.AddCalendarMonths(period.EndDate, months)
			if dates.DaysBetween(end, today) <= 0 {
				period.StartDate = dates.AddCalendarMonths(period.StartDate, months)
				period.EndDate = end
				return true
			}
		}
	}

	diffDays := dates.DaysBetween(period.StartDate, period.EndDate)
	for dates.DaysBetween(period.EndDate, today) > 0 {
		period.StartDate = period.EndDate.AddDate(0, 0, 1)
		period.EndDate = period.StartDate.AddDate(0, 0, diffDays)
	}
	return true
}

// totalSpend sums the expenses attributable to the user since the period
// start. Unless configured otherwise, expenses where the user purely owes
// their counterparty are excluded: that portion is not spend against the
// user's own budget.
func (s *budgetService) totalSpend(userID string, since time.Time) (int64, error) {
	q := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND occurred_at >= ?", userID, since)

	if !s.opts.CountOwedShares {
		q = q.Where("direction IS NULL OR direction <> ?", models.ShareOwedByMe)
	}

	var spent int64
	if err := q.Scan(&spent).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}
