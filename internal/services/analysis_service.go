package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"spendpal/internal/dates"
	apperrors "spendpal/internal/errors"
	"spendpal/internal/metrics"
	"spendpal/internal/models"
	"spendpal/internal/pagination"
)

// analysisWindowDays is the trailing window of expenses fed to the model.
const analysisWindowDays = 30

// fallbackAdvice is returned when the LLM is unreachable, so the advice
// surface degrades instead of failing.
var fallbackAdvice = []string{
	"Review your subscriptions and cancel the ones you no longer use.",
	"Set aside a fixed amount at the start of each budget period before spending.",
	"Compare your three biggest categories against last period and pick one to trim.",
}

// analysisService handles AI spending analysis with a cooldown gate.
type analysisService struct {
	db           *gorm.DB
	analyzer     SpendingAnalyzer
	cooldownDays int
}

// NewAnalysisService creates a new AnalysisServicer.
func NewAnalysisService(db *gorm.DB, analyzer SpendingAnalyzer, cooldownDays int) AnalysisServicer {
	return &analysisService{db: db, analyzer: analyzer, cooldownDays: cooldownDays}
}

// CanGenerate reports whether the cooldown allows a new report: true when
// no reports exist, or when the most recent one is at least the cooldown
// interval old.
func (s *analysisService) CanGenerate(userID string, today time.Time) (bool, error) {
	var latest models.AnalysisReport
	err := s.db.Where("user_id = ?", userID).Order("generated_at DESC").First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return dates.DaysBetween(latest.GeneratedAt, today) >= s.cooldownDays, nil
}

// Generate produces and stores a new narrative report. With no expenses in
// the trailing window the call is a no-op: no report is written and the
// cooldown is not consumed. An LLM failure likewise leaves the cooldown
// untouched.
func (s *analysisService) Generate(ctx context.Context, userID string, today time.Time) (*models.AnalysisReport, error) {
	ok, err := s.CanGenerate(userID, today)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrAnalysisCoolingDown
	}

	digest, count, err := s.buildDigest(userID, today)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperrors.ErrNothingToAnalyze
	}

	content, err := s.analyzer.AnalyzeSpending(ctx, digest)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAnalysisUnavailable, err)
	}

	report := &models.AnalysisReport{
		UserID:      userID,
		Content:     content,
		GeneratedAt: today,
	}
	if err := s.db.Create(report).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	metrics.AnalysisReportsGenerated.Inc()
	return report, nil
}

// ListReports returns the user's stored reports, newest first.
func (s *analysisService) ListReports(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AnalysisReport], error) {
	page.Defaults()

	base := s.db.Model(&models.AnalysisReport{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var reports []models.AnalysisReport
	if err := base.Scopes(pagination.Paginate(page)).
		Order("generated_at DESC").
		Find(&reports).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(reports, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAdvice returns short saving tips for the trailing window. When the
// LLM is unavailable it degrades to a fixed fallback list instead of
// returning an error.
func (s *analysisService) GetAdvice(ctx context.Context, userID string, today time.Time) ([]string, error) {
	digest, _, err := s.buildDigest(userID, today)
	if err != nil {
		return nil, err
	}

	text, err := s.analyzer.SpendingTips(ctx, digest)
	if err != nil {
		return fallbackAdvice, nil
	}

	var tips []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tips = append(tips, line)
		}
	}
	if len(tips) == 0 {
		return fallbackAdvice, nil
	}
	return tips, nil
}

// buildDigest summarizes the trailing window of expenses as category
// totals, and returns the expense count alongside.
func (s *analysisService) buildDigest(userID string, today time.Time) (string, int, error) {
	since := today.AddDate(0, 0, -analysisWindowDays)

	var expenses []models.Expense
	err := s.db.
		Where("user_id = ? AND occurred_at >= ? AND occurred_at <= ?", userID, since, today).
		Find(&expenses).Error
	if err != nil {
		return "", 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[models.ExpenseCategory]int64)
	var total int64
	for i := range expenses {
		totals[expenses[i].Category] += expenses[i].Amount
		total += expenses[i].Amount
	}

	categories := make([]models.ExpenseCategory, 0, len(totals))
	for c := range totals {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return totals[categories[i]] > totals[categories[j]] })

	var b strings.Builder
	fmt.Fprintf(&b, "Spending over the last %d days: %d expenses, %s total.\n",
		analysisWindowDays, len(expenses), formatCents(total))
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %s\n", c, formatCents(totals[c]))
	}

	return b.String(), len(expenses), nil
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
