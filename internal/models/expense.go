package models

import "time"

// ExpenseCategory is the closed set of spending categories.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryShopping      ExpenseCategory = "shopping"
	CategoryEntertainment ExpenseCategory = "entertainment"
	CategoryBills         ExpenseCategory = "bills"
	CategoryHealth        ExpenseCategory = "health"
	CategoryEducation     ExpenseCategory = "education"
	CategoryTravel        ExpenseCategory = "travel"
	CategoryDebtPayment   ExpenseCategory = "debt_payment"
	CategoryOther         ExpenseCategory = "other"
)

// ExpenseCategories lists every valid category.
var ExpenseCategories = []ExpenseCategory{
	CategoryFood, CategoryTransport, CategoryShopping, CategoryEntertainment,
	CategoryBills, CategoryHealth, CategoryEducation, CategoryTravel,
	CategoryDebtPayment, CategoryOther,
}

// IsValidCategory reports whether c is one of the known categories.
func IsValidCategory(c ExpenseCategory) bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ShareDirection indicates which side of a shared expense owes the other.
type ShareDirection string

const (
	// ShareOwedByMe means the recording user owes the counterparty their share.
	ShareOwedByMe ShareDirection = "owed_by_me"
	// ShareOwedToMe means the counterparty owes the recording user their share.
	ShareOwedToMe ShareDirection = "owed_to_me"
)

// Inverted returns the opposite direction, used for the mirrored row in
// the counterparty's ledger.
func (d ShareDirection) Inverted() ShareDirection {
	if d == ShareOwedByMe {
		return ShareOwedToMe
	}
	return ShareOwedByMe
}

// Cadence bounds: 1 = monthly, 12 = yearly, N in 2..11 = every N months.
const (
	MinCadenceMonths = 1
	MaxCadenceMonths = 12
)

// Expense represents a single financial transaction. Amounts are in cents.
//
// Recurrence and sharing are optional field groups: CadenceMonths and
// NextOccurrence are set together or not at all, likewise CounterpartyID,
// SharePercent, and Direction.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    ExpenseCategory `gorm:"not null" json:"category"`
	Description string          `gorm:"not null" json:"description"`
	OccurredAt  time.Time       `gorm:"not null" json:"occurred_at"`

	// Recurrence
	CadenceMonths  *int       `json:"cadence_months,omitempty"`
	NextOccurrence *time.Time `json:"next_occurrence,omitempty"`

	// Sharing
	CounterpartyID *string         `gorm:"type:uuid" json:"counterparty_id,omitempty"`
	SharePercent   *float64        `json:"share_percent,omitempty"`
	Direction      *ShareDirection `json:"direction,omitempty"`

	// ShareGroupID links the owner's row and the mirrored counterparty row
	// of a shared expense so edits and deletes reach both.
	ShareGroupID *string `gorm:"type:uuid;index" json:"share_group_id,omitempty"`
}

// IsRecurring reports whether the expense carries a recurrence.
func (e *Expense) IsRecurring() bool {
	return e.CadenceMonths != nil && e.NextOccurrence != nil
}

// IsShared reports whether the expense is split with a counterparty.
func (e *Expense) IsShared() bool {
	return e.CounterpartyID != nil && e.SharePercent != nil && e.Direction != nil
}

// CounterpartyShare returns the portion of the amount attributable to the
// counterparty, in cents. Zero for unshared expenses.
func (e *Expense) CounterpartyShare() int64 {
	if !e.IsShared() {
		return 0
	}
	return int64(float64(e.Amount) * *e.SharePercent / 100)
}
