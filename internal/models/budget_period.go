package models

import "time"

// BudgetPeriod is the user's active spending window. Exactly one row per
// user exists at any time; the rollover rule advances StartDate/EndDate
// in place once EndDate has passed.
type BudgetPeriod struct {
	Base
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Amount    int64     `gorm:"type:bigint;not null" json:"amount"`
	Currency  string    `gorm:"size:3;not null" json:"currency"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
}
