package models

// WishlistItem is a prospective purchase that has not become an expense
// yet. Converting it creates an Expense and deletes the item.
type WishlistItem struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    ExpenseCategory `gorm:"not null" json:"category"`
	Description string          `gorm:"not null" json:"description"`
}
