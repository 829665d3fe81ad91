package models

import "time"

// AnalysisReport stores one AI-generated narrative spending report.
// Reports are append-only; the newest GeneratedAt drives the cooldown gate.
type AnalysisReport struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`
}
