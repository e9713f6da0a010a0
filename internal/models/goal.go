package models

import "time"

// FinancialGoal is a savings target the user works toward.
type FinancialGoal struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"index;not null" json:"user_id"`
	Name               string     `gorm:"size:64;not null" json:"name"`
	TargetCents        int64      `gorm:"not null" json:"target_cents"`
	CurrentCents       int64      `gorm:"default:0" json:"current_cents"`
	MonthlyTargetCents int64      `gorm:"default:0" json:"monthly_target_cents"`
	TargetDate         *time.Time `json:"target_date,omitempty"`
	IsActive           bool       `gorm:"index" json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
