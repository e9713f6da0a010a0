package models

import "time"

// Budget periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Budget is a spending ceiling for a category (or overall when CategoryID is
// nil) over a period. Usage is computed on read from matching transactions,
// never stored.
type Budget struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Period      string    `gorm:"size:16;default:monthly" json:"period"` // weekly / monthly / yearly
	IsActive    bool      `gorm:"index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
