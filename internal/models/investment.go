package models

import "time"

// Investment is a simple user-owned investment position.
type Investment struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"index;not null" json:"user_id"`
	Name               string    `gorm:"size:64;not null" json:"name"`
	Type               string    `gorm:"size:32" json:"type"` // stocks, funds, fixed income, crypto...
	InitialAmountCents int64     `gorm:"not null" json:"initial_amount_cents"`
	CurrentAmountCents int64     `gorm:"not null" json:"current_amount_cents"`
	PurchaseDate       time.Time `json:"purchase_date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
