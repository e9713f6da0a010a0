package models

import "time"

// Account types.
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountInvestment = "investment"
	AccountCreditCard = "credit_card"
)

// Account represents a bank/credit/investment account with a cached balance.
// BalanceCents is denormalized: it is adjusted when a transaction is created
// and is NOT recomputed on transaction update or delete.
type Account struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	Name             string    `gorm:"size:64;not null" json:"name"`
	Type             string    `gorm:"size:16;index;not null" json:"type"` // checking / savings / investment / credit_card
	BalanceCents     int64     `gorm:"not null" json:"balance_cents"`      // store in cents to avoid float
	CreditLimitCents *int64    `json:"credit_limit_cents,omitempty"`
	ClosingDay       *int      `json:"closing_day,omitempty"` // credit card statement closing day (1-31)
	DueDay           *int      `json:"due_day,omitempty"`     // credit card payment due day (1-31)
	Color            string    `gorm:"size:16" json:"color"`
	IsActive         bool      `gorm:"index" json:"is_active"` // soft delete
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
