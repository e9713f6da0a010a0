package models

import "time"

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction represents a single dated money movement tied to an account
// and category. AmountCents is always a positive magnitude; Type carries
// the sign.
type Transaction struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	AccountID   uint       `gorm:"index;not null" json:"account_id"`
	CategoryID  *uint      `gorm:"index" json:"category_id,omitempty"`
	Type        string     `gorm:"size:16;index;not null" json:"type"` // income / expense
	AmountCents int64      `gorm:"not null" json:"amount_cents"`       // positive magnitude, cents
	Description string     `gorm:"size:255" json:"description"`
	Date        time.Time  `gorm:"index;not null" json:"date"` // when the movement happened
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	IsPaid      bool       `gorm:"index" json:"is_paid"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Account  Account   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
