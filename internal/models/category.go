package models

import "time"

// Category represents income/expense category.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Type      string    `gorm:"size:16;index;not null" json:"type"` // income / expense
	Color     string    `gorm:"size:16" json:"color"`
	IsActive  bool      `gorm:"index" json:"is_active"` // soft delete
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
