package models

import "time"

// User represents application user.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	SecurityPhraseHash string    `gorm:"size:255;not null" json:"-"` // used for password reset
	DisplayName        string    `gorm:"size:64" json:"display_name"`
	OnboardingDone     bool      `gorm:"default:false" json:"onboarding_done"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `gorm:"index" json:"-"`
	LastLoginAt         *time.Time `json:"-"`
	LastLoginIP         string     `gorm:"size:64" json:"-"`
}
