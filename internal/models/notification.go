package models

import "time"

// NotificationState persists per-user read/dismiss flags keyed by the
// client-generated notification id (e.g. "budget-warning-3"). Notification
// content is regenerated client-side and never stored here.
type NotificationState struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex:idx_user_notification;not null" json:"user_id"`
	NotificationID string    `gorm:"uniqueIndex:idx_user_notification;size:128;not null" json:"notification_id"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	IsDismissed    bool      `gorm:"default:false" json:"is_dismissed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
