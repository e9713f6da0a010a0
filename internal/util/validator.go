package util

import (
	"fmt"
	"time"
)

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateName checks a user-facing entity name (account, category, goal...).
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("name too long, max 64 characters")
	}
	return nil
}

// ValidateDayOfMonth checks credit card closing/due days.
func ValidateDayOfMonth(day int) error {
	if day < 1 || day > 31 {
		return fmt.Errorf("day must be between 1 and 31, got %d", day)
	}
	return nil
}
