package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmountCents converts a decimal amount string (e.g. "12.34") into
// cents. Comma decimal separators are accepted since the UI is pt-BR.
// The value must be positive and have at most two decimal places.
func ParseAmountCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	v := cents.IntPart()
	if v <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %s", s)
	}
	return v, nil
}

// ParseSignedCents is ParseAmountCents without the positivity requirement,
// for values that may legitimately be zero or negative (account balances).
func ParseSignedCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return cents.IntPart(), nil
}

// FormatCents renders cents as a two-decimal string ("1234" cents -> "12.34").
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseFloatCents converts a float amount (JSON number) into cents,
// rounding half away from zero at the second decimal place.
func ParseFloatCents(f float64) int64 {
	return decimal.NewFromFloat(f).Shift(2).Round(0).IntPart()
}

// AtoiDefault parses s, falling back to def on error.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
