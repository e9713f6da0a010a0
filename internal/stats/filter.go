package stats

import (
	"time"

	"finance-manager/internal/models"
)

// Filter narrows the dashboard aggregation. Zero-valued fields mean "no
// restriction". Start is inclusive; End is exclusive (callers that parse an
// inclusive end date add one day, the same way the entry listing does).
type Filter struct {
	Start *time.Time
	End   *time.Time

	AccountIDs  []uint
	CategoryIDs []uint
	Types       []string // income / expense

	// bounds on the absolute amount, in cents
	MinCents *int64
	MaxCents *int64

	IncludeInvestments bool
}

func containsUint(list []uint, v uint) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Matches reports whether a transaction passes every active predicate.
func (f Filter) Matches(tx *models.Transaction) bool {
	if f.Start != nil && tx.Date.Before(*f.Start) {
		return false
	}
	if f.End != nil && !tx.Date.Before(*f.End) {
		return false
	}
	if len(f.AccountIDs) > 0 && !containsUint(f.AccountIDs, tx.AccountID) {
		return false
	}
	if len(f.CategoryIDs) > 0 {
		if tx.CategoryID == nil || !containsUint(f.CategoryIDs, *tx.CategoryID) {
			return false
		}
	}
	if len(f.Types) > 0 && !containsString(f.Types, tx.Type) {
		return false
	}

	// amount bounds apply to the absolute value
	amount := tx.AmountCents
	if amount < 0 {
		amount = -amount
	}
	if f.MinCents != nil && amount < *f.MinCents {
		return false
	}
	if f.MaxCents != nil && amount > *f.MaxCents {
		return false
	}
	return true
}

// Apply returns the transactions passing every active predicate, preserving
// input order.
func (f Filter) Apply(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for i := range txs {
		if f.Matches(&txs[i]) {
			out = append(out, txs[i])
		}
	}
	return out
}
