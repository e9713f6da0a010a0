package stats

import (
	"sort"
	"time"

	"finance-manager/internal/models"
)

// defaults for transactions whose category was removed
const (
	UncategorizedName  = "Outros"
	UncategorizedColor = "#9ca3af"
)

const upcomingBillsLimit = 5

// CategoryExpense is one slice of the expense breakdown.
type CategoryExpense struct {
	Category    string `json:"category"`
	Color       string `json:"color"`
	AmountCents int64  `json:"amount_cents"`
}

// MonthNet is one point of the balance history series.
type MonthNet struct {
	Month    string `json:"month"` // YYYY-MM
	NetCents int64  `json:"net_cents"`
}

// Summary is the filtered dashboard aggregate.
type Summary struct {
	IncomeCents           int64
	ExpenseCents          int64
	TotalBalanceCents     int64
	TotalInvestmentsCents int64
	ExpensesByCategory    []CategoryExpense
	BalanceHistory        []MonthNet
	UpcomingBills         []models.Transaction
}

func absCents(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// FilteredDashboard computes the dashboard aggregate for the given filter.
// txs must carry their Category preloaded; accounts and investments are the
// user's full sets. Impossible filters yield zeroed/empty results, never an
// error.
func FilteredDashboard(txs []models.Transaction, accounts []models.Account, investments []models.Investment, f Filter, now time.Time) Summary {
	filtered := f.Apply(txs)

	var s Summary

	// income/expense totals over the filtered set
	for i := range filtered {
		tx := &filtered[i]
		switch tx.Type {
		case models.TypeIncome:
			s.IncomeCents += absCents(tx.AmountCents)
		case models.TypeExpense:
			s.ExpenseCents += absCents(tx.AmountCents)
		}
	}

	// balances are current state: the account filter applies, the date
	// filter does not; credit cards never count toward total balance
	for i := range accounts {
		acc := &accounts[i]
		if !acc.IsActive || acc.Type == models.AccountCreditCard {
			continue
		}
		if len(f.AccountIDs) > 0 && !containsUint(f.AccountIDs, acc.ID) {
			continue
		}
		s.TotalBalanceCents += acc.BalanceCents
	}

	if f.IncludeInvestments {
		for i := range investments {
			s.TotalInvestmentsCents += investments[i].InitialAmountCents
		}
	}

	s.ExpensesByCategory = ExpensesByCategory(filtered)
	s.BalanceHistory = monthlyNetHistory(filtered, f, now, 12)
	s.UpcomingBills = upcomingBills(filtered, now)

	return s
}

// ExpensesByCategory sums filtered expenses per category name,
// descending by amount.
func ExpensesByCategory(txs []models.Transaction) []CategoryExpense {
	type bucket struct {
		color string
		cents int64
	}
	byName := make(map[string]*bucket)
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TypeExpense {
			continue
		}
		name := UncategorizedName
		color := UncategorizedColor
		if tx.Category != nil && tx.Category.Name != "" {
			name = tx.Category.Name
			if tx.Category.Color != "" {
				color = tx.Category.Color
			}
		}
		b, ok := byName[name]
		if !ok {
			b = &bucket{color: color}
			byName[name] = b
		}
		b.cents += absCents(tx.AmountCents)
	}

	out := make([]CategoryExpense, 0, len(byName))
	for name, b := range byName {
		out = append(out, CategoryExpense{Category: name, Color: b.color, AmountCents: b.cents})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AmountCents != out[j].AmountCents {
			return out[i].AmountCents > out[j].AmountCents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// monthlyNetHistory emits per-month net flow (income minus expense) for the
// `months` calendar months ending at the filter end date (or now). Months
// starting before the filter start date are skipped.
func monthlyNetHistory(txs []models.Transaction, f Filter, now time.Time, months int) []MonthNet {
	end := now
	if f.End != nil {
		// End is exclusive (start of the day after the inclusive bound)
		end = f.End.Add(-time.Second)
	}

	out := make([]MonthNet, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := startOfMonth(end).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		// a month is emitted only when it starts on/after the filter start,
		// so a mid-month start drops that partial month entirely
		if f.Start != nil && monthStart.Before(*f.Start) {
			continue
		}

		var net int64
		for j := range txs {
			tx := &txs[j]
			if tx.Date.Before(monthStart) || !tx.Date.Before(monthEnd) {
				continue
			}
			if tx.Type == models.TypeIncome {
				net += absCents(tx.AmountCents)
			} else {
				net -= absCents(tx.AmountCents)
			}
		}
		out = append(out, MonthNet{Month: monthStart.Format("2006-01"), NetCents: net})
	}
	return out
}

// upcomingBills returns at most five unpaid transactions due within the next
// seven days, in the order they appear in the filtered set.
func upcomingBills(txs []models.Transaction, now time.Time) []models.Transaction {
	horizon := now.AddDate(0, 0, 7)
	out := make([]models.Transaction, 0, upcomingBillsLimit)
	for i := range txs {
		tx := &txs[i]
		if tx.IsPaid || tx.DueDate == nil {
			continue
		}
		if tx.DueDate.Before(now) || tx.DueDate.After(horizon) {
			continue
		}
		out = append(out, *tx)
		if len(out) == upcomingBillsLimit {
			break
		}
	}
	return out
}

// CurrentMonthTotals sums income and expense for the calendar month of now.
func CurrentMonthTotals(txs []models.Transaction, now time.Time) (incomeCents, expenseCents int64) {
	monthStart := startOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, 0)
	for i := range txs {
		tx := &txs[i]
		if tx.Date.Before(monthStart) || !tx.Date.Before(monthEnd) {
			continue
		}
		if tx.Type == models.TypeIncome {
			incomeCents += absCents(tx.AmountCents)
		} else {
			expenseCents += absCents(tx.AmountCents)
		}
	}
	return incomeCents, expenseCents
}

// CumulativeBalanceHistory walks back `months` calendar months and, for each
// month-end cutoff, recomputes the running balance from every transaction up
// to that point. Quadratic in months x transactions, which is fine at the
// data sizes a single user produces.
func CumulativeBalanceHistory(txs []models.Transaction, now time.Time, months int) []MonthNet {
	out := make([]MonthNet, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := startOfMonth(now).AddDate(0, -i, 0)
		cutoff := monthStart.AddDate(0, 1, 0)

		var balance int64
		for j := range txs {
			tx := &txs[j]
			if !tx.Date.Before(cutoff) {
				continue
			}
			if tx.Type == models.TypeIncome {
				balance += absCents(tx.AmountCents)
			} else {
				balance -= absCents(tx.AmountCents)
			}
		}
		out = append(out, MonthNet{Month: monthStart.Format("2006-01"), NetCents: balance})
	}
	return out
}

// SortedUpcomingBills is the unfiltered-dashboard variant: same window and
// cap, but ordered by due date.
func SortedUpcomingBills(txs []models.Transaction, now time.Time) []models.Transaction {
	horizon := now.AddDate(0, 0, 7)
	var due []models.Transaction
	for i := range txs {
		tx := &txs[i]
		if tx.IsPaid || tx.DueDate == nil {
			continue
		}
		if tx.DueDate.Before(now) || tx.DueDate.After(horizon) {
			continue
		}
		due = append(due, *tx)
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].DueDate.Before(*due[j].DueDate)
	})
	if len(due) > upcomingBillsLimit {
		due = due[:upcomingBillsLimit]
	}
	return due
}
