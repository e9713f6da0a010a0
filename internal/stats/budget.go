package stats

import (
	"time"

	"finance-manager/internal/models"
)

// BudgetUsage is a budget row enriched with the consumption computed from
// transactions on read.
type BudgetUsage struct {
	SpentCents   int64   `json:"spent_cents"`
	Percentage   float64 `json:"percentage"`
	IsOverBudget bool    `json:"is_over_budget"`
}

// PeriodWindow returns the current window for a budget period: the calendar
// month for monthly, the calendar year for yearly, and the seven days ending
// tomorrow for weekly. End is exclusive.
func PeriodWindow(period string, now time.Time) (start, end time.Time) {
	switch period {
	case models.PeriodWeekly:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return today.AddDate(0, 0, -6), today.AddDate(0, 0, 1)
	case models.PeriodYearly:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default: // monthly
		start = startOfMonth(now)
		return start, start.AddDate(0, 1, 0)
	}
}

// ComputeBudgetUsage sums the expense transactions matching the budget's
// category (all expenses when the budget is overall) inside the current
// period window.
func ComputeBudgetUsage(b *models.Budget, txs []models.Transaction, now time.Time) BudgetUsage {
	start, end := PeriodWindow(b.Period, now)

	var spent int64
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TypeExpense {
			continue
		}
		if tx.Date.Before(start) || !tx.Date.Before(end) {
			continue
		}
		if b.CategoryID != nil {
			if tx.CategoryID == nil || *tx.CategoryID != *b.CategoryID {
				continue
			}
		}
		spent += absCents(tx.AmountCents)
	}

	usage := BudgetUsage{SpentCents: spent}
	if b.AmountCents > 0 {
		usage.Percentage = float64(spent) / float64(b.AmountCents) * 100
	}
	usage.IsOverBudget = spent > b.AmountCents
	return usage
}

// MonthlyBudgetLimit sums the active monthly budgets.
func MonthlyBudgetLimit(budgets []models.Budget) int64 {
	var total int64
	for i := range budgets {
		if budgets[i].IsActive && budgets[i].Period == models.PeriodMonthly {
			total += budgets[i].AmountCents
		}
	}
	return total
}

// MonthlyIncomeGoal sums the monthly targets of active financial goals.
func MonthlyIncomeGoal(goals []models.FinancialGoal) int64 {
	var total int64
	for i := range goals {
		if goals[i].IsActive {
			total += goals[i].MonthlyTargetCents
		}
	}
	return total
}
