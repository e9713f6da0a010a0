package handler

import (
	"net/http"
	"time"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/stats"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardHandler serves the summary views. All aggregation happens in the
// stats package over rows loaded here.
type DashboardHandler struct {
	DB *gorm.DB

	// overridable clock so history windows can be pinned in tests
	Now func() time.Time
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db, Now: time.Now}
}

// filterSpecReq mirrors the filter spec the SPA sends. Empty fields mean no
// restriction; amount bounds are in currency units against the absolute
// transaction amount.
type filterSpecReq struct {
	DateRange struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"dateRange"`
	Accounts         []uint   `json:"accounts"`
	Categories       []uint   `json:"categories"`
	TransactionTypes []string `json:"transactionTypes"`
	AmountRange      struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	} `json:"amountRange"`
	IncludeInvestments bool `json:"includeInvestments"`
}

func (r *filterSpecReq) toFilter() (stats.Filter, error) {
	f := stats.Filter{
		AccountIDs:         r.Accounts,
		CategoryIDs:        r.Categories,
		IncludeInvestments: r.IncludeInvestments,
	}

	if r.DateRange.StartDate != "" {
		start, err := time.Parse("2006-01-02", r.DateRange.StartDate)
		if err != nil {
			return f, err
		}
		f.Start = &start
	}
	if r.DateRange.EndDate != "" {
		end, err := time.Parse("2006-01-02", r.DateRange.EndDate)
		if err != nil {
			return f, err
		}
		// inclusive bound: accept anything before the next day
		endExcl := end.Add(24 * time.Hour)
		f.End = &endExcl
	}

	for _, t := range r.TransactionTypes {
		if t == models.TypeIncome || t == models.TypeExpense {
			f.Types = append(f.Types, t)
		}
	}

	if r.AmountRange.Min != nil {
		v := util.ParseFloatCents(*r.AmountRange.Min)
		f.MinCents = &v
	}
	if r.AmountRange.Max != nil {
		v := util.ParseFloatCents(*r.AmountRange.Max)
		f.MaxCents = &v
	}
	return f, nil
}

func (h *DashboardHandler) loadUserData(userID uint) ([]models.Transaction, []models.Account, []models.Investment, error) {
	var txs []models.Transaction
	if err := h.DB.Preload("Category").
		Where("user_id = ?", userID).
		Order("date ASC, id ASC").
		Find(&txs).Error; err != nil {
		return nil, nil, nil, err
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, nil, nil, err
	}

	var investments []models.Investment
	if err := h.DB.Where("user_id = ?", userID).Find(&investments).Error; err != nil {
		return nil, nil, nil, err
	}
	return txs, accounts, investments, nil
}

func upcomingBillsResp(bills []models.Transaction) []gin.H {
	out := make([]gin.H, 0, len(bills))
	for i := range bills {
		out = append(out, transactionResp(&bills[i]))
	}
	return out
}

// GetFilteredDashboard computes the aggregate for a filter spec.
func (h *DashboardHandler) GetFilteredDashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req filterSpecReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	filter, err := req.toFilter()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date range, want YYYY-MM-DD")
		return
	}

	txs, accounts, investments, err := h.loadUserData(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load data")
		return
	}

	s := stats.FilteredDashboard(txs, accounts, investments, filter, h.Now())

	util.Success(c, util.Response{
		"monthly_income_cents":    s.IncomeCents,
		"monthly_income":          util.FormatCents(s.IncomeCents),
		"monthly_expenses_cents":  s.ExpenseCents,
		"monthly_expenses":        util.FormatCents(s.ExpenseCents),
		"total_balance_cents":     s.TotalBalanceCents,
		"total_balance":           util.FormatCents(s.TotalBalanceCents),
		"total_investments_cents": s.TotalInvestmentsCents,
		"total_investments":       util.FormatCents(s.TotalInvestmentsCents),
		"expenses_by_category":    s.ExpensesByCategory,
		"balance_history":         s.BalanceHistory,
		"upcoming_bills":          upcomingBillsResp(s.UpcomingBills),
	})
}

// GetDashboard is the unfiltered variant: current-month totals, a six-month
// cumulative balance walk, and budget/goal-derived figures.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	txs, accounts, investments, err := h.loadUserData(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load data")
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load budgets")
		return
	}
	var goals []models.FinancialGoal
	if err := h.DB.Where("user_id = ?", user.ID).Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load goals")
		return
	}

	now := h.Now()
	incomeCents, expenseCents := stats.CurrentMonthTotals(txs, now)

	var totalBalance int64
	for i := range accounts {
		acc := &accounts[i]
		if acc.IsActive && acc.Type != models.AccountCreditCard {
			totalBalance += acc.BalanceCents
		}
	}

	var totalInvestments int64
	for i := range investments {
		totalInvestments += investments[i].InitialAmountCents
	}

	// current-month expense breakdown
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	monthFilter := stats.Filter{Start: &monthStart, End: &monthEnd}

	budgetLimit := stats.MonthlyBudgetLimit(budgets)
	incomeGoal := stats.MonthlyIncomeGoal(goals)

	util.Success(c, util.Response{
		"monthly_income_cents":    incomeCents,
		"monthly_income":          util.FormatCents(incomeCents),
		"monthly_expenses_cents":  expenseCents,
		"monthly_expenses":        util.FormatCents(expenseCents),
		"total_balance_cents":     totalBalance,
		"total_balance":           util.FormatCents(totalBalance),
		"total_investments_cents": totalInvestments,
		"total_investments":       util.FormatCents(totalInvestments),
		"monthly_budget_limit":    util.FormatCents(budgetLimit),
		"monthly_income_goal":     util.FormatCents(incomeGoal),
		"expenses_by_category":    stats.ExpensesByCategory(monthFilter.Apply(txs)),
		"balance_history":         stats.CumulativeBalanceHistory(txs, now, 6),
		"upcoming_bills":          upcomingBillsResp(stats.SortedUpcomingBills(txs, now)),
	})
}
