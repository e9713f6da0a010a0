package handler

import (
	"net/http"
	"testing"
	"time"

	"finance-manager/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGetFilteredDashboard(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	checking := createTestAccount(t, db, user.ID, "Conta Corrente", 100000)
	food := createTestCategory(t, db, user.ID, "Alimentação", models.TypeExpense)

	card := models.Account{
		UserID: user.ID, Name: "Cartão", Type: models.AccountCreditCard,
		BalanceCents: -50000, IsActive: true,
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create card: %v", err)
	}

	seed := []models.Transaction{
		{UserID: user.ID, AccountID: checking.ID, Type: models.TypeIncome, AmountCents: 500000,
			Date: time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC), IsPaid: true},
		{UserID: user.ID, AccountID: checking.ID, CategoryID: &food.ID, Type: models.TypeExpense, AmountCents: 20000,
			Date: time.Date(2026, time.June, 8, 0, 0, 0, 0, time.UTC), IsPaid: true},
		{UserID: user.ID, AccountID: checking.ID, CategoryID: &food.ID, Type: models.TypeExpense, AmountCents: 7500,
			Date: time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC), IsPaid: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	h := NewDashboardHandler(db)
	h.Now = fixedClock(time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC))

	c, w := testContext(t, user, "POST", "/api/dashboard/filtered", map[string]interface{}{
		"dateRange": map[string]string{"startDate": "2026-06-01", "endDate": "2026-06-30"},
	})
	h.GetFilteredDashboard(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("code = %v", code)
	}

	if income := data["monthly_income_cents"].(float64); income != 500000 {
		t.Errorf("income = %v, want 500000", income)
	}
	if expenses := data["monthly_expenses_cents"].(float64); expenses != 20000 {
		t.Errorf("expenses = %v, want 20000 (May expense out of range)", expenses)
	}
	// credit card excluded
	if balance := data["total_balance_cents"].(float64); balance != 100000 {
		t.Errorf("total balance = %v, want 100000", balance)
	}
	if data["monthly_income"] != "5000.00" {
		t.Errorf("formatted income = %v, want 5000.00", data["monthly_income"])
	}

	byCategory := data["expenses_by_category"].([]interface{})
	if len(byCategory) != 1 {
		t.Fatalf("expenses_by_category has %d entries, want 1", len(byCategory))
	}
	entry := byCategory[0].(map[string]interface{})
	if entry["category"] != "Alimentação" || entry["amount_cents"].(float64) != 20000 {
		t.Errorf("breakdown entry = %v", entry)
	}
}

func TestGetFilteredDashboardRejectsBadDates(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	h := NewDashboardHandler(db)

	c, w := testContext(t, user, "POST", "/api/dashboard/filtered", map[string]interface{}{
		"dateRange": map[string]string{"startDate": "01/06/2026"},
	})
	h.GetFilteredDashboard(c)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetFilteredDashboardAmountRangeInCurrencyUnits(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	acc := createTestAccount(t, db, user.ID, "Conta", 0)

	amounts := []int64{3000, 5000, 9000} // 30, 50, 90
	for _, cents := range amounts {
		tx := models.Transaction{
			UserID: user.ID, AccountID: acc.ID, Type: models.TypeExpense, AmountCents: cents,
			Date: time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC), IsPaid: true,
		}
		if err := db.Create(&tx).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	h := NewDashboardHandler(db)
	h.Now = fixedClock(time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC))

	c, w := testContext(t, user, "POST", "/api/dashboard/filtered", map[string]interface{}{
		"amountRange": map[string]float64{"min": 40, "max": 60},
	})
	h.GetFilteredDashboard(c)
	_, data := decodeEnvelope(t, w)
	if expenses := data["monthly_expenses_cents"].(float64); expenses != 5000 {
		t.Errorf("expenses = %v, want 5000 (only the 50.00 transaction)", expenses)
	}
}

func TestGetDashboardBudgetAndGoalFigures(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")
	createTestAccount(t, db, user.ID, "Conta", 250000)

	budgets := []models.Budget{
		{UserID: user.ID, AmountCents: 80000, Period: models.PeriodMonthly, IsActive: true},
		{UserID: user.ID, AmountCents: 40000, Period: models.PeriodMonthly, IsActive: true},
		{UserID: user.ID, AmountCents: 500000, Period: models.PeriodYearly, IsActive: true},
	}
	for i := range budgets {
		if err := db.Create(&budgets[i]).Error; err != nil {
			t.Fatalf("seed budget: %v", err)
		}
	}
	goal := models.FinancialGoal{
		UserID: user.ID, Name: "Reserva", TargetCents: 1000000,
		MonthlyTargetCents: 50000, IsActive: true,
	}
	if err := db.Create(&goal).Error; err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	h := NewDashboardHandler(db)
	h.Now = fixedClock(time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC))

	c, w := testContext(t, user, "GET", "/api/dashboard", nil)
	h.GetDashboard(c)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	_, data := decodeEnvelope(t, w)

	if data["monthly_budget_limit"] != "1200.00" {
		t.Errorf("monthly_budget_limit = %v, want 1200.00 (monthly budgets only)", data["monthly_budget_limit"])
	}
	if data["monthly_income_goal"] != "500.00" {
		t.Errorf("monthly_income_goal = %v, want 500.00", data["monthly_income_goal"])
	}
	if balance := data["total_balance_cents"].(float64); balance != 250000 {
		t.Errorf("total balance = %v, want 250000", balance)
	}

	history := data["balance_history"].([]interface{})
	if len(history) != 6 {
		t.Errorf("balance_history has %d points, want 6", len(history))
	}
}
