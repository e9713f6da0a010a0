package stats

import (
	"testing"
	"time"

	"finance-manager/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrUint(v uint) *uint           { return &v }
func ptrInt64(v int64) *int64        { return &v }

var testNow = date(2026, time.June, 15)

func sampleCategories() (food, transport, salary models.Category) {
	food = models.Category{ID: 1, Name: "Alimentação", Type: models.TypeExpense, Color: "#ef4444", IsActive: true}
	transport = models.Category{ID: 2, Name: "Transporte", Type: models.TypeExpense, Color: "#f97316", IsActive: true}
	salary = models.Category{ID: 3, Name: "Salário", Type: models.TypeIncome, Color: "#22c55e", IsActive: true}
	return
}

func sampleTransactions() []models.Transaction {
	food, transport, salary := sampleCategories()
	return []models.Transaction{
		{ID: 1, AccountID: 1, CategoryID: ptrUint(3), Category: &salary, Type: models.TypeIncome, AmountCents: 500000, Date: date(2026, time.June, 5), IsPaid: true},
		{ID: 2, AccountID: 1, CategoryID: ptrUint(1), Category: &food, Type: models.TypeExpense, AmountCents: 20000, Date: date(2026, time.June, 8), IsPaid: true},
		{ID: 3, AccountID: 2, CategoryID: ptrUint(1), Category: &food, Type: models.TypeExpense, AmountCents: 32000, Date: date(2026, time.June, 10), IsPaid: true},
		{ID: 4, AccountID: 1, CategoryID: ptrUint(2), Category: &transport, Type: models.TypeExpense, AmountCents: 5000, Date: date(2026, time.May, 20), IsPaid: true},
		{ID: 5, AccountID: 1, CategoryID: nil, Category: nil, Type: models.TypeExpense, AmountCents: 7500, Date: date(2026, time.April, 2), IsPaid: true},
	}
}

func sampleAccounts() []models.Account {
	return []models.Account{
		{ID: 1, Name: "Conta Corrente", Type: models.AccountChecking, BalanceCents: 100000, IsActive: true},
		{ID: 2, Name: "Cartão", Type: models.AccountCreditCard, BalanceCents: -50000, IsActive: true},
		{ID: 3, Name: "Poupança", Type: models.AccountSavings, BalanceCents: 250000, IsActive: true},
		{ID: 4, Name: "Conta Antiga", Type: models.AccountChecking, BalanceCents: 999900, IsActive: false},
	}
}

func TestEmptyFilterReproducesRawTotals(t *testing.T) {
	txs := sampleTransactions()

	var wantIncome, wantExpense int64
	for i := range txs {
		if txs[i].Type == models.TypeIncome {
			wantIncome += txs[i].AmountCents
		} else {
			wantExpense += txs[i].AmountCents
		}
	}

	s := FilteredDashboard(txs, sampleAccounts(), nil, Filter{}, testNow)
	if s.IncomeCents != wantIncome {
		t.Errorf("IncomeCents = %d, want %d", s.IncomeCents, wantIncome)
	}
	if s.ExpenseCents != wantExpense {
		t.Errorf("ExpenseCents = %d, want %d", s.ExpenseCents, wantExpense)
	}
}

func TestCategoryFilterRestrictsBreakdown(t *testing.T) {
	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, Filter{CategoryIDs: []uint{1}}, testNow)

	if len(s.ExpensesByCategory) != 1 {
		t.Fatalf("ExpensesByCategory has %d entries, want 1", len(s.ExpensesByCategory))
	}
	got := s.ExpensesByCategory[0]
	if got.Category != "Alimentação" {
		t.Errorf("category = %q, want Alimentação", got.Category)
	}
	if got.AmountCents != 52000 {
		t.Errorf("amount = %d, want 52000", got.AmountCents)
	}
}

func TestCategoryFilterWithNoExpensesYieldsEmptyBreakdown(t *testing.T) {
	// category 3 only has income
	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, Filter{CategoryIDs: []uint{3}}, testNow)
	if len(s.ExpensesByCategory) != 0 {
		t.Errorf("ExpensesByCategory has %d entries, want 0", len(s.ExpensesByCategory))
	}
}

func TestAmountRangeMatchesAbsoluteValue(t *testing.T) {
	tx := models.Transaction{Type: models.TypeExpense, AmountCents: -5000, Date: date(2026, time.June, 1)}
	f := Filter{MinCents: ptrInt64(4000), MaxCents: ptrInt64(6000)}
	if !f.Matches(&tx) {
		t.Error("transaction with amount -50.00 should pass {min:40, max:60}")
	}

	tooSmall := models.Transaction{Type: models.TypeExpense, AmountCents: 3000, Date: date(2026, time.June, 1)}
	if f.Matches(&tooSmall) {
		t.Error("transaction with amount 30.00 should not pass {min:40, max:60}")
	}
}

func TestTotalBalanceExcludesCreditCards(t *testing.T) {
	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, Filter{}, testNow)
	// checking 100000 + savings 250000; credit card and inactive excluded
	if s.TotalBalanceCents != 350000 {
		t.Errorf("TotalBalanceCents = %d, want 350000", s.TotalBalanceCents)
	}

	// still excluded when the filter names the credit card explicitly
	s = FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, Filter{AccountIDs: []uint{2}}, testNow)
	if s.TotalBalanceCents != 0 {
		t.Errorf("TotalBalanceCents = %d, want 0 for credit-card-only filter", s.TotalBalanceCents)
	}
}

func TestTotalBalanceIgnoresDateFilter(t *testing.T) {
	// balances are current state: a date range excluding every transaction
	// must not zero the balance
	start := date(2030, time.January, 1)
	end := date(2030, time.February, 1)
	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, Filter{Start: &start, End: &end}, testNow)

	if s.TotalBalanceCents != 350000 {
		t.Errorf("TotalBalanceCents = %d, want 350000", s.TotalBalanceCents)
	}
	if s.IncomeCents != 0 || s.ExpenseCents != 0 {
		t.Errorf("totals = (%d, %d), want zeros for out-of-range filter", s.IncomeCents, s.ExpenseCents)
	}
	if len(s.ExpensesByCategory) != 0 {
		t.Errorf("ExpensesByCategory has %d entries, want 0", len(s.ExpensesByCategory))
	}
}

func TestInvestmentsSumOnlyWhenIncluded(t *testing.T) {
	investments := []models.Investment{
		{InitialAmountCents: 500000, CurrentAmountCents: 521500},
		{InitialAmountCents: 300000, CurrentAmountCents: 287300},
	}

	s := FilteredDashboard(nil, nil, investments, Filter{IncludeInvestments: true}, testNow)
	if s.TotalInvestmentsCents != 800000 {
		t.Errorf("TotalInvestmentsCents = %d, want 800000 (initial amounts)", s.TotalInvestmentsCents)
	}

	s = FilteredDashboard(nil, nil, investments, Filter{IncludeInvestments: false}, testNow)
	if s.TotalInvestmentsCents != 0 {
		t.Errorf("TotalInvestmentsCents = %d, want 0 when excluded", s.TotalInvestmentsCents)
	}
}

func TestUpcomingBillsCapAndPaidExclusion(t *testing.T) {
	var txs []models.Transaction
	for i := 0; i < 8; i++ {
		due := testNow.AddDate(0, 0, 1+i%5)
		txs = append(txs, models.Transaction{
			ID: uint(i + 1), Type: models.TypeExpense, AmountCents: 1000,
			Date: due, DueDate: ptrTime(due), IsPaid: false,
		})
	}
	// paid and out-of-window bills must never appear
	paidDue := testNow.AddDate(0, 0, 2)
	txs = append(txs, models.Transaction{ID: 100, Type: models.TypeExpense, AmountCents: 1000, Date: paidDue, DueDate: ptrTime(paidDue), IsPaid: true})
	farDue := testNow.AddDate(0, 0, 30)
	txs = append(txs, models.Transaction{ID: 101, Type: models.TypeExpense, AmountCents: 1000, Date: farDue, DueDate: ptrTime(farDue), IsPaid: false})

	s := FilteredDashboard(txs, nil, nil, Filter{}, testNow)
	if len(s.UpcomingBills) != 5 {
		t.Fatalf("UpcomingBills has %d entries, want 5", len(s.UpcomingBills))
	}
	for _, bill := range s.UpcomingBills {
		if bill.IsPaid {
			t.Errorf("bill %d is paid, must not be listed", bill.ID)
		}
		if bill.ID == 101 {
			t.Errorf("bill %d is due outside the 7-day window", bill.ID)
		}
	}
}

func TestScenarioIncomeAndCurrentBalance(t *testing.T) {
	// account with balance 1000.00 and one in-range income of 200.00:
	// income counts 200, balance stays the stored current state
	accounts := []models.Account{
		{ID: 1, Type: models.AccountChecking, BalanceCents: 100000, IsActive: true},
	}
	txs := []models.Transaction{
		{ID: 1, AccountID: 1, Type: models.TypeIncome, AmountCents: 20000, Date: date(2026, time.June, 10), IsPaid: true},
	}
	start := date(2026, time.June, 1)
	end := date(2026, time.July, 1)

	s := FilteredDashboard(txs, accounts, nil, Filter{Start: &start, End: &end}, testNow)
	if s.IncomeCents != 20000 {
		t.Errorf("IncomeCents = %d, want 20000", s.IncomeCents)
	}
	if s.TotalBalanceCents != 100000 {
		t.Errorf("TotalBalanceCents = %d, want 100000", s.TotalBalanceCents)
	}
}

func TestMonthlyNetHistoryEmitsTwelveMonths(t *testing.T) {
	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, Filter{}, testNow)
	if len(s.BalanceHistory) != 12 {
		t.Fatalf("BalanceHistory has %d points, want 12", len(s.BalanceHistory))
	}
	if s.BalanceHistory[11].Month != "2026-06" {
		t.Errorf("last month = %q, want 2026-06", s.BalanceHistory[11].Month)
	}
	if s.BalanceHistory[0].Month != "2025-07" {
		t.Errorf("first month = %q, want 2025-07", s.BalanceHistory[0].Month)
	}

	// June 2026: +500000 income, -20000 -32000 expenses
	var june MonthNet
	for _, p := range s.BalanceHistory {
		if p.Month == "2026-06" {
			june = p
		}
	}
	if june.NetCents != 448000 {
		t.Errorf("June net = %d, want 448000", june.NetCents)
	}
}

func TestMonthlyNetHistorySkipsMonthsBeforeStart(t *testing.T) {
	start := date(2026, time.May, 1)
	end := date(2026, time.June, 30)
	endExcl := end.Add(24 * time.Hour)
	f := Filter{Start: &start, End: &endExcl}

	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, f, testNow)
	if len(s.BalanceHistory) != 2 {
		t.Fatalf("BalanceHistory has %d points, want 2 (May, June)", len(s.BalanceHistory))
	}
	if s.BalanceHistory[0].Month != "2026-05" || s.BalanceHistory[1].Month != "2026-06" {
		t.Errorf("months = %q, %q; want 2026-05, 2026-06", s.BalanceHistory[0].Month, s.BalanceHistory[1].Month)
	}
	if s.BalanceHistory[0].NetCents != -5000 {
		t.Errorf("May net = %d, want -5000", s.BalanceHistory[0].NetCents)
	}
}

func TestMonthlyNetHistoryDropsPartialStartMonth(t *testing.T) {
	// a filter starting mid-month must not emit that month at all
	start := date(2026, time.May, 15)
	end := date(2026, time.July, 1)
	f := Filter{Start: &start, End: &end}

	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, f, testNow)
	if len(s.BalanceHistory) != 1 {
		t.Fatalf("BalanceHistory has %d points, want 1 (June only)", len(s.BalanceHistory))
	}
	if s.BalanceHistory[0].Month != "2026-06" {
		t.Errorf("month = %q, want 2026-06; May starts before the filter start", s.BalanceHistory[0].Month)
	}
}

func TestExpensesByCategoryDefaultsAndOrder(t *testing.T) {
	got := ExpensesByCategory(sampleTransactions())

	if len(got) != 3 {
		t.Fatalf("got %d categories, want 3", len(got))
	}
	// descending by amount: Alimentação 52000, Outros 7500, Transporte 5000
	if got[0].Category != "Alimentação" || got[0].AmountCents != 52000 {
		t.Errorf("first = %q/%d, want Alimentação/52000", got[0].Category, got[0].AmountCents)
	}
	if got[1].Category != UncategorizedName || got[1].AmountCents != 7500 {
		t.Errorf("second = %q/%d, want %s/7500", got[1].Category, got[1].AmountCents, UncategorizedName)
	}
	if got[1].Color != UncategorizedColor {
		t.Errorf("uncategorized color = %q, want %q", got[1].Color, UncategorizedColor)
	}
	if got[2].Category != "Transporte" || got[2].AmountCents != 5000 {
		t.Errorf("third = %q/%d, want Transporte/5000", got[2].Category, got[2].AmountCents)
	}
}

func TestCumulativeBalanceHistoryIsRunningTotal(t *testing.T) {
	txs := []models.Transaction{
		{Type: models.TypeIncome, AmountCents: 100000, Date: date(2026, time.March, 10)},
		{Type: models.TypeExpense, AmountCents: 40000, Date: date(2026, time.April, 10)},
		{Type: models.TypeIncome, AmountCents: 10000, Date: date(2026, time.June, 1)},
	}

	history := CumulativeBalanceHistory(txs, testNow, 6)
	if len(history) != 6 {
		t.Fatalf("history has %d points, want 6", len(history))
	}

	wantByMonth := map[string]int64{
		"2026-01": 0,
		"2026-02": 0,
		"2026-03": 100000,
		"2026-04": 60000,
		"2026-05": 60000,
		"2026-06": 70000,
	}
	for _, p := range history {
		if want, ok := wantByMonth[p.Month]; !ok || p.NetCents != want {
			t.Errorf("month %s balance = %d, want %d", p.Month, p.NetCents, want)
		}
	}
}

func TestSortedUpcomingBillsOrdersByDueDate(t *testing.T) {
	d1 := testNow.AddDate(0, 0, 5)
	d2 := testNow.AddDate(0, 0, 1)
	d3 := testNow.AddDate(0, 0, 3)
	txs := []models.Transaction{
		{ID: 1, Type: models.TypeExpense, AmountCents: 1000, Date: d1, DueDate: &d1, IsPaid: false},
		{ID: 2, Type: models.TypeExpense, AmountCents: 1000, Date: d2, DueDate: &d2, IsPaid: false},
		{ID: 3, Type: models.TypeExpense, AmountCents: 1000, Date: d3, DueDate: &d3, IsPaid: false},
	}

	bills := SortedUpcomingBills(txs, testNow)
	if len(bills) != 3 {
		t.Fatalf("got %d bills, want 3", len(bills))
	}
	if bills[0].ID != 2 || bills[1].ID != 3 || bills[2].ID != 1 {
		t.Errorf("order = %d,%d,%d; want 2,3,1", bills[0].ID, bills[1].ID, bills[2].ID)
	}
}

func TestTypeFilter(t *testing.T) {
	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, Filter{Types: []string{models.TypeIncome}}, testNow)
	if s.IncomeCents != 500000 {
		t.Errorf("IncomeCents = %d, want 500000", s.IncomeCents)
	}
	if s.ExpenseCents != 0 {
		t.Errorf("ExpenseCents = %d, want 0 with income-only filter", s.ExpenseCents)
	}
}

func TestAccountFilterRestrictsTransactionsAndBalance(t *testing.T) {
	s := FilteredDashboard(sampleTransactions(), sampleAccounts(), nil, Filter{AccountIDs: []uint{1}}, testNow)
	// account 2's food expense (32000) is gone
	if s.ExpenseCents != 32500 {
		t.Errorf("ExpenseCents = %d, want 32500", s.ExpenseCents)
	}
	if s.TotalBalanceCents != 100000 {
		t.Errorf("TotalBalanceCents = %d, want 100000", s.TotalBalanceCents)
	}
}
