package handler

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SettingsHandler owns the data-management endpoints: demo data seeding,
// full wipe, and JSON backup export/import.
type SettingsHandler struct {
	DB *gorm.DB

	Now func() time.Time
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{DB: db, Now: time.Now}
}

// backupDocument is the backup file payload. Row ids are carried along so
// import can remap cross-references, then reassigned by the database.
type backupDocument struct {
	UserID             uint                       `json:"user_id"`
	Created            time.Time                  `json:"created"`
	Accounts           []models.Account           `json:"accounts"`
	Categories         []models.Category          `json:"categories"`
	Transactions       []models.Transaction       `json:"transactions"`
	Budgets            []models.Budget            `json:"budgets"`
	Investments        []models.Investment        `json:"investments"`
	Goals              []models.FinancialGoal     `json:"goals"`
	Predictions        []models.AiPrediction      `json:"predictions"`
	NotificationStates []models.NotificationState `json:"notification_states"`
}

// ---------- backup ----------

// ExportBackup serves the user's rows as a downloadable JSON document.
func (h *SettingsHandler) ExportBackup(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	doc := backupDocument{UserID: user.ID, Created: h.Now()}

	loads := []error{
		h.DB.Where("user_id = ?", user.ID).Find(&doc.Accounts).Error,
		h.DB.Where("user_id = ?", user.ID).Find(&doc.Categories).Error,
		h.DB.Where("user_id = ?", user.ID).Order("date ASC, id ASC").Find(&doc.Transactions).Error,
		h.DB.Where("user_id = ?", user.ID).Find(&doc.Budgets).Error,
		h.DB.Where("user_id = ?", user.ID).Find(&doc.Investments).Error,
		h.DB.Where("user_id = ?", user.ID).Find(&doc.Goals).Error,
		h.DB.Where("user_id = ?", user.ID).Find(&doc.Predictions).Error,
		h.DB.Where("user_id = ?", user.ID).Find(&doc.NotificationStates).Error,
	}
	for _, err := range loads {
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load data")
			return
		}
	}

	raw, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to serialize backup")
		return
	}

	fileName := fmt.Sprintf("backup-%s.json", h.Now().Format("20060102"))
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/json", raw)
}

// ImportBackup restores a backup document: the user's rows are wiped and
// recreated inside one transaction, with account/category references
// remapped onto the freshly assigned ids.
func (h *SettingsHandler) ImportBackup(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var doc backupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid backup document")
		return
	}

	if doc.UserID != 0 && doc.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "backup belongs to another user")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteUserRows(tx, user.ID); err != nil {
			return err
		}

		categoryIDs := make(map[uint]uint, len(doc.Categories))
		for i := range doc.Categories {
			row := doc.Categories[i]
			oldID := row.ID
			row.ID = 0
			row.UserID = user.ID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			categoryIDs[oldID] = row.ID
		}

		accountIDs := make(map[uint]uint, len(doc.Accounts))
		for i := range doc.Accounts {
			row := doc.Accounts[i]
			oldID := row.ID
			row.ID = 0
			row.UserID = user.ID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			accountIDs[oldID] = row.ID
		}

		for i := range doc.Transactions {
			row := doc.Transactions[i]
			row.ID = 0
			row.UserID = user.ID
			row.Account = models.Account{}
			row.Category = nil
			if newID, ok := accountIDs[row.AccountID]; ok {
				row.AccountID = newID
			}
			if row.CategoryID != nil {
				if newID, ok := categoryIDs[*row.CategoryID]; ok {
					row.CategoryID = &newID
				} else {
					row.CategoryID = nil
				}
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for i := range doc.Budgets {
			row := doc.Budgets[i]
			row.ID = 0
			row.UserID = user.ID
			if row.CategoryID != nil {
				if newID, ok := categoryIDs[*row.CategoryID]; ok {
					row.CategoryID = &newID
				} else {
					row.CategoryID = nil
				}
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for i := range doc.Investments {
			row := doc.Investments[i]
			row.ID = 0
			row.UserID = user.ID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for i := range doc.Goals {
			row := doc.Goals[i]
			row.ID = 0
			row.UserID = user.ID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for i := range doc.Predictions {
			row := doc.Predictions[i]
			row.ID = 0
			row.UserID = user.ID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for i := range doc.NotificationStates {
			row := doc.NotificationStates[i]
			row.ID = 0
			row.UserID = user.ID
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "restore failed")
		return
	}

	util.Success(c, util.Response{
		"message":            "backup restored",
		"transactions_count": len(doc.Transactions),
	})
}

// ---------- clear ----------

// ClearData wipes every finance row of the user; the user record survives.
func (h *SettingsHandler) ClearData(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		return deleteUserRows(tx, user.ID)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to clear data")
		return
	}

	util.Success(c, util.Response{"message": "data cleared"})
}

// children first, then the rows they reference
func deleteUserRows(tx *gorm.DB, userID uint) error {
	deletions := []interface{}{
		&models.Transaction{},
		&models.Budget{},
		&models.Investment{},
		&models.FinancialGoal{},
		&models.AiPrediction{},
		&models.NotificationState{},
		&models.Account{},
		&models.Category{},
	}
	for _, model := range deletions {
		if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// ---------- demo data ----------

type seedCategory struct {
	name  string
	ctype string
	color string
}

var demoCategories = []seedCategory{
	{"Salário", models.TypeIncome, "#22c55e"},
	{"Freelance", models.TypeIncome, "#10b981"},
	{"Alimentação", models.TypeExpense, "#ef4444"},
	{"Transporte", models.TypeExpense, "#f97316"},
	{"Moradia", models.TypeExpense, "#8b5cf6"},
	{"Lazer", models.TypeExpense, "#ec4899"},
	{"Saúde", models.TypeExpense, "#06b6d4"},
	{"Educação", models.TypeExpense, "#eab308"},
}

// GenerateData seeds twelve months of demo data for the user. The generator
// is seeded from the user id, so repeat runs produce the same shape.
func (h *SettingsHandler) GenerateData(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	rng := rand.New(rand.NewSource(int64(user.ID)))
	now := h.Now()

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteUserRows(tx, user.ID); err != nil {
			return err
		}

		var income []models.Category
		var expense []models.Category
		for _, sc := range demoCategories {
			cat := models.Category{
				UserID:   user.ID,
				Name:     sc.name,
				Type:     sc.ctype,
				Color:    sc.color,
				IsActive: true,
			}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
			if sc.ctype == models.TypeIncome {
				income = append(income, cat)
			} else {
				expense = append(expense, cat)
			}
		}

		creditLimit := int64(500000)
		closingDay, dueDay := 28, 10
		checking := models.Account{UserID: user.ID, Name: "Conta Corrente", Type: models.AccountChecking, Color: "#3b82f6", IsActive: true}
		savings := models.Account{UserID: user.ID, Name: "Poupança", Type: models.AccountSavings, BalanceCents: 1000000, Color: "#22c55e", IsActive: true}
		card := models.Account{
			UserID: user.ID, Name: "Cartão de Crédito", Type: models.AccountCreditCard,
			CreditLimitCents: &creditLimit, ClosingDay: &closingDay, DueDay: &dueDay,
			Color: "#ef4444", IsActive: true,
		}
		for _, acc := range []*models.Account{&checking, &savings, &card} {
			if err := tx.Create(acc).Error; err != nil {
				return err
			}
		}

		// twelve months of movements; balances accumulate the same way
		// transaction creation would have applied them
		balances := map[uint]int64{checking.ID: 0, savings.ID: savings.BalanceCents, card.ID: 0}
		salaryCat := income[0].ID

		for m := 11; m >= 0; m-- {
			monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -m, 0)

			salary := models.Transaction{
				UserID: user.ID, AccountID: checking.ID, CategoryID: &salaryCat,
				Type: models.TypeIncome, AmountCents: 500000,
				Description: "Salário mensal", Date: monthStart.AddDate(0, 0, 4), IsPaid: true,
			}
			if err := tx.Create(&salary).Error; err != nil {
				return err
			}
			balances[checking.ID] += salary.AmountCents

			count := 8 + rng.Intn(8)
			for i := 0; i < count; i++ {
				cat := expense[rng.Intn(len(expense))]
				catID := cat.ID
				accID := checking.ID
				if rng.Intn(3) == 0 {
					accID = card.ID
				}
				exp := models.Transaction{
					UserID: user.ID, AccountID: accID, CategoryID: &catID,
					Type: models.TypeExpense, AmountCents: int64(2000 + rng.Intn(38000)),
					Description: cat.Name, Date: monthStart.AddDate(0, 0, rng.Intn(28)), IsPaid: true,
				}
				if err := tx.Create(&exp).Error; err != nil {
					return err
				}
				balances[accID] -= exp.AmountCents
			}
		}

		// a couple of unpaid bills due in the coming week
		housingCat := expense[2].ID
		for i := 0; i < 2; i++ {
			due := now.AddDate(0, 0, 1+rng.Intn(5))
			bill := models.Transaction{
				UserID: user.ID, AccountID: checking.ID, CategoryID: &housingCat,
				Type: models.TypeExpense, AmountCents: int64(8000 + rng.Intn(40000)),
				Description: "Conta a pagar", Date: due, DueDate: &due, IsPaid: false,
			}
			if err := tx.Create(&bill).Error; err != nil {
				return err
			}
		}

		for accID, balance := range balances {
			if err := tx.Model(&models.Account{}).Where("id = ?", accID).
				Update("balance_cents", balance).Error; err != nil {
				return err
			}
		}

		foodCat := expense[0].ID
		transportCat := expense[1].ID
		budgets := []models.Budget{
			{UserID: user.ID, CategoryID: &foodCat, AmountCents: 80000, Period: models.PeriodMonthly, IsActive: true},
			{UserID: user.ID, CategoryID: &transportCat, AmountCents: 40000, Period: models.PeriodMonthly, IsActive: true},
			{UserID: user.ID, AmountCents: 300000, Period: models.PeriodMonthly, IsActive: true},
		}
		for i := range budgets {
			if err := tx.Create(&budgets[i]).Error; err != nil {
				return err
			}
		}

		investments := []models.Investment{
			{UserID: user.ID, Name: "CDB Liquidez Diária", Type: "fixed_income", InitialAmountCents: 500000, CurrentAmountCents: 521500, PurchaseDate: now.AddDate(0, -10, 0)},
			{UserID: user.ID, Name: "Carteira de Ações", Type: "stocks", InitialAmountCents: 300000, CurrentAmountCents: 287300, PurchaseDate: now.AddDate(0, -6, 0)},
		}
		for i := range investments {
			if err := tx.Create(&investments[i]).Error; err != nil {
				return err
			}
		}

		targetDate := now.AddDate(2, 0, 0)
		goal := models.FinancialGoal{
			UserID: user.ID, Name: "Reserva de emergência",
			TargetCents: 1500000, CurrentCents: 400000, MonthlyTargetCents: 50000,
			TargetDate: &targetDate, IsActive: true,
		}
		if err := tx.Create(&goal).Error; err != nil {
			return err
		}

		for i := 1; i <= 3; i++ {
			month := now.AddDate(0, i, 0)
			pred := models.AiPrediction{
				UserID:                user.ID,
				Month:                 month.Format("2006-01"),
				PredictedIncomeCents:  500000 + int64(rng.Intn(50000)),
				PredictedExpenseCents: 350000 + int64(rng.Intn(100000)),
				Confidence:            0.6 + rng.Float64()*0.3,
				GeneratedAt:           now,
			}
			if err := tx.Create(&pred).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to generate data")
		return
	}

	util.Success(c, util.Response{"message": "demo data generated"})
}
