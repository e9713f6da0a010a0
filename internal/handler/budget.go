package handler

import (
	"net/http"
	"strconv"
	"time"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/stats"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler owns the budget CRUD endpoints. Usage figures are computed
// on read from the matching transactions.
type BudgetHandler struct {
	DB *gorm.DB

	// overridable clock so period windows can be pinned in tests
	Now func() time.Time
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{DB: db, Now: time.Now}
}

type budgetReq struct {
	CategoryID *uint  `json:"category_id"`
	Amount     string `json:"amount" binding:"required"`
	Period     string `json:"period" binding:"omitempty,oneof=weekly monthly yearly"`
}

type budgetPatchReq struct {
	CategoryID *uint   `json:"category_id"`
	Amount     *string `json:"amount"`
	Period     *string `json:"period"`
	IsActive   *bool   `json:"is_active"`
}

func (h *BudgetHandler) budgetResp(b *models.Budget, txs []models.Transaction) gin.H {
	usage := stats.ComputeBudgetUsage(b, txs, h.Now())
	resp := gin.H{
		"id":             b.ID,
		"amount_cents":   b.AmountCents,
		"amount":         util.FormatCents(b.AmountCents),
		"period":         b.Period,
		"is_active":      b.IsActive,
		"spent_cents":    usage.SpentCents,
		"spent":          util.FormatCents(usage.SpentCents),
		"percentage":     usage.Percentage,
		"is_over_budget": usage.IsOverBudget,
		"created_at":     b.CreatedAt,
	}
	if b.CategoryID != nil {
		resp["category_id"] = *b.CategoryID
	}
	return resp
}

// ListBudgets returns the user's budgets with computed usage.
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load budgets")
		return
	}

	// one transaction load shared by every budget's usage computation
	txs, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	items := make([]gin.H, 0, len(budgets))
	for i := range budgets {
		items = append(items, h.budgetResp(&budgets[i], txs))
	}
	util.Success(c, util.Response{"items": items})
}

// GetBudget returns one budget with computed usage.
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	budget, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	txs, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}
	util.Success(c, util.Response{"budget": h.budgetResp(budget, txs)})
}

// CreateBudget creates a budget (category-scoped or overall).
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	amountCents, err := util.ParseAmountCents(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return
	}

	if req.CategoryID != nil {
		var count int64
		if err := h.DB.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *req.CategoryID, user.ID).
			Count(&count).Error; err != nil || count == 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category not found")
			return
		}
	}

	period := req.Period
	if period == "" {
		period = models.PeriodMonthly
	}

	budget := models.Budget{
		UserID:      user.ID,
		CategoryID:  req.CategoryID,
		AmountCents: amountCents,
		Period:      period,
		IsActive:    true,
	}
	if err := h.DB.Create(&budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create budget")
		return
	}

	txs, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}
	util.Success(c, util.Response{"budget": h.budgetResp(&budget, txs)})
}

// UpdateBudget applies a partial update.
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	budget, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	var req budgetPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Amount != nil {
		amountCents, err := util.ParseAmountCents(*req.Amount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
			return
		}
		budget.AmountCents = amountCents
	}
	if req.Period != nil {
		switch *req.Period {
		case models.PeriodWeekly, models.PeriodMonthly, models.PeriodYearly:
			budget.Period = *req.Period
		default:
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid period")
			return
		}
	}
	if req.CategoryID != nil {
		var count int64
		if err := h.DB.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *req.CategoryID, user.ID).
			Count(&count).Error; err != nil || count == 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category not found")
			return
		}
		budget.CategoryID = req.CategoryID
	}
	if req.IsActive != nil {
		budget.IsActive = *req.IsActive
	}

	if err := h.DB.Save(budget).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update budget")
		return
	}

	txs, err := h.loadTransactions(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}
	util.Success(c, util.Response{"budget": h.budgetResp(budget, txs)})
}

// DeleteBudget removes the budget.
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.DB.
		Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.Budget{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete budget")
		return
	}

	util.Success(c, util.Response{"message": "budget deleted"})
}

func (h *BudgetHandler) loadTransactions(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := h.DB.Where("user_id = ?", userID).Find(&txs).Error
	return txs, err
}

func (h *BudgetHandler) findOwned(c *gin.Context, userID uint) (*models.Budget, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return nil, false
	}

	var budget models.Budget
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "budget not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load budget")
		}
		return nil, false
	}
	return &budget, true
}
