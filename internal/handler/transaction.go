package handler

import (
	"net/http"
	"strconv"
	"time"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler owns the transaction CRUD endpoints.
type TransactionHandler struct {
	DB *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{DB: db}
}

const maxPageSize = 100

type createTransactionReq struct {
	AccountID   uint   `json:"account_id" binding:"required"`
	CategoryID  *uint  `json:"category_id"`
	Type        string `json:"type" binding:"required,oneof=income expense"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"max=255"`
	Date        string `json:"date"`
	DueDate     string `json:"due_date"`
	IsPaid      *bool  `json:"is_paid"`
}

type updateTransactionReq struct {
	CategoryID  *uint   `json:"category_id"`
	Type        *string `json:"type"`
	Amount      *string `json:"amount"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	DueDate     *string `json:"due_date"`
	IsPaid      *bool   `json:"is_paid"`
}

func transactionResp(tx *models.Transaction) gin.H {
	resp := gin.H{
		"id":           tx.ID,
		"account_id":   tx.AccountID,
		"type":         tx.Type,
		"amount_cents": tx.AmountCents,
		"amount":       util.FormatCents(tx.AmountCents),
		"description":  tx.Description,
		"date":         tx.Date.Format("2006-01-02"),
		"is_paid":      tx.IsPaid,
		"created_at":   tx.CreatedAt,
	}
	if tx.CategoryID != nil {
		resp["category_id"] = *tx.CategoryID
	}
	if tx.Category != nil {
		resp["category_name"] = tx.Category.Name
		resp["category_color"] = tx.Category.Color
	}
	if tx.DueDate != nil {
		resp["due_date"] = tx.DueDate.Format("2006-01-02")
	}
	return resp
}

// parseFlexibleDate accepts the formats the SPA sends.
func parseFlexibleDate(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339,          // 2025-12-03T00:00:00-03:00
		"2006-01-02T15:04:05", // 2025-12-03T00:00:00
		"2006-01-02",          // 2025-12-03
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreateTransaction records a movement and adjusts the linked account's
// cached balance (income adds, expense subtracts). The balance adjustment
// happens only on create; update and delete leave it untouched.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	amountCents, err := util.ParseAmountCents(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
		return
	}

	// the account must belong to the user
	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", req.AccountID, user.ID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load account")
		}
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

	date := time.Now()
	if req.Date != "" {
		t, ok := parseFlexibleDate(req.Date)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date")
			return
		}
		date = t
	}

	tx := models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		AmountCents: amountCents,
		Description: req.Description,
		Date:        date,
		IsPaid:      true,
	}
	if req.IsPaid != nil {
		tx.IsPaid = *req.IsPaid
	}
	if req.DueDate != "" {
		t, ok := parseFlexibleDate(req.DueDate)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due date")
			return
		}
		tx.DueDate = &t
	}

	if err := h.DB.Create(&tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save transaction")
		return
	}

	// cached balance adjustment
	delta := amountCents
	if tx.Type == models.TypeExpense {
		delta = -amountCents
	}
	if err := h.DB.Model(&account).
		Update("balance_cents", gorm.Expr("balance_cents + ?", delta)).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update account balance")
		return
	}

	util.Success(c, util.Response{"transaction": transactionResp(&tx)})
}

// ListTransactions pages through the user's transactions, newest first.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	limit := util.AtoiDefault(c.DefaultQuery("limit", "20"), 20)
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset := util.AtoiDefault(c.DefaultQuery("offset", "0"), 0)
	if offset < 0 {
		offset = 0
	}

	base := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	if startStr := c.Query("startDate"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid startDate, want YYYY-MM-DD")
			return
		}
		base = base.Where("date >= ?", start)
	}
	if endStr := c.Query("endDate"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid endDate, want YYYY-MM-DD")
			return
		}
		// inclusive end: anything before the next day
		base = base.Where("date < ?", end.Add(24*time.Hour))
	}
	if accStr := c.Query("accountId"); accStr != "" {
		base = base.Where("account_id = ?", util.AtoiDefault(accStr, 0))
	}
	if catStr := c.Query("categoryId"); catStr != "" {
		base = base.Where("category_id = ?", util.AtoiDefault(catStr, 0))
	}
	if t := c.Query("type"); t == models.TypeIncome || t == models.TypeExpense {
		base = base.Where("type = ?", t)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to count transactions")
		return
	}

	var txs []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Preload("Category").
		Order("date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	items := make([]gin.H, 0, len(txs))
	for i := range txs {
		items = append(items, transactionResp(&txs[i]))
	}

	util.Success(c, util.Response{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetTransaction returns one transaction scoped to the user.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	tx, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}
	util.Success(c, util.Response{"transaction": transactionResp(tx)})
}

// UpdateTransaction applies a partial update. The account's cached balance
// is intentionally not recomputed here; see CreateTransaction.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	tx, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Type != nil {
		if *req.Type != models.TypeIncome && *req.Type != models.TypeExpense {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid type")
			return
		}
		tx.Type = *req.Type
	}
	if req.Amount != nil {
		amountCents, err := util.ParseAmountCents(*req.Amount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid amount")
			return
		}
		tx.AmountCents = amountCents
	}
	if req.CategoryID != nil {
		var count int64
		if err := h.DB.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *req.CategoryID, user.ID).
			Count(&count).Error; err != nil || count == 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category not found")
			return
		}
		tx.CategoryID = req.CategoryID
	}
	if req.Description != nil {
		tx.Description = *req.Description
	}
	if req.Date != nil {
		t, ok := parseFlexibleDate(*req.Date)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date")
			return
		}
		tx.Date = t
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			tx.DueDate = nil
		} else {
			t, ok := parseFlexibleDate(*req.DueDate)
			if !ok {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due date")
				return
			}
			tx.DueDate = &t
		}
	}
	if req.IsPaid != nil {
		tx.IsPaid = *req.IsPaid
	}

	if err := h.DB.Save(tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save transaction")
		return
	}

	util.Success(c, util.Response{"transaction": transactionResp(tx)})
}

// DeleteTransaction removes the row. The account's cached balance is
// intentionally not adjusted; see CreateTransaction.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
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
		Delete(&models.Transaction{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete transaction")
		return
	}

	util.Success(c, util.Response{"message": "transaction deleted"})
}

// LiquidAmount returns the net flow (income minus expense) over a date range.
func (h *TransactionHandler) LiquidAmount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	base := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	if startStr := c.Query("startDate"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid startDate, want YYYY-MM-DD")
			return
		}
		base = base.Where("date >= ?", start)
	}
	if endStr := c.Query("endDate"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid endDate, want YYYY-MM-DD")
			return
		}
		base = base.Where("date < ?", end.Add(24*time.Hour))
	}

	var txs []models.Transaction
	if err := base.Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	var net int64
	for i := range txs {
		if txs[i].Type == models.TypeIncome {
			net += txs[i].AmountCents
		} else {
			net -= txs[i].AmountCents
		}
	}

	util.Success(c, util.Response{
		"liquid_amount_cents": net,
		"liquid_amount":       util.FormatCents(net),
	})
}

func (h *TransactionHandler) findOwned(c *gin.Context, userID uint) (*models.Transaction, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return nil, false
	}

	var tx models.Transaction
	if err := h.DB.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		}
		return nil, false
	}
	return &tx, true
}
