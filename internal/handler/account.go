package handler

import (
	"net/http"
	"strconv"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler owns the account CRUD endpoints.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{DB: db}
}

type accountReq struct {
	Name        string  `json:"name" binding:"required,max=64"`
	Type        string  `json:"type" binding:"required,oneof=checking savings investment credit_card"`
	Balance     string  `json:"balance"`
	CreditLimit *string `json:"credit_limit"`
	ClosingDay  *int    `json:"closing_day"`
	DueDay      *int    `json:"due_day"`
	Color       string  `json:"color" binding:"max=16"`
}

type accountPatchReq struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	CreditLimit *string `json:"credit_limit"`
	ClosingDay  *int    `json:"closing_day"`
	DueDay      *int    `json:"due_day"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"is_active"`
}

func accountResp(a *models.Account) gin.H {
	resp := gin.H{
		"id":            a.ID,
		"name":          a.Name,
		"type":          a.Type,
		"balance_cents": a.BalanceCents,
		"balance":       util.FormatCents(a.BalanceCents),
		"color":         a.Color,
		"is_active":     a.IsActive,
		"created_at":    a.CreatedAt,
	}
	if a.CreditLimitCents != nil {
		resp["credit_limit_cents"] = *a.CreditLimitCents
		resp["credit_limit"] = util.FormatCents(*a.CreditLimitCents)
	}
	if a.ClosingDay != nil {
		resp["closing_day"] = *a.ClosingDay
	}
	if a.DueDay != nil {
		resp["due_day"] = *a.DueDay
	}
	return resp
}

// ListAccounts returns the user's accounts, active ones first.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("is_active DESC, name ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load accounts")
		return
	}

	items := make([]gin.H, 0, len(accounts))
	for i := range accounts {
		items = append(items, accountResp(&accounts[i]))
	}
	util.Success(c, util.Response{"items": items})
}

// GetAccount returns one account scoped to the user.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	account, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}
	util.Success(c, util.Response{"account": accountResp(account)})
}

// CreateAccount creates an account; balance defaults to zero.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var balanceCents int64
	if req.Balance != "" {
		v, err := util.ParseSignedCents(req.Balance)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid balance")
			return
		}
		balanceCents = v
	}

	account := models.Account{
		UserID:       user.ID,
		Name:         req.Name,
		Type:         req.Type,
		BalanceCents: balanceCents,
		Color:        req.Color,
		IsActive:     true,
	}

	if req.CreditLimit != nil {
		v, err := util.ParseSignedCents(*req.CreditLimit)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid credit limit")
			return
		}
		account.CreditLimitCents = &v
	}
	if req.ClosingDay != nil {
		if err := util.ValidateDayOfMonth(*req.ClosingDay); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid closing day")
			return
		}
		account.ClosingDay = req.ClosingDay
	}
	if req.DueDay != nil {
		if err := util.ValidateDayOfMonth(*req.DueDay); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due day")
			return
		}
		account.DueDay = req.DueDay
	}

	if err := h.DB.Create(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create account")
		return
	}

	util.Success(c, util.Response{"account": accountResp(&account)})
}

// UpdateAccount applies a partial update. The cached balance is not
// editable here; it only moves with transaction creation.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	account, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	var req accountPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Name != nil {
		if err := util.ValidateName(*req.Name); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid name")
			return
		}
		account.Name = *req.Name
	}
	if req.Type != nil {
		switch *req.Type {
		case models.AccountChecking, models.AccountSavings, models.AccountInvestment, models.AccountCreditCard:
			account.Type = *req.Type
		default:
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid account type")
			return
		}
	}
	if req.CreditLimit != nil {
		v, err := util.ParseSignedCents(*req.CreditLimit)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid credit limit")
			return
		}
		account.CreditLimitCents = &v
	}
	if req.ClosingDay != nil {
		if err := util.ValidateDayOfMonth(*req.ClosingDay); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid closing day")
			return
		}
		account.ClosingDay = req.ClosingDay
	}
	if req.DueDay != nil {
		if err := util.ValidateDayOfMonth(*req.DueDay); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid due day")
			return
		}
		account.DueDay = req.DueDay
	}
	if req.Color != nil {
		account.Color = *req.Color
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := h.DB.Save(account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update account")
		return
	}

	util.Success(c, util.Response{"account": accountResp(account)})
}

// DeleteAccount soft-deletes (archives) the account.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	account, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	if err := h.DB.Model(account).Update("is_active", false).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete account")
		return
	}

	util.Success(c, util.Response{"message": "account archived"})
}

// findOwned loads the :id account for the user, writing the error response
// itself when it fails.
func (h *AccountHandler) findOwned(c *gin.Context, userID uint) (*models.Account, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return nil, false
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load account")
		}
		return nil, false
	}
	return &account, true
}
