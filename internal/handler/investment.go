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

// InvestmentHandler owns the investment CRUD endpoints.
type InvestmentHandler struct {
	DB *gorm.DB
}

func NewInvestmentHandler(db *gorm.DB) *InvestmentHandler {
	return &InvestmentHandler{DB: db}
}

type investmentReq struct {
	Name          string `json:"name" binding:"required,max=64"`
	Type          string `json:"type" binding:"max=32"`
	InitialAmount string `json:"initial_amount" binding:"required"`
	CurrentAmount string `json:"current_amount"`
	PurchaseDate  string `json:"purchase_date"`
}

type investmentPatchReq struct {
	Name          *string `json:"name"`
	Type          *string `json:"type"`
	CurrentAmount *string `json:"current_amount"`
	PurchaseDate  *string `json:"purchase_date"`
}

func investmentResp(inv *models.Investment) gin.H {
	return gin.H{
		"id":                   inv.ID,
		"name":                 inv.Name,
		"type":                 inv.Type,
		"initial_amount_cents": inv.InitialAmountCents,
		"initial_amount":       util.FormatCents(inv.InitialAmountCents),
		"current_amount_cents": inv.CurrentAmountCents,
		"current_amount":       util.FormatCents(inv.CurrentAmountCents),
		"gain_cents":           inv.CurrentAmountCents - inv.InitialAmountCents,
		"purchase_date":        inv.PurchaseDate.Format("2006-01-02"),
		"created_at":           inv.CreatedAt,
	}
}

func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var investments []models.Investment
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("purchase_date DESC").
		Find(&investments).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load investments")
		return
	}

	items := make([]gin.H, 0, len(investments))
	for i := range investments {
		items = append(items, investmentResp(&investments[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	inv, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}
	util.Success(c, util.Response{"investment": investmentResp(inv)})
}

func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req investmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	initialCents, err := util.ParseAmountCents(req.InitialAmount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid initial amount")
		return
	}

	currentCents := initialCents
	if req.CurrentAmount != "" {
		currentCents, err = util.ParseSignedCents(req.CurrentAmount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid current amount")
			return
		}
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != "" {
		t, ok := parseFlexibleDate(req.PurchaseDate)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid purchase date")
			return
		}
		purchaseDate = t
	}

	inv := models.Investment{
		UserID:             user.ID,
		Name:               req.Name,
		Type:               req.Type,
		InitialAmountCents: initialCents,
		CurrentAmountCents: currentCents,
		PurchaseDate:       purchaseDate,
	}
	if err := h.DB.Create(&inv).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create investment")
		return
	}

	util.Success(c, util.Response{"investment": investmentResp(&inv)})
}

func (h *InvestmentHandler) UpdateInvestment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	inv, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	var req investmentPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Name != nil {
		if err := util.ValidateName(*req.Name); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid name")
			return
		}
		inv.Name = *req.Name
	}
	if req.Type != nil {
		inv.Type = *req.Type
	}
	if req.CurrentAmount != nil {
		v, err := util.ParseSignedCents(*req.CurrentAmount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid current amount")
			return
		}
		inv.CurrentAmountCents = v
	}
	if req.PurchaseDate != nil {
		t, ok := parseFlexibleDate(*req.PurchaseDate)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid purchase date")
			return
		}
		inv.PurchaseDate = t
	}

	if err := h.DB.Save(inv).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update investment")
		return
	}

	util.Success(c, util.Response{"investment": investmentResp(inv)})
}

func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
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
		Delete(&models.Investment{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete investment")
		return
	}

	util.Success(c, util.Response{"message": "investment deleted"})
}

func (h *InvestmentHandler) findOwned(c *gin.Context, userID uint) (*models.Investment, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return nil, false
	}

	var inv models.Investment
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "investment not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load investment")
		}
		return nil, false
	}
	return &inv, true
}
