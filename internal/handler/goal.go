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

// GoalHandler owns the financial goal CRUD endpoints.
type GoalHandler struct {
	DB *gorm.DB
}

func NewGoalHandler(db *gorm.DB) *GoalHandler {
	return &GoalHandler{DB: db}
}

type goalReq struct {
	Name          string `json:"name" binding:"required,max=64"`
	Target        string `json:"target" binding:"required"`
	Current       string `json:"current"`
	MonthlyTarget string `json:"monthly_target"`
	TargetDate    string `json:"target_date"`
}

type goalPatchReq struct {
	Name          *string `json:"name"`
	Target        *string `json:"target"`
	Current       *string `json:"current"`
	MonthlyTarget *string `json:"monthly_target"`
	TargetDate    *string `json:"target_date"`
	IsActive      *bool   `json:"is_active"`
}

func goalResp(g *models.FinancialGoal) gin.H {
	var progress float64
	if g.TargetCents > 0 {
		progress = float64(g.CurrentCents) / float64(g.TargetCents) * 100
	}
	resp := gin.H{
		"id":                   g.ID,
		"name":                 g.Name,
		"target_cents":         g.TargetCents,
		"target":               util.FormatCents(g.TargetCents),
		"current_cents":        g.CurrentCents,
		"current":              util.FormatCents(g.CurrentCents),
		"monthly_target_cents": g.MonthlyTargetCents,
		"monthly_target":       util.FormatCents(g.MonthlyTargetCents),
		"progress":             progress,
		"is_active":            g.IsActive,
		"created_at":           g.CreatedAt,
	}
	if g.TargetDate != nil {
		resp["target_date"] = g.TargetDate.Format("2006-01-02")
	}
	return resp
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var goals []models.FinancialGoal
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load goals")
		return
	}

	items := make([]gin.H, 0, len(goals))
	for i := range goals {
		items = append(items, goalResp(&goals[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *GoalHandler) GetGoal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	goal, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}
	util.Success(c, util.Response{"goal": goalResp(goal)})
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	targetCents, err := util.ParseAmountCents(req.Target)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid target amount")
		return
	}

	goal := models.FinancialGoal{
		UserID:      user.ID,
		Name:        req.Name,
		TargetCents: targetCents,
		IsActive:    true,
	}

	if req.Current != "" {
		v, err := util.ParseSignedCents(req.Current)
		if err != nil || v < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid current amount")
			return
		}
		goal.CurrentCents = v
	}
	if req.MonthlyTarget != "" {
		v, err := util.ParseAmountCents(req.MonthlyTarget)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid monthly target")
			return
		}
		goal.MonthlyTargetCents = v
	}
	if req.TargetDate != "" {
		t, ok := parseFlexibleDate(req.TargetDate)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid target date")
			return
		}
		goal.TargetDate = &t
	}

	if err := h.DB.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create goal")
		return
	}

	util.Success(c, util.Response{"goal": goalResp(&goal)})
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	goal, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	var req goalPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Name != nil {
		if err := util.ValidateName(*req.Name); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid name")
			return
		}
		goal.Name = *req.Name
	}
	if req.Target != nil {
		v, err := util.ParseAmountCents(*req.Target)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid target amount")
			return
		}
		goal.TargetCents = v
	}
	if req.Current != nil {
		v, err := util.ParseSignedCents(*req.Current)
		if err != nil || v < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid current amount")
			return
		}
		goal.CurrentCents = v
	}
	if req.MonthlyTarget != nil {
		v, err := util.ParseAmountCents(*req.MonthlyTarget)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid monthly target")
			return
		}
		goal.MonthlyTargetCents = v
	}
	if req.TargetDate != nil {
		if *req.TargetDate == "" {
			goal.TargetDate = nil
		} else {
			t, ok := parseFlexibleDate(*req.TargetDate)
			if !ok {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid target date")
				return
			}
			goal.TargetDate = &t
		}
	}
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}

	if err := h.DB.Save(goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update goal")
		return
	}

	util.Success(c, util.Response{"goal": goalResp(goal)})
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
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
		Delete(&models.FinancialGoal{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete goal")
		return
	}

	util.Success(c, util.Response{"message": "goal deleted"})
}

func (h *GoalHandler) findOwned(c *gin.Context, userID uint) (*models.FinancialGoal, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return nil, false
	}

	var goal models.FinancialGoal
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "goal not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load goal")
		}
		return nil, false
	}
	return &goal, true
}
