package handler

import (
	"net/http"
	"strconv"
	"strings"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler owns the category CRUD endpoints.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name  string `json:"name" binding:"required,max=64"`
	Type  string `json:"type" binding:"required,oneof=income expense"`
	Color string `json:"color" binding:"max=16"`
}

type categoryPatchReq struct {
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	IsActive *bool   `json:"is_active"`
}

// ListCategories returns the user's categories, optionally filtered by type.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	q := h.DB.Where("user_id = ?", user.ID)
	if t := c.Query("type"); t == models.TypeIncome || t == models.TypeExpense {
		q = q.Where("type = ?", t)
	}

	var categories []models.Category
	if err := q.Order("is_active DESC, name ASC").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load categories")
		return
	}

	util.Success(c, util.Response{"items": categories})
}

// GetCategory returns one category scoped to the user.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	category, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}
	util.Success(c, util.Response{"category": category})
}

// CreateCategory creates a category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name is required")
		return
	}

	category := models.Category{
		UserID:   user.ID,
		Name:     req.Name,
		Type:     req.Type,
		Color:    req.Color,
		IsActive: true,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create category")
		return
	}

	util.Success(c, util.Response{"category": category})
}

// UpdateCategory applies a partial update. Type is immutable once created;
// existing transactions depend on it.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	category, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	var req categoryPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := util.ValidateName(name); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid name")
			return
		}
		category.Name = name
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := h.DB.Save(category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update category")
		return
	}

	util.Success(c, util.Response{"category": category})
}

// DeleteCategory soft-deletes the category; transactions keep pointing at it.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	category, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	if err := h.DB.Model(category).Update("is_active", false).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete category")
		return
	}

	util.Success(c, util.Response{"message": "category archived"})
}

func (h *CategoryHandler) findOwned(c *gin.Context, userID uint) (*models.Category, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return nil, false
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load category")
		}
		return nil, false
	}
	return &category, true
}
