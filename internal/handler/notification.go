package handler

import (
	"net/http"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotificationHandler persists per-notification read/dismiss flags. The
// notifications themselves are synthesized client-side from the user's data;
// only state keyed by the deterministic notification id lives here.
type NotificationHandler struct {
	DB *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

type notificationStateReq struct {
	NotificationID string `json:"notification_id" binding:"required,max=128"`
	IsRead         *bool  `json:"is_read"`
	IsDismissed    *bool  `json:"is_dismissed"`
}

// ListStates returns every stored state row for the user.
func (h *NotificationHandler) ListStates(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var states []models.NotificationState
	if err := h.DB.Where("user_id = ?", user.ID).Find(&states).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load notification states")
		return
	}

	util.Success(c, util.Response{"items": states})
}

// UpsertState creates or updates the state row for a notification id.
func (h *NotificationHandler) UpsertState(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req notificationStateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	state, err := h.findOrCreate(user.ID, req.NotificationID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save notification state")
		return
	}

	if req.IsRead != nil {
		state.IsRead = *req.IsRead
	}
	if req.IsDismissed != nil {
		state.IsDismissed = *req.IsDismissed
	}
	if err := h.DB.Save(state).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save notification state")
		return
	}

	util.Success(c, util.Response{"state": state})
}

// MarkRead flags one notification id as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.setFlag(c, "is_read")
}

// Dismiss flags one notification id as dismissed. The content is regenerated
// client-side, so dismissal only sticks while the id stays deterministic for
// the underlying event.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	h.setFlag(c, "is_dismissed")
}

func (h *NotificationHandler) setFlag(c *gin.Context, column string) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	notificationID := c.Param("id")
	if notificationID == "" || len(notificationID) > 128 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid notification id")
		return
	}

	state, err := h.findOrCreate(user.ID, notificationID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save notification state")
		return
	}

	if err := h.DB.Model(state).Update(column, true).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save notification state")
		return
	}

	util.Success(c, util.Response{"state": state})
}

// MarkAllRead flags every stored state row as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	if err := h.DB.Model(&models.NotificationState{}).
		Where("user_id = ?", user.ID).
		Update("is_read", true).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update notification states")
		return
	}

	util.Success(c, util.Response{"message": "all notifications marked read"})
}

func (h *NotificationHandler) findOrCreate(userID uint, notificationID string) (*models.NotificationState, error) {
	var state models.NotificationState
	err := h.DB.Where("user_id = ? AND notification_id = ?", userID, notificationID).
		First(&state).Error
	if err == gorm.ErrRecordNotFound {
		state = models.NotificationState{UserID: userID, NotificationID: notificationID}
		if err := h.DB.Create(&state).Error; err != nil {
			return nil, err
		}
		return &state, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}
