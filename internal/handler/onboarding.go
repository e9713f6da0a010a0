package handler

import (
	"net/http"

	"finance-manager/internal/middleware"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CompleteOnboarding marks the onboarding wizard as finished for the user.
func CompleteOnboarding(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			return
		}

		if err := db.Model(user).Update("onboarding_done", true).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update user")
			return
		}
		user.OnboardingDone = true

		util.Success(c, util.Response{"message": "onboarding completed"})
	}
}
