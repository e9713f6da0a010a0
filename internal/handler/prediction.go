package handler

import (
	"net/http"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListPredictions returns the stored forecast rows, newest month first.
// The predictor that produces them is not part of this service.
func ListPredictions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			return
		}

		var predictions []models.AiPrediction
		if err := db.Where("user_id = ?", user.ID).
			Order("month DESC").
			Find(&predictions).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load predictions")
			return
		}

		items := make([]gin.H, 0, len(predictions))
		for i := range predictions {
			p := &predictions[i]
			items = append(items, gin.H{
				"id":                      p.ID,
				"month":                   p.Month,
				"predicted_income_cents":  p.PredictedIncomeCents,
				"predicted_income":        util.FormatCents(p.PredictedIncomeCents),
				"predicted_expense_cents": p.PredictedExpenseCents,
				"predicted_expense":       util.FormatCents(p.PredictedExpenseCents),
				"confidence":              p.Confidence,
				"generated_at":            p.GeneratedAt,
			})
		}

		util.Success(c, util.Response{"items": items})
	}
}
