package router

import (
	"finance-manager/internal/config"
	"finance-manager/internal/handler"
	"finance-manager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the full API surface.
func SetupRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	// everything below requires a valid, unrevoked session
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg.JWT.Secret, db))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", handler.GetMe)

	accountHandler := handler.NewAccountHandler(db)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.GET("/accounts/:id", accountHandler.GetAccount)
	protected.PUT("/accounts/:id", accountHandler.UpdateAccount)
	protected.PATCH("/accounts/:id", accountHandler.UpdateAccount)
	protected.DELETE("/accounts/:id", accountHandler.DeleteAccount)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.GET("/categories/:id", categoryHandler.GetCategory)
	protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	transactionHandler := handler.NewTransactionHandler(db)
	protected.GET("/transactions", transactionHandler.ListTransactions)
	protected.POST("/transactions", transactionHandler.CreateTransaction)
	protected.GET("/transactions/liquid-amount", transactionHandler.LiquidAmount)
	protected.GET("/transactions/:id", transactionHandler.GetTransaction)
	protected.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	budgetHandler := handler.NewBudgetHandler(db)
	protected.GET("/budgets", budgetHandler.ListBudgets)
	protected.POST("/budgets", budgetHandler.CreateBudget)
	protected.GET("/budgets/:id", budgetHandler.GetBudget)
	protected.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	protected.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	investmentHandler := handler.NewInvestmentHandler(db)
	protected.GET("/investments", investmentHandler.ListInvestments)
	protected.POST("/investments", investmentHandler.CreateInvestment)
	protected.GET("/investments/:id", investmentHandler.GetInvestment)
	protected.PUT("/investments/:id", investmentHandler.UpdateInvestment)
	protected.DELETE("/investments/:id", investmentHandler.DeleteInvestment)

	goalHandler := handler.NewGoalHandler(db)
	protected.GET("/financial-goals", goalHandler.ListGoals)
	protected.POST("/financial-goals", goalHandler.CreateGoal)
	protected.GET("/financial-goals/:id", goalHandler.GetGoal)
	protected.PUT("/financial-goals/:id", goalHandler.UpdateGoal)
	protected.DELETE("/financial-goals/:id", goalHandler.DeleteGoal)

	dashboardHandler := handler.NewDashboardHandler(db)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)
	protected.POST("/dashboard/filtered", dashboardHandler.GetFilteredDashboard)

	protected.GET("/ai-predictions", handler.ListPredictions(db))

	notificationHandler := handler.NewNotificationHandler(db)
	protected.GET("/notification-states", notificationHandler.ListStates)
	protected.POST("/notification-states", notificationHandler.UpsertState)
	protected.POST("/notification-states/mark-all-read", notificationHandler.MarkAllRead)
	protected.POST("/notification-states/:id/read", notificationHandler.MarkRead)
	protected.POST("/notification-states/:id/dismiss", notificationHandler.Dismiss)

	settingsHandler := handler.NewSettingsHandler(db)
	protected.POST("/settings/generate-data", settingsHandler.GenerateData)
	protected.DELETE("/settings/clear-data", settingsHandler.ClearData)
	protected.GET("/settings/backup", settingsHandler.ExportBackup)
	protected.POST("/settings/import", settingsHandler.ImportBackup)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	protected.POST("/onboarding/complete", handler.CompleteOnboarding(db))

	return r
}
