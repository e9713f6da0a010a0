package database

import (
	"fmt"

	"finance-manager/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.Investment{},
		&models.FinancialGoal{},
		&models.AiPrediction{},
		&models.NotificationState{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
