package models

import "time"

// AiPrediction is a stored month-level income/expense forecast row.
// The predictor itself lives outside this service; rows are only listed
// (and fabricated by the demo data seeder).
type AiPrediction struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UserID                uint      `gorm:"index;not null" json:"user_id"`
	Month                 string    `gorm:"size:8;not null" json:"month"` // YYYY-MM
	PredictedIncomeCents  int64     `json:"predicted_income_cents"`
	PredictedExpenseCents int64     `json:"predicted_expense_cents"`
	Confidence            float64   `json:"confidence"` // 0..1
	GeneratedAt           time.Time `json:"generated_at"`
	CreatedAt             time.Time `json:"created_at"`
}
