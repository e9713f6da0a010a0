package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"finance-manager/internal/database"
	"finance-manager/internal/middleware"
	"finance-manager/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:           username,
		PasswordHash:       "x",
		SecurityPhraseHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

func createTestAccount(t *testing.T, db *gorm.DB, userID uint, name string, balanceCents int64) *models.Account {
	t.Helper()
	acc := models.Account{
		UserID:       userID,
		Name:         name,
		Type:         models.AccountChecking,
		BalanceCents: balanceCents,
		IsActive:     true,
	}
	if err := db.Create(&acc).Error; err != nil {
		t.Fatalf("create test account: %v", err)
	}
	return &acc
}

func createTestCategory(t *testing.T, db *gorm.DB, userID uint, name, typ string) *models.Category {
	t.Helper()
	cat := models.Category{
		UserID:   userID,
		Name:     name,
		Type:     typ,
		Color:    "#ef4444",
		IsActive: true,
	}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return &cat
}

// testContext builds a gin context with an optional JSON body and the user
// already authenticated, skipping the JWT middleware.
func testContext(t *testing.T, user *models.User, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if user != nil {
		c.Set(middleware.CurrentUserKey, user)
	}
	return c, w
}

func withParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// decodeEnvelope unmarshals the uniform response envelope.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (code float64, data map[string]interface{}) {
	t.Helper()
	var env map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	code, _ = env["code"].(float64)
	data, _ = env["data"].(map[string]interface{})
	return code, data
}

func accountBalance(t *testing.T, db *gorm.DB, id uint) int64 {
	t.Helper()
	var acc models.Account
	if err := db.First(&acc, id).Error; err != nil {
		t.Fatalf("load account %d: %v", id, err)
	}
	return acc.BalanceCents
}
