package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"finance-manager/internal/middleware"
	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler owns the login/register/reset endpoints.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

// ---------- register ----------

type registerReq struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	SecurityPhrase  string `json:"security_phrase" binding:"required,min=4,max=128"`
	DisplayName     string `json:"display_name" binding:"max=64"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username must be 3-20 letters, digits or underscores")
		return
	}

	if !isStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be 8-32 characters with upper, lower and digit")
		return
	}

	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "passwords do not match")
		return
	}

	// case-insensitive uniqueness
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check username")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}
	phraseHash, err := bcrypt.GenerateFromPassword([]byte(normalizePhrase(req.SecurityPhrase)), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash security phrase")
		return
	}

	user := models.User{
		Username:           req.Username,
		PasswordHash:       string(hash),
		SecurityPhraseHash: string(phraseHash),
		DisplayName:        req.DisplayName,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}

	util.Success(c, util.Response{
		"message": "registered",
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
		},
	})
}

// password policy: 8-32 characters with upper, lower and digit
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// security phrases are matched case- and whitespace-insensitively
func normalizePhrase(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	var user models.User
	if err := h.DB.Where("LOWER(username) = LOWER(?)", req.Username).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		}
		return
	}

	now := time.Now()

	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "account locked, try again later")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		// wrong password: 5 consecutive failures lock the account for 10 minutes
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= 5 {
			lockUntil := now.Add(10 * time.Minute)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		_ = h.DB.Save(&user).Error
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username or password")
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = c.ClientIP()
	user.LastLoginAt = &now
	_ = h.DB.Save(&user).Error

	session := models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(h.TokenTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create session")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, session.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to generate token")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":              user.ID,
			"username":        user.Username,
			"display_name":    user.DisplayName,
			"onboarding_done": user.OnboardingDone,
		},
	})
}

// ---------- logout ----------

// Logout revokes the session backing the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	// same extraction order as the auth middleware: header, query, cookie
	var tokenStr string
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		tokenStr = parts[1]
	}
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}
	if tokenStr == "" {
		if cookie, err := c.Cookie("pfm_token"); err == nil {
			tokenStr = cookie
		}
	}

	claims, err := util.ParseToken(h.JWTSecret, tokenStr)
	if err != nil || claims.SessionID == "" {
		// token already unusable; nothing to revoke
		util.Success(c, util.Response{"message": "logged out"})
		return
	}

	if err := h.DB.Model(&models.Session{}).
		Where("id = ? AND user_id = ?", claims.SessionID, user.ID).
		Update("revoked", true).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to revoke session")
		return
	}

	util.Success(c, util.Response{"message": "logged out"})
}

// ---------- reset password ----------

type resetPasswordReq struct {
	Username       string `json:"username" binding:"required"`
	SecurityPhrase string `json:"security_phrase" binding:"required"`
	NewPassword    string `json:"new_password" binding:"required"`
}

// ResetPassword sets a new password when the security phrase matches.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if !isStrongPassword(req.NewPassword) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be 8-32 characters with upper, lower and digit")
		return
	}

	var user models.User
	if err := h.DB.Where("LOWER(username) = LOWER(?)", strings.TrimSpace(req.Username)).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username or security phrase")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SecurityPhraseHash), []byte(normalizePhrase(req.SecurityPhrase))); err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username or security phrase")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	if err := h.DB.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update password")
		return
	}

	// force re-login everywhere
	_ = h.DB.Model(&models.Session{}).
		Where("user_id = ?", user.ID).
		Update("revoked", true).Error

	util.Success(c, util.Response{"message": "password reset, please log in"})
}

// ---------- me ----------

// GetMe returns the current authenticated user.
func GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":              user.ID,
			"username":        user.Username,
			"display_name":    user.DisplayName,
			"onboarding_done": user.OnboardingDone,
			"created_at":      user.CreatedAt,
		},
	})
}
