package middleware

import (
	"net/http"
	"strings"
	"time"

	"finance-manager/internal/models"
	"finance-manager/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// context key for the authenticated user
const CurrentUserKey = "currentUser"

// RequireAuth validates the JWT, checks the backing session has not been
// revoked, and puts the current user into the context.
func RequireAuth(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) query parameter ?token=xxx (downloads cannot set headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		// 3) cookie fallback
		if tokenStr == "" {
			if cookie, err := c.Cookie("pfm_token"); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		// session revocation check (logout invalidates the token)
		if claims.SessionID != "" {
			var session models.Session
			if err := db.First(&session, "id = ?", claims.SessionID).Error; err != nil {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
				c.Abort()
				return
			}
			if session.Revoked || session.ExpiresAt.Before(time.Now()) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
				c.Abort()
				return
			}
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "user not found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
			}
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
