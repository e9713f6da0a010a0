package handler

import (
	"net/http"
	"testing"

	"finance-manager/internal/models"
	"finance-manager/internal/util"
)

const testJWTSecret = "test-secret"

func registerBody(username string) map[string]interface{} {
	return map[string]interface{}{
		"username":         username,
		"password":         "Passw0rd1",
		"confirm_password": "Passw0rd1",
		"security_phrase":  "primeiro carro fusca azul",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	h := NewAuthHandler(db, testJWTSecret, 24, 4)

	c, w := testContext(t, nil, "POST", "/api/auth/register", registerBody("alice"))
	h.Register(c)
	if w.Code != http.StatusOK {
		t.Fatalf("register: status = %d, body = %s", w.Code, w.Body.String())
	}

	c, w = testContext(t, nil, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "Passw0rd1",
	})
	h.Login(c)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", w.Code, w.Body.String())
	}
	_, data := decodeEnvelope(t, w)
	if data["token"] == nil || data["token"] == "" {
		t.Error("login response missing token")
	}

	var sessions int64
	db.Model(&models.Session{}).Count(&sessions)
	if sessions != 1 {
		t.Errorf("sessions = %d, want 1", sessions)
	}

	// username matching is case-insensitive
	c, w = testContext(t, nil, "POST", "/api/auth/login", map[string]string{
		"username": "ALICE",
		"password": "Passw0rd1",
	})
	h.Login(c)
	if w.Code != http.StatusOK {
		t.Errorf("case-insensitive login: status = %d", w.Code)
	}
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	db := openTestDB(t)
	h := NewAuthHandler(db, testJWTSecret, 24, 4)

	cases := []map[string]interface{}{
		{"username": "ab", "password": "Passw0rd1", "confirm_password": "Passw0rd1", "security_phrase": "frase segura"},
		{"username": "no spaces!", "password": "Passw0rd1", "confirm_password": "Passw0rd1", "security_phrase": "frase segura"},
		{"username": "alice", "password": "short1A", "confirm_password": "short1A", "security_phrase": "frase segura"},
		{"username": "alice", "password": "alllowercase1", "confirm_password": "alllowercase1", "security_phrase": "frase segura"},
		{"username": "alice", "password": "Passw0rd1", "confirm_password": "Different1", "security_phrase": "frase segura"},
		{"username": "alice", "password": "Passw0rd1", "confirm_password": "Passw0rd1", "security_phrase": "abc"},
	}
	for i, body := range cases {
		c, w := testContext(t, nil, "POST", "/api/auth/register", body)
		h.Register(c)
		if w.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, w.Code)
		}
	}
}

func TestRegisterRejectsDuplicateUsernameCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	h := NewAuthHandler(db, testJWTSecret, 24, 4)

	c, w := testContext(t, nil, "POST", "/api/auth/register", registerBody("alice"))
	h.Register(c)
	if w.Code != http.StatusOK {
		t.Fatalf("first register: status = %d", w.Code)
	}

	c, w = testContext(t, nil, "POST", "/api/auth/register", registerBody("Alice"))
	h.Register(c)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: status = %d, want 400", w.Code)
	}
}

func TestLoginLockoutAfterFiveFailures(t *testing.T) {
	db := openTestDB(t)
	h := NewAuthHandler(db, testJWTSecret, 24, 4)

	c, w := testContext(t, nil, "POST", "/api/auth/register", registerBody("alice"))
	h.Register(c)
	if w.Code != http.StatusOK {
		t.Fatalf("register: status = %d", w.Code)
	}

	for i := 0; i < 5; i++ {
		c, w = testContext(t, nil, "POST", "/api/auth/login", map[string]string{
			"username": "alice",
			"password": "WrongPass1",
		})
		h.Login(c)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("failure %d: status = %d, want 401", i+1, w.Code)
		}
	}

	var user models.User
	if err := db.Where("username = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.LockedUntil == nil {
		t.Fatal("user should be locked after five failures")
	}

	// correct password is still refused while locked
	c, w = testContext(t, nil, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "Passw0rd1",
	})
	h.Login(c)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("locked login: status = %d, want 401", w.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	db := openTestDB(t)
	h := NewAuthHandler(db, testJWTSecret, 24, 4)

	c, w := testContext(t, nil, "POST", "/api/auth/register", registerBody("alice"))
	h.Register(c)
	if w.Code != http.StatusOK {
		t.Fatalf("register: status = %d", w.Code)
	}
	var user models.User
	if err := db.Where("username = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}

	login := func() string {
		c, w := testContext(t, nil, "POST", "/api/auth/login", map[string]string{
			"username": "alice",
			"password": "Passw0rd1",
		})
		h.Login(c)
		if w.Code != http.StatusOK {
			t.Fatalf("login: status = %d", w.Code)
		}
		_, data := decodeEnvelope(t, w)
		return data["token"].(string)
	}
	sessionRevoked := func(token string) bool {
		claims, err := util.ParseToken(testJWTSecret, token)
		if err != nil {
			t.Fatalf("parse token: %v", err)
		}
		var session models.Session
		if err := db.First(&session, "id = ?", claims.SessionID).Error; err != nil {
			t.Fatalf("load session: %v", err)
		}
		return session.Revoked
	}

	// the token may arrive by header, query or cookie; logout must revoke
	// the backing session in every case
	token := login()
	c, w = testContext(t, &user, "POST", "/api/auth/logout", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)
	h.Logout(c)
	if w.Code != http.StatusOK || !sessionRevoked(token) {
		t.Errorf("header logout: status = %d, revoked = %v", w.Code, sessionRevoked(token))
	}

	token = login()
	c, w = testContext(t, &user, "POST", "/api/auth/logout?token="+token, nil)
	h.Logout(c)
	if w.Code != http.StatusOK || !sessionRevoked(token) {
		t.Errorf("query logout: status = %d, revoked = %v", w.Code, sessionRevoked(token))
	}

	token = login()
	c, w = testContext(t, &user, "POST", "/api/auth/logout", nil)
	c.Request.AddCookie(&http.Cookie{Name: "pfm_token", Value: token})
	h.Logout(c)
	if w.Code != http.StatusOK || !sessionRevoked(token) {
		t.Errorf("cookie logout: status = %d, revoked = %v", w.Code, sessionRevoked(token))
	}
}

func TestResetPasswordWithSecurityPhrase(t *testing.T) {
	db := openTestDB(t)
	h := NewAuthHandler(db, testJWTSecret, 24, 4)

	c, w := testContext(t, nil, "POST", "/api/auth/register", registerBody("alice"))
	h.Register(c)
	if w.Code != http.StatusOK {
		t.Fatalf("register: status = %d", w.Code)
	}

	// phrase matching ignores case and extra whitespace
	c, w = testContext(t, nil, "POST", "/api/auth/reset-password", map[string]string{
		"username":        "alice",
		"security_phrase": "  Primeiro   CARRO fusca azul ",
		"new_password":    "NovaSenha1",
	})
	h.ResetPassword(c)
	if w.Code != http.StatusOK {
		t.Fatalf("reset: status = %d, body = %s", w.Code, w.Body.String())
	}

	c, w = testContext(t, nil, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "NovaSenha1",
	})
	h.Login(c)
	if w.Code != http.StatusOK {
		t.Errorf("login with new password: status = %d", w.Code)
	}

	c, w = testContext(t, nil, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "Passw0rd1",
	})
	h.Login(c)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login with old password: status = %d, want 401", w.Code)
	}
}

func TestResetPasswordWrongPhrase(t *testing.T) {
	db := openTestDB(t)
	h := NewAuthHandler(db, testJWTSecret, 24, 4)

	c, w := testContext(t, nil, "POST", "/api/auth/register", registerBody("alice"))
	h.Register(c)
	if w.Code != http.StatusOK {
		t.Fatalf("register: status = %d", w.Code)
	}

	c, w = testContext(t, nil, "POST", "/api/auth/reset-password", map[string]string{
		"username":        "alice",
		"security_phrase": "frase errada",
		"new_password":    "NovaSenha1",
	})
	h.ResetPassword(c)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong phrase: status = %d, want 401", w.Code)
	}
}
