package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/subtracker/subtracker/pkg/config"
)

type capturedIdentity struct {
	userID string
	email  string
	name   string
}

func authTestRouter(secret string) (*gin.Engine, *capturedIdentity) {
	gin.SetMode(gin.TestMode)
	cfg := &cfgpkg.Config{Auth: cfgpkg.AuthConfig{JWTSecret: secret}}
	r := gin.New()
	captured := &capturedIdentity{}
	r.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		captured.userID = UserID(c)
		captured.email = UserEmail(c)
		captured.name = UserName(c)
		c.Status(http.StatusOK)
	})
	return r, captured
}

func signToken(t *testing.T, secret, subject, email string) string {
	t.Helper()
	claims := authClaims{
		Email:          email,
		Name:           "Anna",
		StandardClaims: jwt.StandardClaims{Subject: subject},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r, captured := authTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "u1", "anna@example.com"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", captured.userID)
	assert.Equal(t, "anna@example.com", captured.email)
	assert.Equal(t, "Anna", captured.name)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r, _ := authTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	r, _ := authTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "u1", "anna@example.com"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsTokenWithoutSubject(t *testing.T) {
	r, _ := authTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "", "anna@example.com"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
