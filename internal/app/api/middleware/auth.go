package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	cfgpkg "github.com/subtracker/subtracker/pkg/config"
	"github.com/subtracker/subtracker/pkg/response"
)

const (
	ctxUserIDKey    = "user_id"
	ctxUserEmailKey = "user_email"
	ctxUserNameKey  = "user_name"
)

// authClaims is the token payload issued by the auth provider. The subject
// is the opaque user identity.
type authClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.StandardClaims
}

// AuthMiddleware verifies the bearer token and stores the caller's identity
// in the request context.
func AuthMiddleware(cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}

		claims := &authClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !parsed.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		c.Set(ctxUserIDKey, claims.Subject)
		c.Set(ctxUserEmailKey, claims.Email)
		c.Set(ctxUserNameKey, claims.Name)
		c.Next()
	}
}

// UserID returns the authenticated caller's identity; empty outside the
// protected group.
func UserID(c *gin.Context) string { return c.GetString(ctxUserIDKey) }

func UserEmail(c *gin.Context) string { return c.GetString(ctxUserEmailKey) }

func UserName(c *gin.Context) string { return c.GetString(ctxUserNameKey) }
