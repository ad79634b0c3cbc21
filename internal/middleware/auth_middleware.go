// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"leadtrack-service/internal/pkg/jwt"
	"leadtrack-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Auth validates the bearer token and installs the verified claims in the
// request context. Handlers read the caller's identity from there; nothing
// request-scoped lives in package state.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.verifier.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole requires the caller to hold one of the given roles.
// MUST be used after Auth().
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			response.Forbidden(c, "authentication required")
			return
		}

		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "forbidden")
	}
}

// extractToken extracts the bearer token from the Authorization header,
// falling back to the auth cookie set by the cookie deployment variant.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if token, err := c.Cookie("token"); err == nil {
		return token
	}

	return ""
}

// GetClaims returns the verified claims installed by Auth.
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// MustGetClaims returns the verified claims or panics. Only for handlers
// registered behind Auth.
func MustGetClaims(c *gin.Context) *jwt.Claims {
	claims, ok := GetClaims(c)
	if !ok {
		panic("claims not found in context")
	}
	return claims
}
