package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadtrack-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	claims *jwt.Claims
	err    error
}

func (v *stubVerifier) ValidateToken(token string) (*jwt.Claims, error) {
	return v.claims, v.err
}

func protectedRouter(v TokenVerifier, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(v)

	r := gin.New()
	g := r.Group("/secure", m.Auth())
	if len(roles) > 0 {
		g.Use(m.RequireRole(roles...))
	}
	g.GET("", func(c *gin.Context) {
		claims := MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return r
}

func get(r *gin.Engine, header, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingToken(t *testing.T) {
	r := protectedRouter(&stubVerifier{})
	w := get(r, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	r := protectedRouter(&stubVerifier{err: errors.New("bad token")})
	w := get(r, "Bearer nope", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthBearerToken(t *testing.T) {
	r := protectedRouter(&stubVerifier{claims: &jwt.Claims{UserID: 7, Role: "AGENT"}})
	w := get(r, "Bearer good", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAuthCookieFallback(t *testing.T) {
	r := protectedRouter(&stubVerifier{claims: &jwt.Claims{UserID: 7, Role: "AGENT"}})
	w := get(r, "", "good")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleMatrix(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		required []string
		want     int
	}{
		{"agent on agent route", "AGENT", []string{"AGENT"}, http.StatusOK},
		{"admin on agent route", "ADMIN", []string{"AGENT"}, http.StatusForbidden},
		{"supervisor on admin-or-supervisor route", "SUPERVISOR", []string{"ADMIN", "SUPERVISOR"}, http.StatusOK},
		{"agent on admin-or-supervisor route", "AGENT", []string{"ADMIN", "SUPERVISOR"}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := protectedRouter(&stubVerifier{claims: &jwt.Claims{UserID: 1, Role: tc.role}}, tc.required...)
			w := get(r, "Bearer good", "")
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
