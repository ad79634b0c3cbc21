package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadtrack-service/internal/domain/user"
	xerrors "leadtrack-service/internal/pkg/errors"
	"leadtrack-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	loginResp *user.LoginResponse
	loginErr  error
	me        *user.MeResponse
	meErr     error
	createErr error
	users     []user.UserWithProjects
}

func (s *stubAuthService) Login(ctx context.Context, ip string, req *user.LoginRequest) (*user.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) GetMe(ctx context.Context, userID int64) (*user.MeResponse, error) {
	return s.me, s.meErr
}

func (s *stubAuthService) CreateUser(ctx context.Context, creatorID int64, req *user.CreateUserRequest) (*user.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &user.User{ID: 99, Username: req.Username, Role: req.Role}, nil
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]user.UserWithProjects, error) {
	return s.users, nil
}

func installClaims(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("claims", &jwt.Claims{UserID: userID, Role: role})
		c.Next()
	}
}

func newTestRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", installClaims(7, "AGENT"), h.GetMe)
	r.POST("/auth/users", installClaims(1, "ADMIN"), h.CreateUser)
	r.GET("/auth/users", installClaims(1, "ADMIN"), h.ListUsers)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSetsCookieAndReturnsToken(t *testing.T) {
	svc := &stubAuthService{loginResp: &user.LoginResponse{Token: "tok123", Role: "AGENT"}}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"username": "ravi", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp user.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok123", resp.Token)
	assert.Equal(t, "AGENT", resp.Role)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "tok123", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: xerrors.ErrUnauthorized}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"username": "ravi", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	svc := &stubAuthService{loginErr: xerrors.ErrRateLimited}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"username": "ravi", "password": "wrong"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	svc := &stubAuthService{}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"username": "ravi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMe(t *testing.T) {
	svc := &stubAuthService{me: &user.MeResponse{ID: 7, Username: "ravi", Role: "AGENT"}}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp user.MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
}

func TestCreateUserStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"created", nil, http.StatusCreated},
		{"forbidden role", xerrors.ErrForbidden, http.StatusForbidden},
		{"username taken", xerrors.ErrDuplicateEntry, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubAuthService{createErr: tc.err}
			r := newTestRouter(svc)

			w := doJSON(t, r, http.MethodPost, "/auth/users", gin.H{
				"firstName": "New", "lastName": "Hire", "username": "newhire",
				"password": "longenough", "role": "AGENT",
			})
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := &stubAuthService{}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/auth/users", gin.H{
		"firstName": "New", "lastName": "Hire", "username": "newhire",
		"password": "longenough", "role": "OVERLORD",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
