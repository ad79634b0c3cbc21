package customer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadtrack-service/internal/domain/customer"
	xerrors "leadtrack-service/internal/pkg/errors"
	"leadtrack-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssignmentService struct {
	searchDetail *customer.AssignmentDetail
	searchErr    error
	createID     int64
	createErr    error
	updateDetail *customer.AssignmentDetail
	updateErr    error
	completeErr  error
	list         []customer.AssignmentDetail
	listErr      error
	logs         []customer.AssignmentLog
	logsErr      error

	gotAgentID int64
	gotPhone   string
}

func (s *stubAssignmentService) SearchByPhone(ctx context.Context, phone string, agentID int64) (*customer.AssignmentDetail, error) {
	s.gotPhone = phone
	s.gotAgentID = agentID
	return s.searchDetail, s.searchErr
}

func (s *stubAssignmentService) Create(ctx context.Context, agentID int64, req *customer.CreateAssignmentRequest) (int64, error) {
	s.gotAgentID = agentID
	return s.createID, s.createErr
}

func (s *stubAssignmentService) Update(ctx context.Context, id, agentID int64, req *customer.UpdateAssignmentRequest) (*customer.AssignmentDetail, error) {
	s.gotAgentID = agentID
	return s.updateDetail, s.updateErr
}

func (s *stubAssignmentService) Complete(ctx context.Context, id, agentID int64) error {
	s.gotAgentID = agentID
	return s.completeErr
}

func (s *stubAssignmentService) ListForAgent(ctx context.Context, agentID int64) ([]customer.AssignmentDetail, error) {
	s.gotAgentID = agentID
	return s.list, s.listErr
}

func (s *stubAssignmentService) History(ctx context.Context, id, agentID int64) ([]customer.AssignmentLog, error) {
	s.gotAgentID = agentID
	return s.logs, s.logsErr
}

// installClaims fakes what the auth middleware does for a logged-in agent.
func installClaims(agentID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("claims", &jwt.Claims{UserID: agentID, Role: "AGENT"})
		c.Next()
	}
}

func newTestRouter(svc *stubAssignmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCustomerHandler(svc)

	r := gin.New()
	g := r.Group("/api/agent/customers", installClaims(7))
	g.POST("/search", h.Search)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/complete", h.Complete)
	g.GET("/:id/logs", h.History)
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

func TestSearchRejectsBadPhone(t *testing.T) {
	cases := []struct {
		name  string
		phone string
	}{
		{"too short", "12345"},
		{"too long", "98765432101"},
		{"letters", "98765abc10"},
		{"formatted", "98765-4321"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubAssignmentService{}
			r := newTestRouter(svc)

			w := doJSON(t, r, http.MethodPost, "/api/agent/customers/search", gin.H{"phone": tc.phone})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, svc.gotPhone)
		})
	}
}

func TestSearchMissIsOKWithNotFoundStatus(t *testing.T) {
	svc := &stubAssignmentService{searchErr: xerrors.ErrNotFound}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/agent/customers/search", gin.H{"phone": "9876543210"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp customer.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, customer.SearchNotFound, resp.Status)
	assert.Nil(t, resp.Data)
}

func TestSearchHit(t *testing.T) {
	svc := &stubAssignmentService{
		searchDetail: &customer.AssignmentDetail{
			Assignment:   customer.Assignment{ID: 42, AgentID: 7, StatusCode: "new-lead"},
			CustomerName: "Asha",
		},
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/agent/customers/search", gin.H{"phone": "9876543210"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9876543210", svc.gotPhone)
	assert.Equal(t, int64(7), svc.gotAgentID)

	var resp customer.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, customer.SearchFound, resp.Status)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "Asha", resp.Data.CustomerName)
}

func TestCreateReturnsAssignmentID(t *testing.T) {
	svc := &stubAssignmentService{createID: 501}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/agent/customers", gin.H{
		"name": "Asha", "contact": "9876543210", "status_code": "new-lead",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp customer.CreateAssignmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(501), resp.AssignmentID)
}

func TestCreateMissingRequiredFields(t *testing.T) {
	svc := &stubAssignmentService{}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/agent/customers", gin.H{"name": "Asha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.gotAgentID)
}

func TestCreateDuplicateIsConflict(t *testing.T) {
	svc := &stubAssignmentService{createErr: xerrors.ErrDuplicateEntry}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/agent/customers", gin.H{
		"name": "Asha", "contact": "9876543210", "status_code": "new-lead",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateForbidden(t *testing.T) {
	svc := &stubAssignmentService{updateErr: xerrors.ErrForbidden}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/api/agent/customers/42", gin.H{"remark": "ping"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateReturnsPostImage(t *testing.T) {
	svc := &stubAssignmentService{
		updateDetail: &customer.AssignmentDetail{
			Assignment:   customer.Assignment{ID: 42, StatusCode: "visit-scheduled"},
			CustomerName: "Asha",
		},
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/api/agent/customers/42", gin.H{"status_code": "visit-scheduled"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp customer.AssignmentDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "visit-scheduled", resp.StatusCode)
}

func TestUpdateBadID(t *testing.T) {
	svc := &stubAssignmentService{}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/api/agent/customers/abc", gin.H{"remark": "ping"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteSuccess(t *testing.T) {
	svc := &stubAssignmentService{}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPatch, "/api/agent/customers/42/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp customer.CompleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestCompleteIneligibleIsForbidden(t *testing.T) {
	svc := &stubAssignmentService{completeErr: xerrors.ErrForbidden}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPatch, "/api/agent/customers/42/complete", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListReturnsAssignments(t *testing.T) {
	svc := &stubAssignmentService{
		list: []customer.AssignmentDetail{
			{Assignment: customer.Assignment{ID: 2}, CustomerName: "Beena"},
			{Assignment: customer.Assignment{ID: 1}, CustomerName: "Asha"},
		},
	}
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/agent/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.gotAgentID)

	var resp []customer.AssignmentDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Beena", resp[0].CustomerName)
}
