package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"torch-backend/internal/integration/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSyncUsecase struct {
	authURL    string
	syncErr    error
	syncedItem int
}

func (u *stubSyncUsecase) AuthURL(domain.Service) (string, error) {
	return u.authURL, nil
}
func (u *stubSyncUsecase) HandleCallback(_ context.Context, service domain.Service, _, userID, _ string) (*domain.Integration, error) {
	return &domain.Integration{ID: "int-1", UserID: userID, Service: service}, nil
}
func (u *stubSyncUsecase) TriggerSync(context.Context, string) (int, error) {
	return u.syncedItem, u.syncErr
}
func (u *stubSyncUsecase) ListIntegrations(context.Context, string) ([]*domain.Integration, error) {
	return []*domain.Integration{{ID: "int-1"}}, nil
}
func (u *stubSyncUsecase) SyncLogs(context.Context, string, int) ([]*domain.SyncLogEntry, error) {
	return nil, nil
}
func (u *stubSyncUsecase) Disconnect(context.Context, string) error {
	return domain.ErrIntegrationNotFound
}

func newTestRouter(uc *stubSyncUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewIntegrationHandler(uc)
	r := gin.New()
	r.GET("/api/integrations", h.List)
	r.GET("/api/integrations/:service/auth-url", h.GetAuthURL)
	r.POST("/api/integrations/:service/callback", h.Callback)
	r.POST("/api/integrations/:service/sync", h.Sync)
	r.DELETE("/api/integrations/:id", h.Disconnect)
	return r
}

func TestGetAuthURLRejectsUnknownService(t *testing.T) {
	r := newTestRouter(&stubSyncUsecase{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/integrations/slack/auth-url", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestCallbackRequiresCodeAndUser(t *testing.T) {
	r := newTestRouter(&stubSyncUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/integrations/gmail/callback", strings.NewReader(`{"code":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncConflictMapsTo409(t *testing.T) {
	r := newTestRouter(&stubSyncUsecase{syncErr: domain.ErrSyncInProgress})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/integrations/gmail/sync", strings.NewReader(`{"integrationId":"int-1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSyncTokenRefreshFailureMapsTo502(t *testing.T) {
	r := newTestRouter(&stubSyncUsecase{syncErr: domain.ErrTokenRefreshFailed})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/integrations/gmail/sync", strings.NewReader(`{"integrationId":"int-1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSyncSuccessReturnsCount(t *testing.T) {
	r := newTestRouter(&stubSyncUsecase{syncedItem: 12})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/integrations/gmail/sync", strings.NewReader(`{"integrationId":"int-1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"synced":12}`, w.Body.String())
}

func TestListRequiresUserID(t *testing.T) {
	r := newTestRouter(&stubSyncUsecase{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/integrations", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/integrations?userId=user-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDisconnectUnknownIntegrationMapsTo404(t *testing.T) {
	r := newTestRouter(&stubSyncUsecase{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/integrations/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
