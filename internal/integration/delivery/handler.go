package delivery

import (
	"errors"
	"net/http"

	"torch-backend/internal/integration/domain"
	"torch-backend/internal/integration/dto"
	"torch-backend/internal/integration/usecase"

	"github.com/gin-gonic/gin"
)

// IntegrationHandler exposes the sync orchestrator over HTTP.
type IntegrationHandler struct {
	syncUsecase usecase.SyncUsecase
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(syncUsecase usecase.SyncUsecase) *IntegrationHandler {
	return &IntegrationHandler{syncUsecase: syncUsecase}
}

// GetAuthURL handles GET /integrations/:service/auth-url
func (h *IntegrationHandler) GetAuthURL(c *gin.Context) {
	service, err := domain.ParseService(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	authURL, err := h.syncUsecase.AuthURL(service)
	if err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.AuthURLResponse{AuthURL: authURL})
}

// Callback handles POST /integrations/:service/callback
func (h *IntegrationHandler) Callback(c *gin.Context) {
	service, err := domain.ParseService(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "code and userId are required"})
		return
	}

	integration, err := h.syncUsecase.HandleCallback(c.Request.Context(), service, req.Code, req.UserID, req.Source)
	if err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CallbackResponse{Success: true, Integration: integration})
}

// Sync handles POST /integrations/:service/sync
func (h *IntegrationHandler) Sync(c *gin.Context) {
	if _, err := domain.ParseService(c.Param("service")); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "integrationId is required"})
		return
	}

	synced, err := h.syncUsecase.TriggerSync(c.Request.Context(), req.IntegrationID)
	if err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SyncResponse{Success: true, Synced: synced})
}

// List handles GET /integrations?userId=
func (h *IntegrationHandler) List(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		userID = c.Query("userId")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "userId is required"})
		return
	}

	integrations, err := h.syncUsecase.ListIntegrations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, integrations)
}

// Logs handles GET /integrations/:id/logs
func (h *IntegrationHandler) Logs(c *gin.Context) {
	entries, err := h.syncUsecase.SyncLogs(c.Request.Context(), c.Param("id"), 50)
	if err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Disconnect handles DELETE /integrations/:id
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	if err := h.syncUsecase.Disconnect(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// statusForError maps the error taxonomy onto HTTP statuses. Raw internal
// errors never leak a stack trace; the message is the error string only.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedService),
		errors.Is(err, domain.ErrUnsupportedCalendarSource):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrIntegrationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSyncInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTokenRefreshFailed),
		errors.Is(err, domain.ErrCodeExchangeFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrMissingOAuthConfig):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
