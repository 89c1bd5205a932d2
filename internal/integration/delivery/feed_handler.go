package delivery

import (
	"net/http"

	"torch-backend/internal/integration/dto"
	"torch-backend/internal/integration/usecase"

	"github.com/gin-gonic/gin"
)

// FeedHandler serves previously synced entities to the dashboard.
type FeedHandler struct {
	feedUsecase usecase.FeedUsecase
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedUsecase usecase.FeedUsecase) *FeedHandler {
	return &FeedHandler{feedUsecase: feedUsecase}
}

func feedUserID(c *gin.Context) string {
	if userID := c.GetString("userID"); userID != "" {
		return userID
	}
	return c.Query("userId")
}

// Emails handles GET /emails?userId=
func (h *FeedHandler) Emails(c *gin.Context) {
	userID := feedUserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "userId is required"})
		return
	}

	emails, err := h.feedUsecase.RecentEmails(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, emails)
}

// Events handles GET /events?userId=
func (h *FeedHandler) Events(c *gin.Context) {
	userID := feedUserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "userId is required"})
		return
	}

	events, err := h.feedUsecase.UpcomingEvents(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// Messages handles GET /messages?userId=&mentionsOnly=true
func (h *FeedHandler) Messages(c *gin.Context) {
	userID := feedUserID(c)
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "userId is required"})
		return
	}

	messages, err := h.feedUsecase.RecentMessages(c.Request.Context(), userID, c.Query("mentionsOnly") == "true")
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, messages)
}
