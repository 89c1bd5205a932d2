package delivery

import (
	"net/http"
	"time"

	"torch-backend/internal/brief/usecase"
	"torch-backend/pkg/news"

	"github.com/gin-gonic/gin"
)

// BriefHandler exposes the daily brief and the news feed over HTTP.
type BriefHandler struct {
	briefUsecase usecase.BriefUsecase
}

// NewBriefHandler creates a new BriefHandler
func NewBriefHandler(briefUsecase usecase.BriefUsecase) *BriefHandler {
	return &BriefHandler{briefUsecase: briefUsecase}
}

// Get handles GET /brief?userId=
func (h *BriefHandler) Get(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		userID = c.Query("userId")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	brief, err := h.briefUsecase.Generate(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, brief)
}

// News handles GET /news
func (h *BriefHandler) News(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"articles": news.Fetch(time.Now())})
}
