package delivery

import (
	"net/http"

	"torch-backend/internal/wallet/usecase"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes wallet analytics over HTTP.
type WalletHandler struct {
	analyzer usecase.AnalyzerUsecase
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(analyzer usecase.AnalyzerUsecase) *WalletHandler {
	return &WalletHandler{analyzer: analyzer}
}

// Analyze handles GET /wallet/:accountId/analysis. Lookup failures still
// return 200 with a zeroed report, so the dashboard always has something to
// render.
func (h *WalletHandler) Analyze(c *gin.Context) {
	analysis := h.analyzer.Analyze(c.Request.Context(), c.Param("accountId"))
	c.JSON(http.StatusOK, analysis)
}
