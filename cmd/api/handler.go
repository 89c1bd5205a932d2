package api

import (
	briefDelivery "torch-backend/internal/brief/delivery"
	integrationDelivery "torch-backend/internal/integration/delivery"
	walletDelivery "torch-backend/internal/wallet/delivery"
	"torch-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	integrationHandler *integrationDelivery.IntegrationHandler
	feedHandler        *integrationDelivery.FeedHandler
	walletHandler      *walletDelivery.WalletHandler
	briefHandler       *briefDelivery.BriefHandler
	config             *config.Config
}

func NewHandler(integrationHandler *integrationDelivery.IntegrationHandler, feedHandler *integrationDelivery.FeedHandler, walletHandler *walletDelivery.WalletHandler, briefHandler *briefDelivery.BriefHandler, cfg *config.Config) *Handler {
	return &Handler{
		integrationHandler: integrationHandler,
		feedHandler:        feedHandler,
		walletHandler:      walletHandler,
		briefHandler:       briefHandler,
		config:             cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware. Preflight requests short-circuit with an empty 200.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Client-Info, Apikey")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	})

	r.Use(OptionalAuth(h.config.JWTSecret))

	SetupRoutes(r, h.integrationHandler, h.feedHandler, h.walletHandler, h.briefHandler)

	return r.Run(addr)
}
