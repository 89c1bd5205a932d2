package api

import (
	"net/http"

	briefDelivery "torch-backend/internal/brief/delivery"
	integrationDelivery "torch-backend/internal/integration/delivery"
	walletDelivery "torch-backend/internal/wallet/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, integrationHandler *integrationDelivery.IntegrationHandler, feedHandler *integrationDelivery.FeedHandler, walletHandler *walletDelivery.WalletHandler, briefHandler *briefDelivery.BriefHandler) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Integration routes
		integrations := api.Group("/integrations")
		{
			integrations.GET("", integrationHandler.List)
			integrations.GET("/:service/auth-url", integrationHandler.GetAuthURL)
			integrations.POST("/:service/callback", integrationHandler.Callback)
			integrations.POST("/:service/sync", integrationHandler.Sync)
			integrations.DELETE("/:id", integrationHandler.Disconnect)
		}

		// Sync history lives outside the /integrations GET tree so the id
		// wildcard does not collide with the :service routes above.
		api.GET("/sync-logs/:id", integrationHandler.Logs)

		// Synced entity feeds
		api.GET("/emails", feedHandler.Emails)
		api.GET("/events", feedHandler.Events)
		api.GET("/messages", feedHandler.Messages)

		// Wallet analytics
		api.GET("/wallet/:accountId/analysis", walletHandler.Analyze)

		// Daily brief and news feed
		api.GET("/brief", briefHandler.Get)
		api.GET("/news", briefHandler.News)
	}
}
