package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/interfaces/http/handlers"
	"github.com/orris-inc/saasportal/internal/interfaces/http/middleware"
)

// ClientRouteConfig holds dependencies for client lifecycle routes.
type ClientRouteConfig struct {
	ClientHandler        *handlers.ClientHandler
	PortalUserMiddleware *middleware.PortalUserMiddleware
}

// SetupClientRoutes configures client lifecycle routes.
func SetupClientRoutes(api *gin.RouterGroup, cfg *ClientRouteConfig) {
	clients := api.Group("/clients")
	clients.Use(cfg.PortalUserMiddleware.OptionalUser())
	{
		clients.POST("", cfg.ClientHandler.CreateClient)
		clients.GET("", cfg.ClientHandler.ListClients)
		clients.GET("/:sid", cfg.ClientHandler.GetClient)
		clients.DELETE("/:sid", cfg.ClientHandler.DeleteClient)

		clients.POST("/:sid/provision", cfg.ClientHandler.ProvisionClient)
		clients.POST("/:sid/duplicate", cfg.ClientHandler.DuplicateClient)
		clients.POST("/:sid/upgrade", cfg.ClientHandler.UpgradeClient)
		clients.POST("/:sid/sync", cfg.ClientHandler.SyncParams)
		clients.PUT("/:sid/expiration", cfg.ClientHandler.ChangeExpiration)
		clients.PUT("/:sid/storage", cfg.ClientHandler.ReportStorage)
	}
}
