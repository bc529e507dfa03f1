package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/interfaces/http/handlers"
)

// ServerRouteConfig holds dependencies for provisioning server routes.
type ServerRouteConfig struct {
	ServerHandler *handlers.ServerHandler
}

// SetupServerRoutes configures provisioning server registry routes.
func SetupServerRoutes(api *gin.RouterGroup, cfg *ServerRouteConfig) {
	servers := api.Group("/servers")
	{
		servers.POST("", cfg.ServerHandler.CreateServer)
		servers.GET("", cfg.ServerHandler.ListServers)
		servers.GET("/:sid", cfg.ServerHandler.GetServer)
		servers.PATCH("/:sid", cfg.ServerHandler.UpdateServer)
		servers.PATCH("/:sid/status", cfg.ServerHandler.UpdateServerStatus)
		servers.DELETE("/:sid", cfg.ServerHandler.DeleteServer)
	}
}
