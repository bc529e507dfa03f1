package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/interfaces/http/handlers"
	"github.com/orris-inc/saasportal/internal/interfaces/http/middleware"
)

// PortalRouteConfig holds dependencies for the browser-facing signup routes.
type PortalRouteConfig struct {
	PortalHandler        *handlers.PortalHandler
	PortalUserMiddleware *middleware.PortalUserMiddleware
	RateLimiter          *middleware.RateLimiter
}

// SetupPortalRoutes configures signup routes. Both are rate limited per client IP.
func SetupPortalRoutes(engine *gin.Engine, cfg *PortalRouteConfig) {
	portal := engine.Group("/portal")
	portal.Use(cfg.RateLimiter.Limit())
	{
		portal.GET("/add_new_client", cfg.PortalUserMiddleware.OptionalUser(), cfg.PortalHandler.AddNewClient)
		portal.POST("/trial_check", cfg.PortalHandler.TrialCheck)
	}
}
