package http

import (
	"github.com/orris-inc/saasportal/internal/interfaces/http/middleware"
	"github.com/orris-inc/saasportal/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", r.hdlrs.healthHandler.HealthCheck)

	api := r.engine.Group("/api/v1")
	routes.SetupServerRoutes(api, &routes.ServerRouteConfig{
		ServerHandler: r.hdlrs.serverHandler,
	})
	routes.SetupPlanRoutes(api, &routes.PlanRouteConfig{
		PlanHandler: r.hdlrs.planHandler,
	})
	routes.SetupClientRoutes(api, &routes.ClientRouteConfig{
		ClientHandler:        r.hdlrs.clientHandler,
		PortalUserMiddleware: r.portalUserMiddleware,
	})
	routes.SetupJobRoutes(api, &routes.JobRouteConfig{
		JobHandler: r.hdlrs.jobHandler,
	})

	routes.SetupPortalRoutes(r.engine, &routes.PortalRouteConfig{
		PortalHandler:        r.hdlrs.portalHandler,
		PortalUserMiddleware: r.portalUserMiddleware,
		RateLimiter:          r.portalRateLimiter,
	})
}
