package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/interfaces/http/handlers"
)

// JobRouteConfig holds dependencies for on-demand sweep routes.
type JobRouteConfig struct {
	JobHandler *handlers.JobHandler
}

// SetupJobRoutes configures the manual trigger for the lifecycle sweeps.
func SetupJobRoutes(api *gin.RouterGroup, cfg *JobRouteConfig) {
	api.POST("/jobs/:job", cfg.JobHandler.RunJob)
}
