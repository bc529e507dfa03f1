package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/interfaces/http/handlers"
)

// PlanRouteConfig holds dependencies for plan routes.
type PlanRouteConfig struct {
	PlanHandler *handlers.PlanHandler
}

// SetupPlanRoutes configures plan routes.
func SetupPlanRoutes(api *gin.RouterGroup, cfg *PlanRouteConfig) {
	plans := api.Group("/plans")
	{
		// Listed on the signup page
		plans.GET("/public", cfg.PlanHandler.GetPublicPlans)

		plans.POST("", cfg.PlanHandler.CreatePlan)
		plans.GET("", cfg.PlanHandler.ListPlans)
		plans.GET("/:sid", cfg.PlanHandler.GetPlan)
		plans.PUT("/:sid", cfg.PlanHandler.UpdatePlan)

		plans.POST("/:sid/template", cfg.PlanHandler.BuildTemplate)
		plans.DELETE("/:sid/template", cfg.PlanHandler.DeleteTemplate)
		plans.POST("/:sid/names", cfg.PlanHandler.GenerateName)
	}
}
