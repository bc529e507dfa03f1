package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/infrastructure/config"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates the dependency container and wraps it for route setup.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, redisClient, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Shutdown releases the container's resources.
func (r *Router) Shutdown() {
	if err := r.Container.Shutdown(); err != nil {
		r.log.Warnw("failed to shut down router cleanly", "error", err)
	}
}
