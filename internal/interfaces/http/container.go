package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/infrastructure/config"
	"github.com/orris-inc/saasportal/internal/infrastructure/pubsub"
	"github.com/orris-inc/saasportal/internal/infrastructure/ratelimit"
	"github.com/orris-inc/saasportal/internal/infrastructure/scheduler"
	"github.com/orris-inc/saasportal/internal/interfaces/http/middleware"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases
// and handlers of one portal process, and releases them in Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	svcs  *services
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	portalUserMiddleware *middleware.PortalUserMiddleware
	portalRateLimiter    *middleware.RateLimiter
}

// NewContainer wires every component. redisClient may be nil, in which case
// locks and name sequences fall back to their database variants.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	c.initUseCases()
	c.initHandlers()
	c.initMiddlewares()

	return c, nil
}

func (c *Container) initMiddlewares() {
	c.portalUserMiddleware = middleware.NewPortalUserMiddleware(c.repos.portalUserRepo, c.log)
	var limiter middleware.Limiter
	if c.redis != nil && c.cfg.Server.PortalRateLimit > 0 {
		limiter = ratelimit.NewRedisRateLimiter(c.redis, "portal",
			ratelimit.Window{Duration: time.Minute, Limit: c.cfg.Server.PortalRateLimit})
	}
	c.portalRateLimiter = middleware.NewRateLimiter(limiter, c.log)
}

// LifecycleJobs exposes the sweeps to the worker's scheduler.
func (c *Container) LifecycleJobs() scheduler.LifecycleJobs {
	return scheduler.LifecycleJobs{
		Expire:  c.ucs.sweepExpiredUC,
		Notify:  c.ucs.notifyExpiringUC,
		Storage: c.ucs.monitorStorageUC,
	}
}

// NotificationSubscriber returns the consuming side of the notification
// transport, or nil when the transport only publishes.
func (c *Container) NotificationSubscriber() pubsub.Subscriber {
	return c.svcs.transport.Subscriber
}

func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown closes broker connections. The database and redis handles belong to the caller.
func (c *Container) Shutdown() error {
	var errs []error
	if c.svcs != nil && c.svcs.transport != nil && c.svcs.transport.Close != nil {
		if err := c.svcs.transport.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
