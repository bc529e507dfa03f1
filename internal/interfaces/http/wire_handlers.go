package http

import (
	"context"

	"github.com/orris-inc/saasportal/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler *handlers.HealthHandler
	serverHandler *handlers.ServerHandler
	planHandler   *handlers.PlanHandler
	clientHandler *handlers.ClientHandler
	jobHandler    *handlers.JobHandler
	portalHandler *handlers.PortalHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs

	checks := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}
	}

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(checks),
		serverHandler: handlers.NewServerHandler(
			ucs.createServerUC, ucs.updateServerUC, ucs.updateServerStatusUC,
			ucs.getServerUC, ucs.listServersUC, ucs.deleteServerUC, c.log,
		),
		planHandler: handlers.NewPlanHandler(
			ucs.createPlanUC, ucs.updatePlanUC, ucs.getPlanUC, ucs.listPlansUC,
			ucs.getPublicPlansUC, ucs.buildTemplateUC, ucs.deleteTemplateUC, ucs.generateNameUC, c.log,
		),
		clientHandler: handlers.NewClientHandler(handlers.ClientUseCases{
			Create:           ucs.createClientUC,
			Get:              ucs.getClientUC,
			List:             ucs.listClientsUC,
			Provision:        ucs.provisionClientUC,
			Duplicate:        ucs.duplicateClientUC,
			Delete:           ucs.deleteClientUC,
			Upgrade:          ucs.upgradeClientUC,
			ChangeExpiration: ucs.changeExpirationUC,
			SyncParams:       ucs.syncParamsUC,
			ReportStorage:    ucs.reportStorageUC,
		}, c.log),
		jobHandler: handlers.NewJobHandler(ucs.sweepExpiredUC, ucs.notifyExpiringUC, ucs.monitorStorageUC, c.log),
		portalHandler: handlers.NewPortalHandler(ucs.createClientUC, ucs.checkNameUC, handlers.PortalPages{
			MaximumDB:      c.cfg.Provisioning.MaximumDBPage,
			MaximumTrialDB: c.cfg.Provisioning.MaximumTrialDBPage,
		}, c.log),
	}
}
