package http

import (
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	serverRepo     server.Repository
	planRepo       plan.Repository
	clientRepo     client.Repository
	databaseRepo   client.DatabaseRepository
	portalUserRepo portaluser.Repository
}

func (c *Container) initRepositories() {
	c.repos = &repositories{
		serverRepo:     repository.NewServerRepository(c.db, c.log),
		planRepo:       repository.NewPlanRepository(c.db, c.log),
		clientRepo:     repository.NewClientRepository(c.db, c.log),
		databaseRepo:   repository.NewDatabaseRepository(c.db, c.log),
		portalUserRepo: repository.NewPortalUserRepository(c.db, c.log),
	}
}
