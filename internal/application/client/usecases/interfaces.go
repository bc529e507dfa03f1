package usecases

import (
	"context"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/domain/server"
)

// TxRunner runs fn in a database transaction carried by ctx.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ServerReader resolves servers referenced by clients.
type ServerReader interface {
	GetByID(ctx context.Context, id uint) (*server.Server, error)
	GetBySID(ctx context.Context, sid string) (*server.Server, error)
}

// PlanReader resolves plans referenced by clients.
type PlanReader interface {
	GetByID(ctx context.Context, id uint) (*plan.Plan, error)
	GetBySID(ctx context.Context, sid string) (*plan.Plan, error)
}

// DomainSettings are the deployment values that shape instance URLs.
type DomainSettings struct {
	BaseDomain string
}

// UserReader resolves the portal users that own clients.
type UserReader interface {
	GetByID(ctx context.Context, id uint) (*portaluser.User, error)
}

// TemplateReader loads plan template databases.
type TemplateReader interface {
	GetByID(ctx context.Context, id uint) (*client.Database, error)
}

// ServerSelector picks a server for clients that do not inherit one.
type ServerSelector interface {
	SelectServer(ctx context.Context) (*server.Server, error)
}
