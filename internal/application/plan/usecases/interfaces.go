package usecases

import (
	"context"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/domain/server"
)

// ServerReader resolves the servers plans and clients are pinned to.
type ServerReader interface {
	GetByID(ctx context.Context, id uint) (*server.Server, error)
	GetBySID(ctx context.Context, sid string) (*server.Server, error)
}

// ServerSelector picks a server when the plan does not pin one.
type ServerSelector interface {
	SelectServer(ctx context.Context) (*server.Server, error)
}

// NameChecker reports whether an instance name is already in use.
type NameChecker interface {
	NameTaken(ctx context.Context, name string) (bool, error)
}

// UserReader resolves the partner of a portal user.
type UserReader interface {
	GetByID(ctx context.Context, id uint) (*portaluser.User, error)
}

// TxRunner runs fn in a database transaction carried by ctx.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TemplateRepository stores plan template databases.
type TemplateRepository interface {
	Create(ctx context.Context, db *client.Database) error
	GetByID(ctx context.Context, id uint) (*client.Database, error)
	Update(ctx context.Context, db *client.Database) error
}

// DomainSettings are the deployment values that shape instance URLs.
type DomainSettings struct {
	BaseDomain string
}
