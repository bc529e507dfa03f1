package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/shared/errors"
)

// clientGuard runs work on a single client under its lock. The client is
// read again once the lock is held so concurrent writers never overwrite
// each other.
type clientGuard struct {
	clients client.Repository
	locker  services.Locker
}

func (g *clientGuard) withClientSID(ctx context.Context, sid string, fn func(ctx context.Context, c *client.Client) error) error {
	c, err := g.clients.GetBySID(ctx, sid)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if c == nil {
		return errors.NewNotFoundError("client not found", sid)
	}
	return g.locker.WithLock(ctx, services.ClientLockKey(c.ID()), func(ctx context.Context) error {
		fresh, err := g.clients.GetByID(ctx, c.ID())
		if err != nil {
			return fmt.Errorf("failed to reload client: %w", err)
		}
		if fresh == nil {
			return errors.NewNotFoundError("client not found", sid)
		}
		return fn(ctx, fresh)
	})
}

// withClientID is used by sweeps. A client that vanished in between is skipped.
func (g *clientGuard) withClientID(ctx context.Context, id uint, fn func(ctx context.Context, c *client.Client) error) error {
	return g.locker.WithLock(ctx, services.ClientLockKey(id), func(ctx context.Context) error {
		c, err := g.clients.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload client: %w", err)
		}
		if c == nil {
			return nil
		}
		return fn(ctx, c)
	})
}
