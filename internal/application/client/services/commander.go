// Package services holds the collaborators shared by the provisioning use cases.
package services

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// ServerLookup is the part of the server repository the commander needs.
type ServerLookup interface {
	GetByID(ctx context.Context, id uint) (*server.Server, error)
}

// Commander builds and sends provisioning commands for a database on the
// server it is assigned to.
type Commander struct {
	servers    ServerLookup
	builder    command.RequestBuilder
	dispatcher command.Dispatcher
	logger     logger.Interface
}

func NewCommander(
	servers ServerLookup,
	builder command.RequestBuilder,
	dispatcher command.Dispatcher,
	logger logger.Interface,
) *Commander {
	return &Commander{
		servers:    servers,
		builder:    builder,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ServerFor resolves the server a database is assigned to.
func (c *Commander) ServerFor(ctx context.Context, db *client.Database) (*server.Server, error) {
	if db.ServerID() == nil {
		return nil, fmt.Errorf("%w: %s", client.ErrServerNotAssigned, db.SID())
	}
	srv, err := c.servers.GetByID(ctx, *db.ServerID())
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	if srv == nil {
		return nil, fmt.Errorf("%w: id %d", server.ErrServerNotFound, *db.ServerID())
	}
	return srv, nil
}

// NewDatabase asks the server to create the database.
func (c *Commander) NewDatabase(ctx context.Context, db *client.Database, state command.State, scope []string) (*command.Result, error) {
	req, err := c.build(ctx, db, command.PathNewDatabase, state, scope)
	if err != nil {
		return nil, err
	}
	return c.dispatcher.Send(ctx, req)
}

// Delete asks the server to drop the database. A nil error means the
// deletion is confirmed.
func (c *Commander) Delete(ctx context.Context, db *client.Database, force bool) error {
	state := command.State{"d": db.Name(), "client_id": db.ClientID()}
	if force {
		state["force_delete"] = 1
	}
	req, err := c.build(ctx, db, command.PathDeleteDatabase, state, nil)
	if err != nil {
		return err
	}
	return c.dispatcher.SendDelete(ctx, req)
}

// Upgrade pushes parameters to a running instance.
func (c *Commander) Upgrade(ctx context.Context, db *client.Database, payload command.UpgradePayload) (*command.Result, error) {
	params := make([]map[string]any, 0, len(payload.Params))
	for _, p := range payload.Params {
		params = append(params, map[string]any{"key": p.Key, "value": p.Value, "hidden": p.Hidden})
	}
	state := command.State{"d": db.Name(), "params": params}

	req, err := c.build(ctx, db, command.PathUpgradeDatabase, state, nil)
	if err != nil {
		return nil, err
	}
	return c.dispatcher.Send(ctx, req)
}

func (c *Commander) build(ctx context.Context, db *client.Database, path command.Path, state command.State, scope []string) (*command.Request, error) {
	srv, err := c.ServerFor(ctx, db)
	if err != nil {
		return nil, err
	}
	req, err := c.builder.Build(srv, path, state, db.ClientID(), scope)
	if err != nil {
		c.logger.Errorw("failed to build provisioning command",
			"path", path,
			"database", db.SID(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to build %s command: %w", path, err)
	}
	return req, nil
}
