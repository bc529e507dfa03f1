package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/application/server/dto"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// UpdateServerCommand patches a server; nil fields are left untouched.
type UpdateServerCommand struct {
	SID      string
	Scheme   *string
	Host     *string
	Provider *string
	Secret   *string
	Sequence *int
}

func (c UpdateServerCommand) empty() bool {
	return c.Scheme == nil && c.Host == nil && c.Provider == nil && c.Secret == nil && c.Sequence == nil
}

type UpdateServerUseCase struct {
	servers server.Repository
	logger  logger.Interface
}

func NewUpdateServerUseCase(servers server.Repository, logger logger.Interface) *UpdateServerUseCase {
	return &UpdateServerUseCase{servers: servers, logger: logger}
}

func (uc *UpdateServerUseCase) Execute(ctx context.Context, cmd UpdateServerCommand) (*dto.ServerDTO, error) {
	if cmd.empty() {
		return nil, errors.NewValidationError("no fields to update")
	}
	srv, err := loadServer(ctx, uc.servers, cmd.SID)
	if err != nil {
		return nil, err
	}

	if cmd.Scheme != nil || cmd.Host != nil || cmd.Provider != nil {
		scheme, host, provider := srv.Scheme(), srv.Host(), srv.Provider()
		if cmd.Scheme != nil {
			scheme = server.Scheme(*cmd.Scheme)
		}
		if cmd.Host != nil {
			host = *cmd.Host
		}
		if cmd.Provider != nil {
			provider = *cmd.Provider
		}
		if err := srv.UpdateConnection(scheme, host, provider); err != nil {
			return nil, common.TranslateError(err)
		}
	}
	if cmd.Sequence != nil {
		srv.SetSequence(*cmd.Sequence)
	}
	if cmd.Secret != nil {
		if *cmd.Secret == "" {
			return nil, errors.NewValidationError("secret cannot be empty")
		}
		srv.RotateSecret(*cmd.Secret)
		uc.logger.Infow("server secret rotated", "server_sid", srv.SID())
	}

	if err := uc.servers.Update(ctx, srv); err != nil {
		uc.logger.Errorw("failed to update server", "server_sid", srv.SID(), "error", err)
		return nil, fmt.Errorf("failed to update server: %w", err)
	}
	return dto.ToServerDTO(srv), nil
}

type UpdateServerStatusCommand struct {
	SID    string
	Active bool
}

// UpdateServerStatusUseCase takes a server in or out of the selection pool.
// Existing databases on an inactive server keep working.
type UpdateServerStatusUseCase struct {
	servers server.Repository
	logger  logger.Interface
}

func NewUpdateServerStatusUseCase(servers server.Repository, logger logger.Interface) *UpdateServerStatusUseCase {
	return &UpdateServerStatusUseCase{servers: servers, logger: logger}
}

func (uc *UpdateServerStatusUseCase) Execute(ctx context.Context, cmd UpdateServerStatusCommand) (*dto.ServerDTO, error) {
	srv, err := loadServer(ctx, uc.servers, cmd.SID)
	if err != nil {
		return nil, err
	}
	if srv.IsActive() == cmd.Active {
		return dto.ToServerDTO(srv), nil
	}

	if cmd.Active {
		srv.Activate()
	} else {
		srv.Deactivate()
	}
	if err := uc.servers.Update(ctx, srv); err != nil {
		uc.logger.Errorw("failed to update server status", "server_sid", srv.SID(), "error", err)
		return nil, fmt.Errorf("failed to update server status: %w", err)
	}

	uc.logger.Infow("server status changed", "server_sid", srv.SID(), "active", cmd.Active)
	return dto.ToServerDTO(srv), nil
}

func loadServer(ctx context.Context, servers server.Repository, sid string) (*server.Server, error) {
	srv, err := servers.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	if srv == nil {
		return nil, errors.NewNotFoundError("server not found", sid)
	}
	return srv, nil
}
