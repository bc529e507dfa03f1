package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/application/server/dto"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/id"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

const generatedSecretLength = 40

type CreateServerCommand struct {
	Domain   string
	Scheme   string
	Host     string
	Provider string
	// Secret signs command state; generated when empty.
	Secret   string
	Sequence int
}

type CreateServerUseCase struct {
	servers server.Repository
	logger  logger.Interface
}

func NewCreateServerUseCase(servers server.Repository, logger logger.Interface) *CreateServerUseCase {
	return &CreateServerUseCase{servers: servers, logger: logger}
}

func (uc *CreateServerUseCase) Execute(ctx context.Context, cmd CreateServerCommand) (*dto.ServerDTO, error) {
	secret := cmd.Secret
	if secret == "" {
		generated, err := id.Generate(generatedSecretLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate server secret: %w", err)
		}
		secret = generated
	}

	sid, err := id.NewServerSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate server ID: %w", err)
	}
	srv, err := server.NewServer(sid, cmd.Domain, server.Scheme(cmd.Scheme), cmd.Host, cmd.Provider, secret, cmd.Sequence)
	if err != nil {
		return nil, common.TranslateError(err)
	}

	existing, err := uc.servers.GetByDomain(ctx, srv.Domain())
	if err != nil {
		return nil, fmt.Errorf("failed to check server domain: %w", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("server domain already exists", srv.Domain())
	}

	if err := uc.servers.Create(ctx, srv); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("server domain already exists", srv.Domain())
		}
		uc.logger.Errorw("failed to create server", "domain", srv.Domain(), "error", err)
		return nil, common.TranslateError(fmt.Errorf("failed to create server: %w", err))
	}

	uc.logger.Infow("server registered", "server_sid", srv.SID(), "domain", srv.Domain())
	return dto.ToServerDTO(srv), nil
}
