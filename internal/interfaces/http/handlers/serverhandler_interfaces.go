package handlers

import (
	"context"

	"github.com/orris-inc/saasportal/internal/application/server/dto"
	"github.com/orris-inc/saasportal/internal/application/server/usecases"
)

// Use case interfaces for ServerHandler

type createServerUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateServerCommand) (*dto.ServerDTO, error)
}

type updateServerUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateServerCommand) (*dto.ServerDTO, error)
}

type updateServerStatusUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateServerStatusCommand) (*dto.ServerDTO, error)
}

type getServerUseCase interface {
	Execute(ctx context.Context, sid string) (*dto.ServerDTO, error)
}

type listServersUseCase interface {
	Execute(ctx context.Context, query usecases.ListServersQuery) (*dto.ListServersResult, error)
}

type deleteServerUseCase interface {
	Execute(ctx context.Context, sid string) error
}
