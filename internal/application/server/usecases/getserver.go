package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/server/dto"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type GetServerUseCase struct {
	servers server.Repository
}

func NewGetServerUseCase(servers server.Repository) *GetServerUseCase {
	return &GetServerUseCase{servers: servers}
}

func (uc *GetServerUseCase) Execute(ctx context.Context, sid string) (*dto.ServerDTO, error) {
	srv, err := loadServer(ctx, uc.servers, sid)
	if err != nil {
		return nil, err
	}
	return dto.ToServerDTO(srv), nil
}

type ListServersQuery struct {
	Active   *bool
	Page     int
	PageSize int
}

type ListServersUseCase struct {
	servers server.Repository
	logger  logger.Interface
}

func NewListServersUseCase(servers server.Repository, logger logger.Interface) *ListServersUseCase {
	return &ListServersUseCase{servers: servers, logger: logger}
}

func (uc *ListServersUseCase) Execute(ctx context.Context, q ListServersQuery) (*dto.ListServersResult, error) {
	servers, total, err := uc.servers.List(ctx, server.Filter{Active: q.Active, Page: q.Page, PageSize: q.PageSize})
	if err != nil {
		uc.logger.Errorw("failed to list servers", "error", err)
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	return &dto.ListServersResult{Servers: dto.ToServerDTOs(servers), Total: total}, nil
}
