package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/client/dto"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type GetClientUseCase struct {
	clients client.Repository
	refs    *refResolver
	logger  logger.Interface
}

func NewGetClientUseCase(
	clients client.Repository,
	servers ServerReader,
	plans PlanReader,
	settings DomainSettings,
	logger logger.Interface,
) *GetClientUseCase {
	return &GetClientUseCase{
		clients: clients,
		refs:    &refResolver{servers: servers, plans: plans, settings: settings, logger: logger},
		logger:  logger,
	}
}

func (uc *GetClientUseCase) Execute(ctx context.Context, sid string) (*dto.ClientDTO, error) {
	c, err := uc.clients.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get client", "client_sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("client not found", sid)
	}
	return uc.refs.toDTO(ctx, c), nil
}

type ListClientsQuery struct {
	PartnerID *uint
	PlanSID   string
	State     string
	Trial     *bool
	Expired   *bool
	Page      int
	PageSize  int
}

type ListClientsUseCase struct {
	clients client.Repository
	plans   PlanReader
	refs    *refResolver
	logger  logger.Interface
}

func NewListClientsUseCase(
	clients client.Repository,
	servers ServerReader,
	plans PlanReader,
	settings DomainSettings,
	logger logger.Interface,
) *ListClientsUseCase {
	return &ListClientsUseCase{
		clients: clients,
		plans:   plans,
		refs:    &refResolver{servers: servers, plans: plans, settings: settings, logger: logger},
		logger:  logger,
	}
}

func (uc *ListClientsUseCase) Execute(ctx context.Context, q ListClientsQuery) (*dto.ListClientsResult, error) {
	filter := client.Filter{
		PartnerID: q.PartnerID,
		Trial:     q.Trial,
		Expired:   q.Expired,
		Page:      q.Page,
		PageSize:  q.PageSize,
	}

	if q.State != "" {
		state := client.State(q.State)
		if !state.IsValid() {
			return nil, errors.NewValidationError("invalid client state", q.State)
		}
		filter.State = &state
	}

	if q.PlanSID != "" {
		p, err := uc.plans.GetBySID(ctx, q.PlanSID)
		if err != nil {
			return nil, fmt.Errorf("failed to get plan: %w", err)
		}
		if p == nil {
			return nil, errors.NewNotFoundError("plan not found", q.PlanSID)
		}
		planID := p.ID()
		filter.PlanID = &planID
	}

	clients, total, err := uc.clients.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list clients", "error", err)
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	result := &dto.ListClientsResult{
		Clients: make([]*dto.ClientDTO, 0, len(clients)),
		Total:   total,
	}
	for _, c := range clients {
		result.Clients = append(result.Clients, uc.refs.toDTO(ctx, c))
	}
	return result, nil
}
