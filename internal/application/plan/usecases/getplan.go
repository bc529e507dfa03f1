package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/plan/dto"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

type GetPlanUseCase struct {
	plans     plan.Repository
	presenter *planPresenter
}

func NewGetPlanUseCase(
	plans plan.Repository,
	servers ServerReader,
	templates TemplateRepository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *GetPlanUseCase {
	return &GetPlanUseCase{
		plans:     plans,
		presenter: &planPresenter{servers: servers, templates: templates, renderer: renderer, logger: logger},
	}
}

func (uc *GetPlanUseCase) Execute(ctx context.Context, sid string) (*dto.PlanDTO, error) {
	p, err := uc.plans.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("plan not found", sid)
	}
	return uc.presenter.toDTO(ctx, p), nil
}

type ListPlansQuery struct {
	State    string
	Page     int
	PageSize int
}

type ListPlansUseCase struct {
	plans     plan.Repository
	presenter *planPresenter
	logger    logger.Interface
}

func NewListPlansUseCase(
	plans plan.Repository,
	servers ServerReader,
	templates TemplateRepository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *ListPlansUseCase {
	return &ListPlansUseCase{
		plans:     plans,
		presenter: &planPresenter{servers: servers, templates: templates, renderer: renderer, logger: logger},
		logger:    logger,
	}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context, q ListPlansQuery) (*dto.ListPlansResult, error) {
	filter := plan.Filter{Page: q.Page, PageSize: q.PageSize}
	if q.State != "" {
		state := plan.State(q.State)
		if state != plan.StateDraft && state != plan.StateConfirmed {
			return nil, errors.NewValidationError("invalid plan state", q.State)
		}
		filter.State = &state
	}

	plans, total, err := uc.plans.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	result := &dto.ListPlansResult{Plans: make([]*dto.PlanDTO, 0, len(plans)), Total: total}
	for _, p := range plans {
		result.Plans = append(result.Plans, uc.presenter.toDTO(ctx, p))
	}
	return result, nil
}

// GetPublicPlansUseCase lists the confirmed plans offered at signup.
type GetPublicPlansUseCase struct {
	plans    plan.Repository
	renderer markdown.Renderer
	logger   logger.Interface
}

func NewGetPublicPlansUseCase(plans plan.Repository, renderer markdown.Renderer, logger logger.Interface) *GetPublicPlansUseCase {
	return &GetPublicPlansUseCase{plans: plans, renderer: renderer, logger: logger}
}

func (uc *GetPublicPlansUseCase) Execute(ctx context.Context) ([]*dto.PublicPlanDTO, error) {
	confirmed := plan.StateConfirmed
	plans, _, err := uc.plans.List(ctx, plan.Filter{State: &confirmed})
	if err != nil {
		uc.logger.Errorw("failed to list public plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	presenter := planPresenter{renderer: uc.renderer, logger: uc.logger}
	out := make([]*dto.PublicPlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.ToPublicPlanDTO(p, presenter.render(p)))
	}
	return out, nil
}
