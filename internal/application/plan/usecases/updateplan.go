package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/application/plan/dto"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

type UpdatePlanCommand struct {
	PlanSID string
	PlanInput
}

// UpdatePlanUseCase replaces a plan's editable fields. Existing clients keep
// the limits they were created with.
type UpdatePlanUseCase struct {
	plans     plan.Repository
	presenter *planPresenter
	logger    logger.Interface
}

func NewUpdatePlanUseCase(
	plans plan.Repository,
	servers ServerReader,
	templates TemplateRepository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *UpdatePlanUseCase {
	return &UpdatePlanUseCase{
		plans:     plans,
		presenter: &planPresenter{servers: servers, templates: templates, renderer: renderer, logger: logger},
		logger:    logger,
	}
}

func (uc *UpdatePlanUseCase) Execute(ctx context.Context, cmd UpdatePlanCommand) (*dto.PlanDTO, error) {
	p, err := uc.plans.GetBySID(ctx, cmd.PlanSID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("plan not found", cmd.PlanSID)
	}

	attrs, err := toAttributes(ctx, uc.presenter.servers, cmd.PlanInput)
	if err != nil {
		return nil, err
	}
	if err := p.Update(attrs); err != nil {
		return nil, common.TranslateError(err)
	}
	if err := uc.plans.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to update plan", "plan_sid", p.SID(), "error", err)
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	uc.logger.Infow("plan updated", "plan_sid", p.SID())
	return uc.presenter.toDTO(ctx, p), nil
}
