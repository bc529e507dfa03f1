package usecases

import (
	"context"
	"fmt"

	clientservices "github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/application/plan/dto"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

type DeleteTemplateCommand struct {
	PlanSID string
	Force   bool
}

// DeleteTemplateUseCase drops a plan's template database, which returns the
// plan to draft.
type DeleteTemplateUseCase struct {
	plans     plan.Repository
	templates TemplateRepository
	commander *clientservices.Commander
	locker    clientservices.Locker
	presenter *planPresenter
	logger    logger.Interface
}

func NewDeleteTemplateUseCase(
	plans plan.Repository,
	servers ServerReader,
	templates TemplateRepository,
	commander *clientservices.Commander,
	locker clientservices.Locker,
	renderer markdown.Renderer,
	logger logger.Interface,
) *DeleteTemplateUseCase {
	return &DeleteTemplateUseCase{
		plans:     plans,
		templates: templates,
		commander: commander,
		locker:    locker,
		presenter: &planPresenter{servers: servers, templates: templates, renderer: renderer, logger: logger},
		logger:    logger,
	}
}

func (uc *DeleteTemplateUseCase) Execute(ctx context.Context, cmd DeleteTemplateCommand) (*dto.TemplateResultDTO, error) {
	p, err := uc.plans.GetBySID(ctx, cmd.PlanSID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("plan not found", cmd.PlanSID)
	}

	var result *dto.TemplateResultDTO
	err = uc.locker.WithLock(ctx, clientservices.TemplateLockKey(p.ID()), func(ctx context.Context) error {
		tpl, err := loadTemplate(ctx, uc.templates, p)
		if err != nil {
			return err
		}

		if tpl.State() != client.StateDeleted {
			if err := uc.commander.Delete(ctx, tpl, cmd.Force); err != nil {
				uc.logger.Errorw("failed to delete plan template",
					"plan_sid", p.SID(),
					"template", tpl.Name(),
					"error", err,
				)
				return common.TranslateError(err)
			}
			if err := tpl.MarkDeleted(); err != nil {
				return common.TranslateError(err)
			}
			if err := uc.templates.Update(ctx, tpl); err != nil {
				return fmt.Errorf("failed to update template database: %w", err)
			}
		}

		if err := syncPlanState(ctx, uc.plans, p, tpl); err != nil {
			return err
		}

		uc.logger.Infow("plan template deleted", "plan_sid", p.SID(), "template", tpl.Name())
		result = &dto.TemplateResultDTO{
			Plan:          uc.presenter.toDTO(ctx, p),
			TemplateSID:   tpl.SID(),
			TemplateState: tpl.State().String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
