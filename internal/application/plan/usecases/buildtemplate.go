package usecases

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	clientservices "github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/application/plan/dto"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

type BuildTemplateCommand struct {
	PlanSID string
	Addons  []string
}

// BuildTemplateUseCase creates a plan's template database on the plan's
// server. Concurrent builds of one plan share a single remote call.
type BuildTemplateUseCase struct {
	plans     plan.Repository
	templates TemplateRepository
	commander *clientservices.Commander
	locker    clientservices.Locker
	presenter *planPresenter
	group     singleflight.Group
	logger    logger.Interface
}

func NewBuildTemplateUseCase(
	plans plan.Repository,
	servers ServerReader,
	templates TemplateRepository,
	commander *clientservices.Commander,
	locker clientservices.Locker,
	renderer markdown.Renderer,
	logger logger.Interface,
) *BuildTemplateUseCase {
	return &BuildTemplateUseCase{
		plans:     plans,
		templates: templates,
		commander: commander,
		locker:    locker,
		presenter: &planPresenter{servers: servers, templates: templates, renderer: renderer, logger: logger},
		logger:    logger,
	}
}

func (uc *BuildTemplateUseCase) Execute(ctx context.Context, cmd BuildTemplateCommand) (*dto.TemplateResultDTO, error) {
	v, err, shared := uc.group.Do(cmd.PlanSID, func() (any, error) {
		return uc.build(ctx, cmd)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		uc.logger.Debugw("template build shared with a concurrent caller", "plan_sid", cmd.PlanSID)
	}
	return v.(*dto.TemplateResultDTO), nil
}

func (uc *BuildTemplateUseCase) build(ctx context.Context, cmd BuildTemplateCommand) (*dto.TemplateResultDTO, error) {
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
		if p.ServerID() == nil {
			return common.TranslateError(plan.ErrServerNotPinned)
		}
		if err := tpl.AssignServer(*p.ServerID()); err != nil {
			return common.TranslateError(err)
		}
		if err := uc.templates.Update(ctx, tpl); err != nil {
			return fmt.Errorf("failed to pin template server: %w", err)
		}

		addons := cmd.Addons
		if addons == nil {
			addons = []string{}
		}
		demo := 0
		if p.Demo() {
			demo = 1
		}
		state := command.State{
			"d":              tpl.Name(),
			"demo":           demo,
			"addons":         addons,
			"lang":           p.Lang(),
			"tz":             p.TZ(),
			"is_template_db": 1,
		}

		res, err := uc.commander.NewDatabase(ctx, tpl, state, nil)
		if err != nil {
			uc.logger.Errorw("failed to build plan template",
				"plan_sid", p.SID(),
				"template", tpl.Name(),
				"error", err,
			)
			return common.TranslateError(err)
		}

		if err := tpl.ApplyCommandResult(res.SuperuserPassword, res.State, res.Extra); err != nil {
			return common.TranslateError(err)
		}
		if err := uc.templates.Update(ctx, tpl); err != nil {
			return fmt.Errorf("failed to update template database: %w", err)
		}
		if err := syncPlanState(ctx, uc.plans, p, tpl); err != nil {
			return err
		}

		uc.logger.Infow("plan template built", "plan_sid", p.SID(), "template", tpl.Name(), "state", tpl.State())
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

func loadTemplate(ctx context.Context, templates TemplateRepository, p *plan.Plan) (*client.Database, error) {
	if p.TemplateDatabaseID() == nil {
		return nil, common.TranslateError(plan.ErrTemplateDBMissing)
	}
	tpl, err := templates.GetByID(ctx, *p.TemplateDatabaseID())
	if err != nil {
		return nil, fmt.Errorf("failed to get template database: %w", err)
	}
	if tpl == nil {
		return nil, common.TranslateError(fmt.Errorf("%w: id %d", client.ErrDatabaseNotFound, *p.TemplateDatabaseID()))
	}
	return tpl, nil
}

func syncPlanState(ctx context.Context, plans plan.Repository, p *plan.Plan, tpl *client.Database) error {
	if !p.SyncState(tpl.State()) {
		return nil
	}
	if err := plans.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update plan state: %w", err)
	}
	return nil
}
