package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/application/plan/dto"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/id"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

// PlanInput carries the editable plan fields.
type PlanInput struct {
	Name                  string
	Summary               string
	WebsiteDescription    string
	DBNameTemplate        string
	MaxUsers              int
	TotalStorageLimit     int64
	BlockOnExpiration     bool
	BlockOnStorageExceed  bool
	MaxDBsPerPartner      int
	MaxTrialDBsPerPartner int
	ExpirationHours       int
	GracePeriodDays       int
	Lang                  string
	TZ                    string
	Demo                  bool
	Sequence              int
	// ServerSID pins the plan to a server; empty lets the registry choose.
	ServerSID string
}

type CreatePlanCommand struct {
	PlanInput
	// TemplateName creates the plan's template database record when set.
	TemplateName string
}

type CreatePlanUseCase struct {
	plans     plan.Repository
	templates TemplateRepository
	names     NameChecker
	presenter *planPresenter
	logger    logger.Interface
}

func NewCreatePlanUseCase(
	plans plan.Repository,
	servers ServerReader,
	templates TemplateRepository,
	names NameChecker,
	renderer markdown.Renderer,
	logger logger.Interface,
) *CreatePlanUseCase {
	return &CreatePlanUseCase{
		plans:     plans,
		templates: templates,
		names:     names,
		presenter: &planPresenter{servers: servers, templates: templates, renderer: renderer, logger: logger},
		logger:    logger,
	}
}

func (uc *CreatePlanUseCase) Execute(ctx context.Context, cmd CreatePlanCommand) (*dto.PlanDTO, error) {
	attrs, err := toAttributes(ctx, uc.presenter.servers, cmd.PlanInput)
	if err != nil {
		return nil, err
	}

	sid, err := id.NewPlanSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan ID: %w", err)
	}
	p, err := plan.NewPlan(sid, attrs)
	if err != nil {
		return nil, common.TranslateError(err)
	}

	if cmd.TemplateName != "" {
		taken, err := uc.names.NameTaken(ctx, cmd.TemplateName)
		if err != nil {
			return nil, fmt.Errorf("failed to check template name: %w", err)
		}
		if taken {
			return nil, errors.NewConflictError("database already taken", cmd.TemplateName)
		}
	}

	if err := uc.plans.Create(ctx, p); err != nil {
		uc.logger.Errorw("failed to create plan", "name", attrs.Name, "error", err)
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	if cmd.TemplateName != "" {
		if err := uc.attachTemplate(ctx, p, cmd.TemplateName); err != nil {
			return nil, err
		}
	}

	uc.logger.Infow("plan created", "plan_sid", p.SID(), "name", p.Name())
	return uc.presenter.toDTO(ctx, p), nil
}

func (uc *CreatePlanUseCase) attachTemplate(ctx context.Context, p *plan.Plan, name string) error {
	dbSID, err := id.NewDatabaseSID()
	if err != nil {
		return fmt.Errorf("failed to generate database ID: %w", err)
	}
	tpl, err := client.NewDatabase(dbSID, name, id.NewCorrelationID())
	if err != nil {
		return common.TranslateError(err)
	}
	if p.ServerID() != nil {
		if err := tpl.AssignServer(*p.ServerID()); err != nil {
			return common.TranslateError(err)
		}
	}
	if err := uc.templates.Create(ctx, tpl); err != nil {
		uc.logger.Errorw("failed to create template database", "plan_sid", p.SID(), "error", err)
		return fmt.Errorf("failed to create template database: %w", err)
	}
	if err := p.AttachTemplate(tpl.ID()); err != nil {
		return common.TranslateError(err)
	}
	if err := uc.plans.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

func toAttributes(ctx context.Context, servers ServerReader, in PlanInput) (plan.Attributes, error) {
	attrs := plan.Attributes{
		Name:               in.Name,
		Summary:            in.Summary,
		WebsiteDescription: in.WebsiteDescription,
		DBNameTemplate:     in.DBNameTemplate,
		Defaults: client.Limits{
			MaxUsers:             in.MaxUsers,
			TotalStorageLimit:    in.TotalStorageLimit,
			BlockOnExpiration:    in.BlockOnExpiration,
			BlockOnStorageExceed: in.BlockOnStorageExceed,
		},
		MaxDBsPerPartner:      in.MaxDBsPerPartner,
		MaxTrialDBsPerPartner: in.MaxTrialDBsPerPartner,
		ExpirationHours:       in.ExpirationHours,
		GracePeriodDays:       in.GracePeriodDays,
		Lang:                  in.Lang,
		TZ:                    in.TZ,
		Demo:                  in.Demo,
		Sequence:              in.Sequence,
	}

	if in.ServerSID != "" {
		srv, err := servers.GetBySID(ctx, in.ServerSID)
		if err != nil {
			return plan.Attributes{}, fmt.Errorf("failed to get server: %w", err)
		}
		if srv == nil {
			return plan.Attributes{}, errors.NewNotFoundError("server not found", in.ServerSID)
		}
		serverID := srv.ID()
		attrs.ServerID = &serverID
	}
	return attrs, nil
}
