package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/client/dto"
	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type ProvisionClientCommand struct {
	ClientSID string
	// OwnerUserID overrides the client's own user as instance owner.
	OwnerUserID *uint
}

// ProvisionClientUseCase creates the remote instance of a draft client.
type ProvisionClientUseCase struct {
	guard     *clientGuard
	plans     PlanReader
	templates TemplateReader
	users     UserReader
	commander *services.Commander
	locker    services.Locker
	refs      *refResolver
	logger    logger.Interface
}

func NewProvisionClientUseCase(
	clients client.Repository,
	servers ServerReader,
	plans PlanReader,
	templates TemplateReader,
	users UserReader,
	commander *services.Commander,
	locker services.Locker,
	settings DomainSettings,
	logger logger.Interface,
) *ProvisionClientUseCase {
	return &ProvisionClientUseCase{
		guard:     &clientGuard{clients: clients, locker: locker},
		plans:     plans,
		templates: templates,
		users:     users,
		commander: commander,
		locker:    locker,
		refs:      &refResolver{servers: servers, plans: plans, settings: settings, logger: logger},
		logger:    logger,
	}
}

func (uc *ProvisionClientUseCase) Execute(ctx context.Context, cmd ProvisionClientCommand) (*dto.ProvisionResultDTO, error) {
	var result *dto.ProvisionResultDTO

	err := uc.guard.withClientSID(ctx, cmd.ClientSID, func(ctx context.Context, c *client.Client) error {
		if c.State() != client.StateDraft {
			return errors.NewConflictError("client is already provisioned", c.State().String())
		}

		p, err := uc.planOf(ctx, c)
		if err != nil {
			return err
		}

		return uc.withinQuota(ctx, c, p, func(ctx context.Context) error {
			res, err := uc.provision(ctx, c, p, cmd)
			if err != nil {
				return err
			}
			result = res
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("client provisioned", "client_sid", cmd.ClientSID, "public_url", result.PublicURL)
	return result, nil
}

// withinQuota runs fn under the plan's quota lock once the open-client count
// leaves room for c. Draft clients are not counted, so two drafts created
// under the limit cannot both be opened.
func (uc *ProvisionClientUseCase) withinQuota(ctx context.Context, c *client.Client, p *plan.Plan, fn func(ctx context.Context) error) error {
	if p == nil {
		return fn(ctx)
	}
	return uc.locker.WithLock(ctx, services.QuotaLockKey(c.PartnerID(), p.ID(), c.Trial()), func(ctx context.Context) error {
		current, err := uc.guard.clients.CountOpen(ctx, c.PartnerID(), p.ID(), c.Trial())
		if err != nil {
			return fmt.Errorf("failed to count open clients: %w", err)
		}
		if err := p.CheckQuota(c.Trial(), current); err != nil {
			uc.logger.Infow("client quota reached at provision",
				"client_sid", c.SID(),
				"partner_id", c.PartnerID(),
				"plan_sid", p.SID(),
				"current", current,
			)
			return common.TranslateError(err)
		}
		return fn(ctx)
	})
}

func (uc *ProvisionClientUseCase) provision(ctx context.Context, c *client.Client, p *plan.Plan, cmd ProvisionClientCommand) (*dto.ProvisionResultDTO, error) {
	srv, err := uc.commander.ServerFor(ctx, &c.Database)
	if err != nil {
		return nil, common.TranslateError(err)
	}

	owner := c.UserID()
	if cmd.OwnerUserID != nil {
		owner = cmd.OwnerUserID
	}

	in := instanceState{client: c, server: srv, baseDomain: uc.refs.settings.BaseDomain}
	if err := uc.fillPlanFields(ctx, p, &in); err != nil {
		return nil, err
	}
	if in.owner, err = ownerBlock(ctx, uc.users, owner); err != nil {
		return nil, err
	}

	res, err := uc.commander.NewDatabase(ctx, &c.Database, in.build(), command.ClientScope())
	if err != nil {
		uc.logger.Errorw("failed to provision client",
			"client_sid", c.SID(),
			"server", srv.Domain(),
			"error", err,
		)
		return nil, common.TranslateError(err)
	}

	if err := applyProvisionResult(c, res); err != nil {
		return nil, common.TranslateError(err)
	}
	if err := uc.guard.clients.Update(ctx, c); err != nil {
		uc.logger.Errorw("failed to persist provisioned client", "client_sid", c.SID(), "error", err)
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	clientDTO := uc.refs.toDTO(ctx, c)
	return &dto.ProvisionResultDTO{Client: clientDTO, PublicURL: clientDTO.PublicURL}, nil
}

func (uc *ProvisionClientUseCase) planOf(ctx context.Context, c *client.Client) (*plan.Plan, error) {
	if c.PlanID() == nil {
		return nil, nil
	}
	p, err := uc.plans.GetByID(ctx, *c.PlanID())
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return p, nil
}

func (uc *ProvisionClientUseCase) fillPlanFields(ctx context.Context, p *plan.Plan, in *instanceState) error {
	if p == nil {
		return nil
	}
	in.lang, in.tz = p.Lang(), p.TZ()

	if p.TemplateDatabaseID() != nil {
		tpl, err := uc.templates.GetByID(ctx, *p.TemplateDatabaseID())
		if err != nil {
			return fmt.Errorf("failed to get template database: %w", err)
		}
		if tpl != nil {
			in.template = tpl.Name()
		}
	}
	return nil
}

// instanceState assembles the new_database state for a client instance.
type instanceState struct {
	client     *client.Client
	server     *server.Server
	baseDomain string
	owner      map[string]any
	lang       string
	tz         string
	template   string
	noMail     bool
}

func (s instanceState) build() command.State {
	base := s.baseDomain
	if base == "" {
		base = s.server.Domain()
	}
	publicURL := s.client.PublicURL(s.server.Scheme().String(), base)

	state := command.State{
		"d":          s.client.Name(),
		"e":          biztime.FormatServerDatetime(s.client.ExpirationDatetime()),
		"r":          publicURL + "web",
		"public_url": publicURL,
	}
	if s.owner != nil {
		state["owner_user"] = s.owner
	}
	if s.lang != "" {
		state["lang"] = s.lang
	}
	if s.tz != "" {
		state["tz"] = s.tz
	}
	if s.template != "" {
		state["db_template"] = s.template
	}
	if s.noMail {
		state["disable_mail_server"] = true
	}
	return state
}

func ownerBlock(ctx context.Context, users UserReader, userID *uint) (map[string]any, error) {
	if userID == nil {
		return nil, nil
	}
	u, err := users.GetByID(ctx, *userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portal user: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	return u.OwnerBlock(), nil
}

func applyProvisionResult(c *client.Client, res *command.Result) error {
	if err := c.ApplyCommandResult(res.SuperuserPassword, res.State, res.Extra); err != nil {
		return err
	}
	return c.Open()
}
