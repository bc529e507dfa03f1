package usecases

import (
	"context"
	"fmt"
	"time"

	clientdto "github.com/orris-inc/saasportal/internal/application/client/dto"
	clientservices "github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/id"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// CreateClientCommand requests a new client record. Zero-valued overrides
// inherit the plan defaults.
type CreateClientCommand struct {
	// PlanSID empty selects the first confirmed plan.
	PlanSID string
	// DBName empty generates a name from the plan template.
	DBName string
	// ClientID is the caller's correlation id; a repeated id updates the
	// earlier record instead of creating another one.
	ClientID   string
	PartnerID  *uint
	UserID     *uint
	Trial      bool
	NotifyUser bool

	MaxUsers             *int
	TotalStorageLimit    *int64
	BlockOnExpiration    *bool
	BlockOnStorageExceed *bool
}

// CreateClientUseCase admits a new client against the plan quotas and
// stores it as draft. Nothing is sent to a server here.
type CreateClientUseCase struct {
	plans    plan.Repository
	clients  client.Repository
	servers  ServerReader
	selector ServerSelector
	users    UserReader
	sequence plan.Sequence
	locker   clientservices.Locker
	tx       TxRunner
	hook     notification.Hook
	settings DomainSettings
	logger   logger.Interface
	now      func() time.Time
}

func NewCreateClientUseCase(
	plans plan.Repository,
	clients client.Repository,
	servers ServerReader,
	selector ServerSelector,
	users UserReader,
	sequence plan.Sequence,
	locker clientservices.Locker,
	tx TxRunner,
	hook notification.Hook,
	settings DomainSettings,
	logger logger.Interface,
) *CreateClientUseCase {
	return &CreateClientUseCase{
		plans:    plans,
		clients:  clients,
		servers:  servers,
		selector: selector,
		users:    users,
		sequence: sequence,
		locker:   locker,
		tx:       tx,
		hook:     hook,
		settings: settings,
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

func (uc *CreateClientUseCase) Execute(ctx context.Context, cmd CreateClientCommand) (*clientdto.ClientDTO, error) {
	if (cmd.MaxUsers != nil && *cmd.MaxUsers < 0) || (cmd.TotalStorageLimit != nil && *cmd.TotalStorageLimit < 0) {
		return nil, errors.NewValidationError("client limits cannot be negative")
	}

	partnerID, err := uc.resolvePartner(ctx, cmd)
	if err != nil {
		return nil, err
	}

	p, err := uc.resolvePlan(ctx, cmd.PlanSID)
	if err != nil {
		return nil, err
	}
	if err := p.EnsureConfirmed(); err != nil {
		return nil, common.TranslateError(err)
	}

	var (
		created *client.Client
		srv     *server.Server
	)
	lockKey := clientservices.QuotaLockKey(partnerID, p.ID(), cmd.Trial)
	err = uc.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		return uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
			current, err := uc.clients.CountOpen(ctx, partnerID, p.ID(), cmd.Trial)
			if err != nil {
				return fmt.Errorf("failed to count open clients: %w", err)
			}
			if err := p.CheckQuota(cmd.Trial, current); err != nil {
				uc.logger.Infow("client quota reached",
					"partner_id", partnerID,
					"plan_sid", p.SID(),
					"trial", cmd.Trial,
					"current", current,
				)
				return common.TranslateError(err)
			}

			if srv, err = uc.pickServer(ctx, p); err != nil {
				return err
			}

			name := cmd.DBName
			if name == "" {
				if name, err = generateName(ctx, uc.sequence, p); err != nil {
					return err
				}
			}

			created, err = uc.upsert(ctx, cmd, p, srv, partnerID, name)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("client created",
		"client_sid", created.SID(),
		"name", created.Name(),
		"partner_id", partnerID,
		"plan_sid", p.SID(),
		"trial", cmd.Trial,
	)

	refs := clientdto.Refs{
		PlanSID:    p.SID(),
		ServerSID:  srv.SID(),
		Scheme:     srv.Scheme().String(),
		BaseDomain: uc.settings.BaseDomain,
	}
	if refs.BaseDomain == "" {
		refs.BaseDomain = srv.Domain()
	}
	result := clientdto.ToClientDTO(created, refs)

	if cmd.NotifyUser {
		event := notification.NewEvent(notification.TemplateCreateSaaS, created.ID(), created.SID(), map[string]any{
			"name":       created.Name(),
			"public_url": result.PublicURL,
			"trial":      created.Trial(),
		})
		if err := uc.hook.Notify(ctx, event); err != nil {
			uc.logger.Warnw("failed to send client created notification", "client_sid", created.SID(), "error", err)
		}
	}
	return result, nil
}

func (uc *CreateClientUseCase) resolvePartner(ctx context.Context, cmd CreateClientCommand) (uint, error) {
	if cmd.PartnerID != nil && *cmd.PartnerID != 0 {
		return *cmd.PartnerID, nil
	}
	if cmd.UserID == nil {
		return 0, errors.NewValidationError("partner or user is required")
	}
	u, err := uc.users.GetByID(ctx, *cmd.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to get portal user: %w", err)
	}
	if u == nil {
		return 0, errors.NewNotFoundError("portal user not found", fmt.Sprint(*cmd.UserID))
	}
	return u.PartnerID, nil
}

func (uc *CreateClientUseCase) resolvePlan(ctx context.Context, sid string) (*plan.Plan, error) {
	if sid == "" {
		p, err := uc.plans.FirstConfirmed(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get default plan: %w", err)
		}
		if p == nil {
			return nil, errors.NewNotFoundError("there is no plan configured")
		}
		return p, nil
	}

	p, err := uc.plans.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("plan not found", sid)
	}
	return p, nil
}

func (uc *CreateClientUseCase) pickServer(ctx context.Context, p *plan.Plan) (*server.Server, error) {
	if p.ServerID() != nil {
		srv, err := uc.servers.GetByID(ctx, *p.ServerID())
		if err != nil {
			return nil, fmt.Errorf("failed to get plan server: %w", err)
		}
		if srv == nil {
			return nil, common.TranslateError(fmt.Errorf("%w: id %d", server.ErrServerNotFound, *p.ServerID()))
		}
		return srv, nil
	}

	srv, err := uc.selector.SelectServer(ctx)
	if err != nil {
		return nil, common.TranslateError(err)
	}
	return srv, nil
}

func (uc *CreateClientUseCase) upsert(ctx context.Context, cmd CreateClientCommand, p *plan.Plan,
	srv *server.Server, partnerID uint, name string) (*client.Client, error) {
	planID := p.ID()
	owner := client.Ownership{PartnerID: partnerID, PlanID: &planID, UserID: cmd.UserID}
	expiration := p.ExpirationFor(cmd.Trial, uc.now())
	limits := overrideLimits(p.Defaults(), cmd)
	trialHours := 0
	if cmd.Trial {
		trialHours = p.ExpirationHours()
	}

	var existing *client.Client
	if cmd.ClientID != "" {
		var err error
		if existing, err = uc.clients.GetByClientID(ctx, cmd.ClientID); err != nil {
			return nil, fmt.Errorf("failed to get client by correlation id: %w", err)
		}
	}

	if existing == nil || existing.Name() != name {
		taken, err := uc.clients.NameTaken(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check database name: %w", err)
		}
		if taken {
			return nil, errors.NewConflictError("database already taken", name)
		}
	}

	if existing != nil {
		if err := existing.Reassign(name, owner, cmd.Trial, trialHours, expiration, limits); err != nil {
			return nil, common.TranslateError(err)
		}
		if err := existing.AssignServer(srv.ID()); err != nil {
			return nil, common.TranslateError(err)
		}
		if err := uc.clients.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update client: %w", err)
		}
		return existing, nil
	}

	sid, err := id.NewClientSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate client ID: %w", err)
	}
	correlationID := cmd.ClientID
	if correlationID == "" {
		correlationID = id.NewCorrelationID()
	}

	c, err := client.NewClient(sid, name, correlationID, owner, cmd.Trial, trialHours, expiration, limits)
	if err != nil {
		return nil, common.TranslateError(err)
	}
	if err := c.AssignServer(srv.ID()); err != nil {
		return nil, common.TranslateError(err)
	}
	if err := uc.clients.Create(ctx, c); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("database already taken", name)
		}
		uc.logger.Errorw("failed to create client", "name", name, "error", err)
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

func overrideLimits(defaults client.Limits, cmd CreateClientCommand) client.Limits {
	limits := defaults
	if cmd.MaxUsers != nil {
		limits.MaxUsers = *cmd.MaxUsers
	}
	if cmd.TotalStorageLimit != nil {
		limits.TotalStorageLimit = *cmd.TotalStorageLimit
	}
	if cmd.BlockOnExpiration != nil {
		limits.BlockOnExpiration = *cmd.BlockOnExpiration
	}
	if cmd.BlockOnStorageExceed != nil {
		limits.BlockOnStorageExceed = *cmd.BlockOnStorageExceed
	}
	return limits
}
