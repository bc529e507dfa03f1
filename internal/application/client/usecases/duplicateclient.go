package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/saasportal/internal/application/client/dto"
	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/id"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type DuplicateClientCommand struct {
	SourceSID string
	DBName    string
	// PartnerID defaults to the source partner.
	PartnerID *uint
	// ExpirationHours sets the copy's expiration from now when positive.
	ExpirationHours int
	OwnerUserID     *uint
}

// DuplicateClientUseCase creates a new instance seeded from an existing one.
// The copy runs with outgoing mail disabled.
type DuplicateClientUseCase struct {
	clients   client.Repository
	servers   ServerReader
	selector  ServerSelector
	users     UserReader
	commander *services.Commander
	refs      *refResolver
	logger    logger.Interface
	now       func() time.Time
}

func NewDuplicateClientUseCase(
	clients client.Repository,
	servers ServerReader,
	selector ServerSelector,
	plans PlanReader,
	users UserReader,
	commander *services.Commander,
	settings DomainSettings,
	logger logger.Interface,
) *DuplicateClientUseCase {
	return &DuplicateClientUseCase{
		clients:   clients,
		servers:   servers,
		selector:  selector,
		users:     users,
		commander: commander,
		refs:      &refResolver{servers: servers, plans: plans, settings: settings, logger: logger},
		logger:    logger,
		now:       biztime.NowUTC,
	}
}

func (uc *DuplicateClientUseCase) Execute(ctx context.Context, cmd DuplicateClientCommand) (*dto.ProvisionResultDTO, error) {
	if cmd.DBName == "" {
		return nil, errors.NewValidationError("database name is required")
	}
	if cmd.ExpirationHours < 0 {
		return nil, errors.NewValidationError("expiration hours cannot be negative")
	}

	source, err := uc.clients.GetBySID(ctx, cmd.SourceSID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if source == nil {
		return nil, errors.NewNotFoundError("client not found", cmd.SourceSID)
	}
	if !source.Active() {
		return nil, common.TranslateError(client.ErrDatabaseDeleted)
	}

	taken, err := uc.clients.NameTaken(ctx, cmd.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to check database name: %w", err)
	}
	if taken {
		return nil, errors.NewConflictError("database already taken", cmd.DBName)
	}

	srv, err := uc.serverFor(ctx, source)
	if err != nil {
		return nil, common.TranslateError(err)
	}

	dup, err := uc.newCopy(source, cmd)
	if err != nil {
		return nil, common.TranslateError(err)
	}
	if err := dup.AssignServer(srv.ID()); err != nil {
		return nil, common.TranslateError(err)
	}
	if err := uc.clients.Create(ctx, dup); err != nil {
		uc.logger.Errorw("failed to create duplicate client", "source_sid", source.SID(), "error", err)
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	owner := source.UserID()
	if cmd.OwnerUserID != nil {
		owner = cmd.OwnerUserID
	}
	in := instanceState{
		client:     dup,
		server:     srv,
		baseDomain: uc.refs.settings.BaseDomain,
		template:   source.Name(),
		noMail:     true,
	}
	if in.owner, err = ownerBlock(ctx, uc.users, owner); err != nil {
		return nil, err
	}

	res, err := uc.commander.NewDatabase(ctx, &dup.Database, in.build(), command.ClientScope())
	if err != nil {
		// the draft record stays so the copy can be provisioned again or removed
		uc.logger.Errorw("failed to duplicate client",
			"source_sid", source.SID(),
			"client_sid", dup.SID(),
			"error", err,
		)
		return nil, common.TranslateError(err)
	}
	if err := applyProvisionResult(dup, res); err != nil {
		return nil, common.TranslateError(err)
	}
	if err := uc.clients.Update(ctx, dup); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	uc.logger.Infow("client duplicated", "source_sid", source.SID(), "client_sid", dup.SID())

	clientDTO := uc.refs.toDTO(ctx, dup)
	return &dto.ProvisionResultDTO{Client: clientDTO, PublicURL: clientDTO.PublicURL}, nil
}

func (uc *DuplicateClientUseCase) serverFor(ctx context.Context, source *client.Client) (*server.Server, error) {
	if source.ServerID() != nil {
		srv, err := uc.servers.GetByID(ctx, *source.ServerID())
		if err != nil {
			return nil, fmt.Errorf("failed to get server: %w", err)
		}
		if srv != nil {
			return srv, nil
		}
	}
	return uc.selector.SelectServer(ctx)
}

func (uc *DuplicateClientUseCase) newCopy(source *client.Client, cmd DuplicateClientCommand) (*client.Client, error) {
	sid, err := id.NewClientSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate client ID: %w", err)
	}

	owner := client.Ownership{
		PartnerID: source.PartnerID(),
		PlanID:    source.PlanID(),
		UserID:    source.UserID(),
	}
	if cmd.PartnerID != nil {
		owner.PartnerID = *cmd.PartnerID
	}
	if cmd.OwnerUserID != nil {
		owner.UserID = cmd.OwnerUserID
	}

	var expiration *time.Time
	if cmd.ExpirationHours > 0 {
		exp := uc.now().Add(time.Duration(cmd.ExpirationHours) * time.Hour)
		expiration = &exp
	}

	return client.NewClient(sid, cmd.DBName, id.NewCorrelationID(), owner,
		false, cmd.ExpirationHours, expiration, source.Limits())
}
