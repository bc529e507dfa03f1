package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/saasportal/internal/application/client/dto"
	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type ChangeExpirationCommand struct {
	ClientSID string
	// Expiration nil removes the expiration.
	Expiration *time.Time
}

// ChangeExpirationUseCase moves a client's expiration. The instance is
// upgraded first; the record only changes once the server accepted it.
type ChangeExpirationUseCase struct {
	guard     *clientGuard
	commander *services.Commander
	hook      notification.Hook
	refs      *refResolver
	logger    logger.Interface
}

func NewChangeExpirationUseCase(
	clients client.Repository,
	servers ServerReader,
	plans PlanReader,
	commander *services.Commander,
	locker services.Locker,
	hook notification.Hook,
	settings DomainSettings,
	logger logger.Interface,
) *ChangeExpirationUseCase {
	return &ChangeExpirationUseCase{
		guard:     &clientGuard{clients: clients, locker: locker},
		commander: commander,
		hook:      hook,
		refs:      &refResolver{servers: servers, plans: plans, settings: settings, logger: logger},
		logger:    logger,
	}
}

func (uc *ChangeExpirationUseCase) Execute(ctx context.Context, cmd ChangeExpirationCommand) (*dto.ClientDTO, error) {
	var (
		updated  *client.Client
		previous string
	)

	err := uc.guard.withClientSID(ctx, cmd.ClientSID, func(ctx context.Context, c *client.Client) error {
		change, err := c.StageExpiration(cmd.Expiration)
		if err != nil {
			return common.TranslateError(err)
		}

		if _, err := uc.commander.Upgrade(ctx, &c.Database, change.Payload); err != nil {
			uc.logger.Errorw("failed to push expiration to client",
				"client_sid", c.SID(),
				"expiration", biztime.FormatServerDatetime(change.Next()),
				"error", err,
			)
			return common.TranslateError(err)
		}

		previous = biztime.FormatServerDatetime(change.Previous())
		if err := c.CommitExpiration(change); err != nil {
			return common.TranslateError(err)
		}
		if err := uc.guard.clients.Update(ctx, c); err != nil {
			uc.logger.Errorw("failed to persist expiration", "client_sid", c.SID(), "error", err)
			return fmt.Errorf("failed to update client: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if exp := updated.ExpirationDatetime(); exp != nil {
		event := notification.NewEvent(notification.TemplateExpirationUpdated, updated.ID(), updated.SID(),
			map[string]any{"expiration_datetime": biztime.FormatServerDatetime(exp)})
		if err := uc.hook.Notify(ctx, event); err != nil {
			uc.logger.Warnw("failed to send expiration update notification", "client_sid", updated.SID(), "error", err)
		}
	}

	uc.logger.Infow("client expiration changed",
		"client_sid", updated.SID(),
		"previous", previous,
		"expiration", biztime.FormatServerDatetime(updated.ExpirationDatetime()),
	)
	return uc.refs.toDTO(ctx, updated), nil
}
