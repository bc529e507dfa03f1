package usecases

import (
	"context"

	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// SyncClientParamsUseCase pushes the stored limits and expiration to the instance.
type SyncClientParamsUseCase struct {
	guard     *clientGuard
	commander *services.Commander
	logger    logger.Interface
}

func NewSyncClientParamsUseCase(
	clients client.Repository,
	commander *services.Commander,
	locker services.Locker,
	logger logger.Interface,
) *SyncClientParamsUseCase {
	return &SyncClientParamsUseCase{
		guard:     &clientGuard{clients: clients, locker: locker},
		commander: commander,
		logger:    logger,
	}
}

func (uc *SyncClientParamsUseCase) Execute(ctx context.Context, clientSID string) error {
	return uc.guard.withClientSID(ctx, clientSID, func(ctx context.Context, c *client.Client) error {
		if !c.Active() {
			return common.TranslateError(client.ErrDatabaseDeleted)
		}
		payload := c.ParamsPayload()
		if _, err := uc.commander.Upgrade(ctx, &c.Database, payload); err != nil {
			uc.logger.Errorw("failed to sync client params", "client_sid", c.SID(), "error", err)
			return common.TranslateError(err)
		}
		uc.logger.Infow("client params synced", "client_sid", c.SID(), "keys", payload.Keys())
		return nil
	})
}
