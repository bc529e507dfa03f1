package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type DeleteClientCommand struct {
	ClientSID string
	Force     bool
}

// DeleteClientUseCase drops the remote instance and marks the client deleted.
// When the server cannot confirm the deletion the record is left as it was.
type DeleteClientUseCase struct {
	guard     *clientGuard
	commander *services.Commander
	logger    logger.Interface
}

func NewDeleteClientUseCase(
	clients client.Repository,
	commander *services.Commander,
	locker services.Locker,
	logger logger.Interface,
) *DeleteClientUseCase {
	return &DeleteClientUseCase{
		guard:     &clientGuard{clients: clients, locker: locker},
		commander: commander,
		logger:    logger,
	}
}

func (uc *DeleteClientUseCase) Execute(ctx context.Context, cmd DeleteClientCommand) error {
	return uc.guard.withClientSID(ctx, cmd.ClientSID, func(ctx context.Context, c *client.Client) error {
		if c.State() == client.StateDeleted {
			uc.logger.Debugw("client already deleted", "client_sid", c.SID())
			return nil
		}

		if err := uc.commander.Delete(ctx, &c.Database, cmd.Force); err != nil {
			uc.logger.Errorw("failed to delete client instance",
				"client_sid", c.SID(),
				"force", cmd.Force,
				"error", err,
			)
			return common.TranslateError(err)
		}

		if err := c.MarkDeleted(); err != nil {
			return common.TranslateError(err)
		}
		if err := uc.guard.clients.Update(ctx, c); err != nil {
			uc.logger.Errorw("failed to persist deleted client", "client_sid", c.SID(), "error", err)
			return fmt.Errorf("failed to update client: %w", err)
		}

		uc.logger.Infow("client deleted", "client_sid", c.SID(), "force", cmd.Force)
		return nil
	})
}
