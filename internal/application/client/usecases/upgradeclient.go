package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type UpgradeClientCommand struct {
	ClientSID string
	Params    []command.UpgradeParam
}

// UpgradeClientUseCase pushes arbitrary parameters to a running instance.
type UpgradeClientUseCase struct {
	guard     *clientGuard
	commander *services.Commander
	logger    logger.Interface
}

func NewUpgradeClientUseCase(
	clients client.Repository,
	commander *services.Commander,
	locker services.Locker,
	logger logger.Interface,
) *UpgradeClientUseCase {
	return &UpgradeClientUseCase{
		guard:     &clientGuard{clients: clients, locker: locker},
		commander: commander,
		logger:    logger,
	}
}

func (uc *UpgradeClientUseCase) Execute(ctx context.Context, cmd UpgradeClientCommand) (map[string]any, error) {
	if len(cmd.Params) == 0 {
		return nil, errors.NewValidationError("at least one parameter is required")
	}
	payload := command.UpgradePayload{Params: cmd.Params}
	for _, p := range payload.Params {
		if p.Key == "" {
			return nil, errors.NewValidationError("parameter key is required")
		}
		if p.Key == command.ParamExpirationDatetime {
			// the local record must follow, which only the expiration change does
			return nil, errors.NewValidationError("expiration is changed through the expiration endpoint", p.Key)
		}
	}

	var extra map[string]any
	err := uc.guard.withClientSID(ctx, cmd.ClientSID, func(ctx context.Context, c *client.Client) error {
		if !c.Active() {
			return common.TranslateError(client.ErrDatabaseDeleted)
		}

		res, err := uc.commander.Upgrade(ctx, &c.Database, payload)
		if err != nil {
			uc.logger.Errorw("failed to upgrade client",
				"client_sid", c.SID(),
				"keys", payload.Keys(),
				"error", err,
			)
			return common.TranslateError(err)
		}
		extra = res.Extra

		if payload.IsSuspend() {
			return markSuspended(ctx, uc.guard.clients, c, uc.logger)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("client upgraded", "client_sid", cmd.ClientSID, "keys", payload.Keys())
	return extra, nil
}

// markSuspended records an accepted suspend command. States that cannot
// become pending, such as cancelled, keep their state.
func markSuspended(ctx context.Context, clients client.Repository, c *client.Client, log logger.Interface) error {
	if err := c.Suspend(); err != nil {
		log.Warnw("suspended client kept its state", "client_sid", c.SID(), "state", c.State(), "error", err)
		return nil
	}
	if err := clients.Update(ctx, c); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}
