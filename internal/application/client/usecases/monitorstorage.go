package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// MonitorStorageUseCase compares reported usage with each client's limit.
type MonitorStorageUseCase struct {
	guard     *clientGuard
	commander *services.Commander
	hook      notification.Hook
	logger    logger.Interface
}

func NewMonitorStorageUseCase(
	clients client.Repository,
	commander *services.Commander,
	locker services.Locker,
	hook notification.Hook,
	logger logger.Interface,
) *MonitorStorageUseCase {
	return &MonitorStorageUseCase{
		guard:     &clientGuard{clients: clients, locker: locker},
		commander: commander,
		hook:      hook,
		logger:    logger,
	}
}

// Execute returns the number of clients whose exceed flag changed.
func (uc *MonitorStorageUseCase) Execute(ctx context.Context) (int, error) {
	candidates, err := uc.guard.clients.FindStorageCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find storage candidates: %w", err)
	}

	changed := 0
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		err := uc.guard.withClientID(ctx, candidate.ID(), func(ctx context.Context, c *client.Client) error {
			if !c.Active() {
				return nil
			}
			transition := c.EvaluateStorage()
			if transition == client.StorageUnchanged {
				return nil
			}
			if err := uc.guard.clients.Update(ctx, c); err != nil {
				return fmt.Errorf("failed to persist storage flag: %w", err)
			}
			changed++

			if transition == client.StorageExceeded {
				uc.exceeded(ctx, c)
			} else {
				uc.logger.Infow("client storage back within limit", "client_sid", c.SID())
			}
			return nil
		})
		if err != nil {
			uc.logger.Errorw("failed to process storage candidate", "client_sid", candidate.SID(), "error", err)
		}
	}

	return changed, nil
}

func (uc *MonitorStorageUseCase) exceeded(ctx context.Context, c *client.Client) {
	uc.logger.Infow("client storage limit exceeded",
		"client_sid", c.SID(),
		"used", c.StorageUsed(),
		"limit", c.TotalStorageLimit(),
	)

	event := notification.NewEvent(notification.TemplateStorageExceed, c.ID(), c.SID(), map[string]any{
		"used":  c.StorageUsed(),
		"limit": c.TotalStorageLimit(),
	})
	if err := uc.hook.Notify(ctx, event); err != nil {
		uc.logger.Warnw("failed to send storage notification", "client_sid", c.SID(), "error", err)
	}

	if !c.BlockOnStorageExceed() {
		return
	}
	// the instance is suspended remotely; the client stays open and keeps its quota slot
	if _, err := uc.commander.Upgrade(ctx, &c.Database, command.SuspendPayload()); err != nil {
		logSuspendFailure(uc.logger, c, "storage", err)
	}
}
