package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/utils/logutil"
)

// SweepExpiredUseCase flags clients whose expiration has passed and suspends
// the ones that block on expiration. It runs periodically.
type SweepExpiredUseCase struct {
	guard     *clientGuard
	commander *services.Commander
	hook      notification.Hook
	logger    logger.Interface
	now       func() time.Time
}

func NewSweepExpiredUseCase(
	clients client.Repository,
	commander *services.Commander,
	locker services.Locker,
	hook notification.Hook,
	logger logger.Interface,
) *SweepExpiredUseCase {
	return &SweepExpiredUseCase{
		guard:     &clientGuard{clients: clients, locker: locker},
		commander: commander,
		hook:      hook,
		logger:    logger,
		now:       biztime.NowUTC,
	}
}

// Execute returns the number of clients flagged expired in this run.
func (uc *SweepExpiredUseCase) Execute(ctx context.Context) (int, error) {
	now := uc.now()
	candidates, err := uc.guard.clients.FindExpiredUnflagged(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired clients: %w", err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found expired clients to process", "count", len(candidates))

	marked := 0
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return marked, err
		}

		err := uc.guard.withClientID(ctx, candidate.ID(), func(ctx context.Context, c *client.Client) error {
			// re-check under the lock; another run may have handled it
			if !c.Active() || c.Expired() || !c.IsExpiredAt(now) {
				return nil
			}
			c.MarkExpired()
			if err := uc.guard.clients.Update(ctx, c); err != nil {
				return fmt.Errorf("failed to persist expired flag: %w", err)
			}
			marked++

			if c.ShouldBlockOnExpiration() {
				uc.block(ctx, c)
			}
			return nil
		})
		if err != nil {
			uc.logger.Errorw("failed to process expired client",
				"client_id", candidate.ID(),
				"client_sid", candidate.SID(),
				"error", err,
			)
		}
	}

	return marked, nil
}

func (uc *SweepExpiredUseCase) block(ctx context.Context, c *client.Client) {
	event := notification.NewEvent(notification.TemplateHasExpired, c.ID(), c.SID(),
		map[string]any{"expiration_datetime": biztime.FormatServerDatetime(c.ExpirationDatetime())})
	if err := uc.hook.Notify(ctx, event); err != nil {
		uc.logger.Warnw("failed to send expired notification", "client_sid", c.SID(), "error", err)
	}

	if _, err := uc.commander.Upgrade(ctx, &c.Database, command.SuspendPayload()); err != nil {
		logSuspendFailure(uc.logger, c, "expiration", err)
		return
	}
	if err := markSuspended(ctx, uc.guard.clients, c, uc.logger); err != nil {
		uc.logger.Errorw("failed to persist suspended client", "client_sid", c.SID(), "error", err)
	}
}

const suspendResponseLogLimit = 256

// logSuspendFailure records a refused suspend with what the server answered.
func logSuspendFailure(log logger.Interface, c *client.Client, reason string, err error) {
	fields := []any{
		"client_id", c.ID(),
		"client_sid", c.SID(),
		"reason", reason,
		"error", err,
	}
	var failed *command.ServerCommandFailedError
	if stderrors.As(err, &failed) {
		fields = append(fields, "url", failed.URL, "status", failed.Status, "response", logutil.TruncateForLog(failed.Body, suspendResponseLogLimit))
	}
	log.Errorw("failed to suspend client", fields...)
}
