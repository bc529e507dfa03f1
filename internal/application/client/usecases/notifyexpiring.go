package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// NotifyExpiringUseCase sends one advance notice per expiration cycle.
type NotifyExpiringUseCase struct {
	guard       *clientGuard
	hook        notification.Hook
	advanceDays int
	logger      logger.Interface
	now         func() time.Time
}

func NewNotifyExpiringUseCase(
	clients client.Repository,
	locker services.Locker,
	hook notification.Hook,
	advanceDays int,
	logger logger.Interface,
) *NotifyExpiringUseCase {
	return &NotifyExpiringUseCase{
		guard:       &clientGuard{clients: clients, locker: locker},
		hook:        hook,
		advanceDays: advanceDays,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// Execute returns the number of clients notified. Nothing happens while the
// advance period is zero.
func (uc *NotifyExpiringUseCase) Execute(ctx context.Context) (int, error) {
	if uc.advanceDays <= 0 {
		return 0, nil
	}

	until := uc.now().AddDate(0, 0, uc.advanceDays)
	candidates, err := uc.guard.clients.FindExpiringUnnotified(ctx, until)
	if err != nil {
		return 0, fmt.Errorf("failed to find expiring clients: %w", err)
	}

	notified := 0
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return notified, err
		}

		var event *notification.Event
		err := uc.guard.withClientID(ctx, candidate.ID(), func(ctx context.Context, c *client.Client) error {
			exp := c.ExpirationDatetime()
			if !c.Active() || exp == nil || exp.After(until) {
				return nil
			}
			if !c.MarkNotificationSent() {
				return nil
			}
			if err := uc.guard.clients.Update(ctx, c); err != nil {
				return fmt.Errorf("failed to persist notification flag: %w", err)
			}
			e := notification.NewEvent(notification.TemplateExpirationNotify, c.ID(), c.SID(), map[string]any{
				"days":                uc.advanceDays,
				"expiration_datetime": biztime.FormatServerDatetime(exp),
			})
			event = &e
			return nil
		})
		if err != nil {
			uc.logger.Errorw("failed to process expiring client", "client_sid", candidate.SID(), "error", err)
			continue
		}
		if event == nil {
			continue
		}

		notified++
		if err := uc.hook.Notify(ctx, *event); err != nil {
			uc.logger.Warnw("failed to send expiration notice", "client_sid", event.ClientSID, "error", err)
		}
	}

	if notified > 0 {
		uc.logger.Infow("expiration notices sent", "count", notified, "advance_days", uc.advanceDays)
	}
	return notified, nil
}
