package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/goroutine"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// RedisNotificationBus publishes notification events on a Redis channel and
// lets the worker consume them.
type RedisNotificationBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisNotificationBus(client *redis.Client, channel string, logger logger.Interface) *RedisNotificationBus {
	return &RedisNotificationBus{client: client, channel: channel, logger: logger}
}

func (b *RedisNotificationBus) Notify(ctx context.Context, event notification.Event) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish notification event",
			"template", event.TemplateKey,
			"client_id", event.ClientID,
			"error", err,
		)
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	b.logger.Debugw("notification event published",
		"template", event.TemplateKey,
		"client_id", event.ClientID,
		"channel", b.channel,
	)
	return nil
}

// Subscribe consumes events until ctx is done, reconnecting with
// exponential backoff when the subscription drops.
func (b *RedisNotificationBus) Subscribe(ctx context.Context, handler notification.Handler) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = time.Second
	expBackoff.MaxInterval = 30 * time.Second
	expBackoff.Reset()

	for {
		err := b.subscribeOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := expBackoff.NextBackOff()
		b.logger.Warnw("notification subscription disconnected, reconnecting",
			"channel", b.channel,
			"error", err,
			"backoff", delay,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (b *RedisNotificationBus) subscribeOnce(ctx context.Context, handler notification.Handler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", b.channel, err)
	}

	b.logger.Infow("subscribed to notification events", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("notification channel closed")
			}

			event, err := decodeEvent([]byte(msg.Payload))
			if err != nil {
				b.logger.Warnw("dropping notification event", "payload", msg.Payload, "error", err)
				continue
			}

			goroutine.SafeGo(b.logger, "notification-handler", func() {
				if err := handler(context.Background(), event); err != nil {
					b.logger.Errorw("notification handler failed",
						"template", event.TemplateKey,
						"client_id", event.ClientID,
						"error", err,
					)
				}
			})
		}
	}
}

var _ notification.Hook = (*RedisNotificationBus)(nil)
