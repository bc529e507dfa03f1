package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// NATSNotificationBus publishes notification events on a NATS subject.
type NATSNotificationBus struct {
	conn    *nats.Conn
	subject string
	logger  logger.Interface
}

// ConnectNATS opens a connection that keeps reconnecting for the life of the process.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(500*time.Millisecond),
		nats.ReconnectJitter(100*time.Millisecond, 500*time.Millisecond),
		nats.Timeout(3*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}

func NewNATSNotificationBus(conn *nats.Conn, subject string, logger logger.Interface) *NATSNotificationBus {
	return &NATSNotificationBus{conn: conn, subject: subject, logger: logger}
}

func (b *NATSNotificationBus) Notify(ctx context.Context, event notification.Event) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err := b.conn.Publish(b.subject, data); err != nil {
		b.logger.Errorw("failed to publish notification event",
			"template", event.TemplateKey,
			"client_id", event.ClientID,
			"error", err,
		)
		return fmt.Errorf("failed to publish notification event: %w", err)
	}
	return nil
}

// Subscribe consumes events until ctx is done. The nats client handles reconnects.
func (b *NATSNotificationBus) Subscribe(ctx context.Context, handler notification.Handler) error {
	sub, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		event, err := decodeEvent(msg.Data)
		if err != nil {
			b.logger.Warnw("dropping notification event", "error", err)
			return
		}
		if err := handler(context.Background(), event); err != nil {
			b.logger.Errorw("notification handler failed",
				"template", event.TemplateKey,
				"client_id", event.ClientID,
				"error", err,
			)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	b.logger.Infow("subscribed to notification events", "subject", b.subject)
	<-ctx.Done()
	return ctx.Err()
}

var _ notification.Hook = (*NATSNotificationBus)(nil)
