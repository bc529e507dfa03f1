package pubsub

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/config"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

const (
	TransportRedis = "redis"
	TransportNATS  = "nats"
	TransportKafka = "kafka"
	TransportLog   = "log"
)

// Subscriber is implemented by transports the worker can consume from.
type Subscriber interface {
	Subscribe(ctx context.Context, handler notification.Handler) error
}

// Transport bundles the configured hook with its optional subscriber side and
// a close function releasing broker connections.
type Transport struct {
	Hook       notification.Hook
	Subscriber Subscriber
	Close      func() error
}

// NewTransport builds the notification transport selected by cfg.Transport.
// The redis transport reuses redisClient and fails when it is nil.
func NewTransport(cfg config.NotificationConfig, redisClient *redis.Client, log logger.Interface) (*Transport, error) {
	noop := func() error { return nil }

	switch cfg.Transport {
	case TransportRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("notification transport redis requires redis to be enabled")
		}
		bus := NewRedisNotificationBus(redisClient, cfg.Channel, log)
		return &Transport{Hook: bus, Subscriber: bus, Close: noop}, nil

	case TransportNATS:
		conn, err := ConnectNATS(cfg.NATSURL, "saasportal")
		if err != nil {
			return nil, err
		}
		bus := NewNATSNotificationBus(conn, cfg.Channel, log)
		return &Transport{Hook: bus, Subscriber: bus, Close: func() error {
			return conn.Drain()
		}}, nil

	case TransportKafka:
		producer, err := sarama.NewSyncProducer(cfg.KafkaBroker, NewKafkaProducerConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		publisher := NewKafkaNotificationPublisher(producer, cfg.Channel, log)
		return &Transport{Hook: publisher, Close: publisher.Close}, nil

	case TransportLog, "":
		return &Transport{Hook: NewLogHook(log), Close: noop}, nil
	}

	return nil, fmt.Errorf("unknown notification transport %q", cfg.Transport)
}
