package pubsub

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Shopify/sarama"

	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// KafkaNotificationPublisher writes notification events to a topic, keyed by
// client so events for one client stay ordered.
type KafkaNotificationPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Interface
}

// NewKafkaProducerConfig returns the producer settings used for notifications.
func NewKafkaProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Net.DialTimeout = 10 * time.Second
	cfg.Net.WriteTimeout = 30 * time.Second
	return cfg
}

func NewKafkaNotificationPublisher(producer sarama.SyncProducer, topic string, logger logger.Interface) *KafkaNotificationPublisher {
	return &KafkaNotificationPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaNotificationPublisher) Notify(ctx context.Context, event notification.Event) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.ClientID), 10)),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		p.logger.Errorw("failed to publish notification event",
			"template", event.TemplateKey,
			"client_id", event.ClientID,
			"error", err,
		)
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	p.logger.Debugw("notification event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *KafkaNotificationPublisher) Close() error {
	return p.producer.Close()
}

var _ notification.Hook = (*KafkaNotificationPublisher)(nil)
