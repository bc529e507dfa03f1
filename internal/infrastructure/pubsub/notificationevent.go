package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

func encodeEvent(event notification.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification event: %w", err)
	}
	return data, nil
}

func decodeEvent(data []byte) (notification.Event, error) {
	var event notification.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal notification event: %w", err)
	}
	if !event.TemplateKey.IsValid() {
		return event, fmt.Errorf("unknown notification template %q", event.TemplateKey)
	}
	return event, nil
}

// LogHook only records events. It is the transport when no broker is configured.
type LogHook struct {
	logger logger.Interface
}

func NewLogHook(log logger.Interface) *LogHook {
	return &LogHook{logger: log}
}

func (h *LogHook) Notify(ctx context.Context, event notification.Event) error {
	h.logger.Infow("notification requested",
		"template", event.TemplateKey,
		"client_id", event.ClientID,
		"client_sid", event.ClientSID,
		"context", event.Context,
	)
	return nil
}

var _ notification.Hook = (*LogHook)(nil)
