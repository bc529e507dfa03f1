package notification

import (
	"context"
	"time"
)

// TemplateKey selects the message template rendered by the notification consumer.
type TemplateKey string

const (
	TemplateExpirationNotify  TemplateKey = "expiration_notify"
	TemplateHasExpired        TemplateKey = "has_expired_notify"
	TemplateStorageExceed     TemplateKey = "storage_exceed"
	TemplateExpirationUpdated TemplateKey = "expiration_datetime_updated"
	TemplateCreateSaaS        TemplateKey = "create_saas"
)

func (k TemplateKey) IsValid() bool {
	switch k {
	case TemplateExpirationNotify, TemplateHasExpired, TemplateStorageExceed,
		TemplateExpirationUpdated, TemplateCreateSaaS:
		return true
	}
	return false
}

// Event asks for a message about a client to be sent. Rendering and delivery
// happen outside the portal.
type Event struct {
	TemplateKey TemplateKey    `json:"template_key"`
	ClientID    uint           `json:"client_id"`
	ClientSID   string         `json:"client_sid"`
	Context     map[string]any `json:"context,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

func NewEvent(key TemplateKey, clientID uint, clientSID string, ctx map[string]any) Event {
	return Event{
		TemplateKey: key,
		ClientID:    clientID,
		ClientSID:   clientSID,
		Context:     ctx,
		OccurredAt:  time.Now().UTC(),
	}
}

// Hook delivers notification events. Callers log failures and carry on.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

func (f HookFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Handler consumes events on the subscriber side.
type Handler func(ctx context.Context, event Event) error
