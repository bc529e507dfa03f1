package plan

import (
	"errors"
	"fmt"
)

var (
	ErrPlanNotFound           = errors.New("saas plan not found")
	ErrPlanNotConfirmed       = errors.New("saas plan is not confirmed")
	ErrTemplateNotConfigured  = errors.New("database name template is not configured")
	ErrTemplateDBMissing      = errors.New("plan has no template database")
	ErrServerNotPinned        = errors.New("plan has no pinned server")
	ErrQuotaExceeded          = errors.New("database quota exceeded")
	ErrNameRequired           = errors.New("plan name is required")
	ErrInvalidLang            = errors.New("invalid plan language")
	ErrInvalidTimezone        = errors.New("invalid plan timezone")
	ErrNegativeLimit          = errors.New("plan limits cannot be negative")
	ErrTemplateAlreadyDefined = errors.New("plan already has a template database")
)

// QuotaKind tells which per-partner limit refused a request.
type QuotaKind string

const (
	QuotaNormal QuotaKind = "normal"
	QuotaTrial  QuotaKind = "trial"
)

// QuotaExceededError is returned when a partner already holds the maximum
// number of open databases for a plan.
type QuotaExceededError struct {
	Kind    QuotaKind
	Limit   int
	Current int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: %s limit=%d current=%d", ErrQuotaExceeded, e.Kind, e.Limit, e.Current)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}
