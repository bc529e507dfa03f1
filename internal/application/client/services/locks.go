package services

import (
	"context"
	"fmt"
)

// Locker serialises work on a key across every portal process.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// ClientLockKey guards a single client for local write plus remote dispatch.
func ClientLockKey(clientID uint) string {
	return fmt.Sprintf("client:%d", clientID)
}

// QuotaLockKey guards the count-then-create and count-then-open of one quota
// bucket. Never take a client lock while holding it.
func QuotaLockKey(partnerID, planID uint, trial bool) string {
	return fmt.Sprintf("quota:%d:%d:%t", partnerID, planID, trial)
}

// TemplateLockKey guards builds and deletions of a plan template.
func TemplateLockKey(planID uint) string {
	return fmt.Sprintf("template:%d", planID)
}
