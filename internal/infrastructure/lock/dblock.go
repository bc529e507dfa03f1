package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// DBLocker keeps locks as rows of the locks table, so every process sharing
// the database is serialized. It is the fallback when Redis is disabled.
type DBLocker struct {
	db     *gorm.DB
	ttl    time.Duration
	wait   time.Duration
	logger logger.Interface
	now    func() time.Time
}

func NewDBLocker(db *gorm.DB, ttl, wait time.Duration, log logger.Interface) *DBLocker {
	return &DBLocker{
		db:     db,
		ttl:    ttl,
		wait:   wait,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *DBLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}
	defer func() {
		err := l.db.WithContext(context.WithoutCancel(ctx)).
			Where("name = ? AND token = ?", key, token).
			Delete(&models.LockModel{}).Error
		if err != nil {
			l.logger.Warnw("failed to release lock", "key", key, "error", err)
		}
	}()

	return fn(ctx)
}

func (l *DBLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.tryAcquire(ctx, key, token)
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// tryAcquire inserts the row, or takes over one whose holder let it expire.
func (l *DBLocker) tryAcquire(ctx context.Context, key, token string) (bool, error) {
	now := l.now()
	row := &models.LockModel{Name: key, Token: token, ExpiresAt: now.Add(l.ttl)}

	db := l.db.WithContext(ctx)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	result = db.Model(&models.LockModel{}).
		Where("name = ? AND expires_at < ?", key, now).
		Updates(map[string]any{"token": token, "expires_at": row.ExpiresAt})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		l.logger.Warnw("took over expired lock", "key", key)
		return true, nil
	}
	return false, nil
}

var _ Locker = (*DBLocker)(nil)
