// Package sequence hands out monotonically increasing numbers per name.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/db"
)

const redisKeyPrefix = "saasportal:seq:"

// RedisSequence is backed by INCR.
type RedisSequence struct {
	client *redis.Client
}

func NewRedisSequence(client *redis.Client) *RedisSequence {
	return &RedisSequence{client: client}
}

func (s *RedisSequence) Next(ctx context.Context, name string) (int64, error) {
	v, err := s.client.Incr(ctx, redisKeyPrefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", name, err)
	}
	return v, nil
}

// DBSequence stores counters in a table. The increment is a single UPDATE so
// concurrent callers never receive the same value.
type DBSequence struct {
	db *gorm.DB
}

func NewDBSequence(db *gorm.DB) *DBSequence {
	return &DBSequence{db: db}
}

func (s *DBSequence) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := db.NewTransactionManager(s.db).RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, s.db)

		// first use creates the row at zero; a concurrent creator wins silently
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.SequenceModel{Name: name, Value: 0}).Error; err != nil {
			return err
		}

		result := tx.Model(&models.SequenceModel{}).
			Where("name = ?", name).
			Update("value", gorm.Expr("value + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("sequence row missing")
		}

		var row models.SequenceModel
		if err := tx.Where("name = ?", name).First(&row).Error; err != nil {
			return err
		}
		value = row.Value
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", name, err)
	}
	return value, nil
}
