package sequence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
)

func TestRedisSequence_Next(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	seq := NewRedisSequence(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, "saas_portal.plan")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other, err := seq.Next(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}

func TestDBSequence_Next(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.SequenceModel{}))

	seq := NewDBSequence(gdb)
	ctx := context.Background()

	var got []int64
	for i := 0; i < 3; i++ {
		v, err := seq.Next(ctx, "saas_portal.plan")
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}
