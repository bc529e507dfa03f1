package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/db"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.ServerModel{},
		&models.PlanModel{},
		&models.DatabaseModel{},
		&models.ClientModel{},
		&models.PortalUserModel{},
		&models.SequenceModel{},
	))
	return gdb
}

func createClient(t *testing.T, repo client.Repository, name string, partnerID, planID uint, trial bool) *client.Client {
	t.Helper()
	c, err := client.NewClient("cli_"+name, name, "cid-"+name, client.Ownership{PartnerID: partnerID, PlanID: &planID},
		trial, 0, nil, client.Limits{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestServerRepository(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewServerRepository(gdb, logger.NewNop())
	ctx := context.Background()

	a, err := server.NewServer("srv_a", "a.example.com", server.SchemeHTTPS, "", "", "", 20)
	require.NoError(t, err)
	b, err := server.NewServer("srv_b", "b.example.com", server.SchemeHTTP, "", "", "", 10)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	dup, err := server.NewServer("srv_c", "A.example.com", server.SchemeHTTP, "", "", "", 0)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), server.ErrServerDomainExists)

	b.Deactivate()
	require.NoError(t, repo.Update(ctx, b))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a.example.com", active[0].Domain())
	assert.Equal(t, server.SchemeHTTPS, active[0].Scheme())

	found, err := repo.GetBySID(ctx, "srv_b")
	require.NoError(t, err)
	assert.False(t, found.IsActive())

	missing, err := repo.GetBySID(ctx, "srv_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, total, err := repo.List(ctx, server.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "b.example.com", all[0].Domain())

	require.NoError(t, repo.Delete(ctx, b.ID()))
	assert.ErrorIs(t, repo.Delete(ctx, b.ID()), server.ErrServerNotFound)
}

func TestPlanRepository(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewPlanRepository(gdb, logger.NewNop())
	ctx := context.Background()

	p, err := plan.NewPlan("plan_a", plan.Attributes{Name: "Starter", DBNameTemplate: "s-%i", MaxDBsPerPartner: 3, Sequence: 5})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	first, err := repo.FirstConfirmed(ctx)
	require.NoError(t, err)
	assert.Nil(t, first)

	p.SyncState(client.StateTemplate)
	require.NoError(t, p.AttachTemplate(4))
	require.NoError(t, repo.Update(ctx, p))

	first, err = repo.FirstConfirmed(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "plan_a", first.SID())
	assert.Equal(t, 3, first.MaxDBsPerPartner())
	assert.Equal(t, uint(4), *first.TemplateDatabaseID())

	confirmed := plan.StateConfirmed
	items, total, err := repo.List(ctx, plan.Filter{State: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

func TestClientRepository_CountOpen(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewClientRepository(gdb, logger.NewNop())
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		c := createClient(t, repo, name, 1, 7, false)
		require.NoError(t, c.Open())
		require.NoError(t, repo.Update(ctx, c))
	}
	createClient(t, repo, "draft", 1, 7, false)
	trial := createClient(t, repo, "trial", 1, 7, true)
	require.NoError(t, trial.Open())
	require.NoError(t, repo.Update(ctx, trial))
	other := createClient(t, repo, "other", 2, 7, false)
	require.NoError(t, other.Open())
	require.NoError(t, repo.Update(ctx, other))

	n, err := repo.CountOpen(ctx, 1, 7, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.CountOpen(ctx, 1, 7, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClientRepository_ActiveColumnFollowsState(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewClientRepository(gdb, logger.NewNop())
	ctx := context.Background()

	c := createClient(t, repo, "gone", 1, 1, false)
	require.NoError(t, c.MarkDeleted())
	require.NoError(t, repo.Update(ctx, c))

	var model models.ClientModel
	require.NoError(t, gdb.First(&model, c.ID()).Error)
	assert.False(t, model.Active)
	assert.Equal(t, "deleted", model.State)

	taken, err := repo.NameTaken(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestClientRepository_SweepQueries(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewClientRepository(gdb, logger.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	soon := now.Add(24 * time.Hour)
	later := now.Add(30 * 24 * time.Hour)

	mk := func(name string, exp *time.Time, limit int64) *client.Client {
		c, err := client.NewClient("cli_"+name, name, "cid-"+name, client.Ownership{PartnerID: 1}, false, 0, exp,
			client.Limits{TotalStorageLimit: limit})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, c))
		return c
	}

	expired := mk("expired", &past, 0)
	mk("soon", &soon, 100)
	mk("later", &later, 0)
	mk("never", nil, 0)
	flagged := mk("flagged", &past, 0)
	flagged.MarkExpired()
	require.NoError(t, repo.Update(ctx, flagged))
	deleted := mk("deleted", &past, 50)
	require.NoError(t, deleted.MarkDeleted())
	require.NoError(t, repo.Update(ctx, deleted))

	found, err := repo.FindExpiredUnflagged(ctx, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, expired.ID(), found[0].ID())

	expiring, err := repo.FindExpiringUnnotified(ctx, now.Add(2*24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, expiring, 3) // expired, soon, flagged

	storage, err := repo.FindStorageCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, storage, 1)
	assert.Equal(t, "soon", storage[0].Name())
}

func TestClientRepository_TransactionRollback(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewClientRepository(gdb, logger.NewNop())
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := client.NewClient("cli_x", "x", "cid-x", client.Ownership{}, false, 0, nil, client.Limits{})
		require.NoError(t, err)
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	found, err := repo.GetByClientID(ctx, "cid-x")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDatabaseAndPortalUserRepositories(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	dbRepo := NewDatabaseRepository(gdb, logger.NewNop())
	clients := NewClientRepository(gdb, logger.NewNop())
	users := NewPortalUserRepository(gdb, logger.NewNop())

	d, err := client.NewDatabase("db_1", "tmpl", "cid-tmpl")
	require.NoError(t, err)
	require.NoError(t, d.AssignServer(3))
	require.NoError(t, dbRepo.Create(ctx, d))

	taken, err := clients.NameTaken(ctx, "tmpl")
	require.NoError(t, err)
	assert.True(t, taken)

	n, err := dbRepo.CountLiveByServer(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, d.ApplyCommandResult("pw", "template", nil))
	require.NoError(t, dbRepo.Update(ctx, d))
	got, err := dbRepo.GetByID(ctx, d.ID())
	require.NoError(t, err)
	assert.Equal(t, client.StateTemplate, got.State())

	u := &portaluser.User{ID: 5, PartnerID: 50, Login: "ann@example.com", Name: "Ann"}
	require.NoError(t, users.Upsert(ctx, u))
	u.Name = "Ann B."
	require.NoError(t, users.Upsert(ctx, u))

	loaded, err := users.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", loaded.Name)
	assert.Equal(t, uint(50), loaded.PartnerID)
}
