package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/saasportal/internal/domain/command"
)

func newTestClient(t *testing.T, limits Limits) *Client {
	t.Helper()
	planID := uint(3)
	c, err := NewClient("cli_test", "acme", "8c1b3c1e-0000-4000-8000-000000000001",
		Ownership{PartnerID: 7, PlanID: &planID}, false, 0, nil, limits)
	require.NoError(t, err)
	require.NoError(t, c.SetID(42))
	return c
}

func TestNewClient_StartsDraftAndActive(t *testing.T) {
	c := newTestClient(t, Limits{MaxUsers: 5})

	assert.Equal(t, StateDraft, c.State())
	assert.True(t, c.Active())
	assert.False(t, c.Expired())
	assert.Nil(t, c.ExpirationDatetime())
	assert.Equal(t, 5, c.MaxUsers())
}

func TestNewClient_RequiresName(t *testing.T) {
	_, err := NewClient("cli_x", "  ", "id", Ownership{}, false, 0, nil, Limits{})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestClient_ActiveFollowsState(t *testing.T) {
	c := newTestClient(t, Limits{})
	paths := [][]State{
		{StateOpen, StatePending, StateOpen, StateCancelled, StateDeleted},
		{StateCancelled, StateOpen, StateDeleted},
	}
	for _, path := range paths {
		c := newTestClient(t, Limits{})
		for _, s := range path {
			require.NoError(t, c.TransitionTo(s))
			assert.Equal(t, s != StateDeleted, c.Active(), "after %s", s)
		}
	}
	require.NoError(t, c.MarkDeleted())
	assert.False(t, c.Active())
	assert.ErrorIs(t, c.TransitionTo(StateOpen), ErrInvalidStateTransition)
}

func TestClient_MarkExpiredIsMonotonic(t *testing.T) {
	c := newTestClient(t, Limits{})

	assert.True(t, c.MarkExpired())
	assert.False(t, c.MarkExpired())

	past := time.Now().Add(-time.Hour)
	ch, err := c.StageExpiration(&past)
	require.NoError(t, err)
	require.NoError(t, c.CommitExpiration(ch))
	assert.True(t, c.Expired())
}

func TestClient_ShouldBlockOnExpiration(t *testing.T) {
	c := newTestClient(t, Limits{})
	assert.False(t, c.ShouldBlockOnExpiration())

	c = newTestClient(t, Limits{BlockOnExpiration: true})
	assert.True(t, c.ShouldBlockOnExpiration())

	trial, err := NewClient("cli_t", "trial", "id", Ownership{}, true, 48, nil, Limits{})
	require.NoError(t, err)
	assert.True(t, trial.ShouldBlockOnExpiration())
}

func TestClient_IsExpiredAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, Limits{})
	assert.False(t, c.IsExpiredAt(now))

	exp := now.Add(-time.Second)
	c.expirationDatetime = &exp
	assert.True(t, c.IsExpiredAt(now))

	exp = now
	c.expirationDatetime = &exp
	assert.False(t, c.IsExpiredAt(now))
}

func TestClient_StageAndCommitExpiration(t *testing.T) {
	c := newTestClient(t, Limits{})
	c.MarkNotificationSent()
	next := time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)

	ch, err := c.StageExpiration(&next)
	require.NoError(t, err)

	// staging leaves the client untouched
	assert.Nil(t, c.ExpirationDatetime())
	assert.True(t, c.NotificationSent())

	v, ok := ch.Payload.Value(command.ParamExpirationDatetime)
	require.True(t, ok)
	assert.Equal(t, "2026-12-31 23:00:00", v)

	require.NoError(t, c.CommitExpiration(ch))
	require.NotNil(t, c.ExpirationDatetime())
	assert.True(t, next.Equal(*c.ExpirationDatetime()))
	assert.False(t, c.NotificationSent())
}

func TestClient_CommitExpiration_Rejects(t *testing.T) {
	c := newTestClient(t, Limits{})
	first := time.Now().Add(24 * time.Hour)
	second := time.Now().Add(48 * time.Hour)

	ch1, err := c.StageExpiration(&first)
	require.NoError(t, err)
	ch2, err := c.StageExpiration(&second)
	require.NoError(t, err)

	require.NoError(t, c.CommitExpiration(ch1))
	assert.ErrorIs(t, c.CommitExpiration(ch2), ErrStaleExpirationChange)

	other := newTestClient(t, Limits{})
	other.id = 43
	ch3, err := other.StageExpiration(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, c.CommitExpiration(ch3), ErrForeignExpirationChange)
}

func TestClient_StageExpiration_ClearsWithEmptyValue(t *testing.T) {
	c := newTestClient(t, Limits{})
	ch, err := c.StageExpiration(nil)
	require.NoError(t, err)

	v, _ := ch.Payload.Value(command.ParamExpirationDatetime)
	assert.Equal(t, "", v)
}

func TestClient_EvaluateStorage(t *testing.T) {
	t.Run("exceeds once", func(t *testing.T) {
		c := newTestClient(t, Limits{TotalStorageLimit: 100})
		require.NoError(t, c.ReportStorage(60, 50))

		assert.Equal(t, StorageExceeded, c.EvaluateStorage())
		assert.True(t, c.StorageExceed())
		assert.Equal(t, StorageUnchanged, c.EvaluateStorage())
	})

	t.Run("recovers within limit", func(t *testing.T) {
		c := newTestClient(t, Limits{TotalStorageLimit: 100})
		c.storageExceed = true
		require.NoError(t, c.ReportStorage(60, 30))

		assert.Equal(t, StorageRecovered, c.EvaluateStorage())
		assert.False(t, c.StorageExceed())
	})

	t.Run("zero limit clears flag", func(t *testing.T) {
		c := newTestClient(t, Limits{})
		c.storageExceed = true
		require.NoError(t, c.ReportStorage(1000, 1000))

		assert.Equal(t, StorageRecovered, c.EvaluateStorage())
	})

	t.Run("equal to limit is not exceeded", func(t *testing.T) {
		c := newTestClient(t, Limits{TotalStorageLimit: 100})
		require.NoError(t, c.ReportStorage(50, 50))
		assert.Equal(t, StorageUnchanged, c.EvaluateStorage())
	})
}

func TestClient_ReportStorage_RejectsNegative(t *testing.T) {
	c := newTestClient(t, Limits{})
	assert.ErrorIs(t, c.ReportStorage(-1, 0), ErrNegativeStorage)
}

func TestClient_ParamsPayload(t *testing.T) {
	c := newTestClient(t, Limits{MaxUsers: 10, TotalStorageLimit: 2048})
	p := c.ParamsPayload()

	assert.Equal(t, []string{command.ParamMaxUsers, command.ParamExpirationDatetime, command.ParamTotalStorageLimit}, p.Keys())
	v, _ := p.Value(command.ParamMaxUsers)
	assert.Equal(t, 10, v)
}

func TestDatabase_HostAndPublicURL(t *testing.T) {
	db, err := NewDatabase("db_1", "acme", "id")
	require.NoError(t, err)

	assert.Equal(t, "acme.saas.example.com", db.Host("saas.example.com"))
	assert.Equal(t, "https://acme.saas.example.com/", db.PublicURL("https", "saas.example.com"))
	assert.Equal(t, "acme", db.Host(""))

	fq, err := NewDatabase("db_2", "shop.acme.io", "id")
	require.NoError(t, err)
	assert.Equal(t, "shop.acme.io", fq.Host("saas.example.com"))
	assert.Equal(t, "http://shop.acme.io/", fq.PublicURL("", "saas.example.com"))
}

func TestDatabase_ApplyCommandResult(t *testing.T) {
	db, err := NewDatabase("db_1", "tmpl", "id")
	require.NoError(t, err)

	require.NoError(t, db.ApplyCommandResult("s3cret", "template", map[string]any{"version": "17"}))
	assert.Equal(t, StateTemplate, db.State())
	assert.Equal(t, "s3cret", db.Password())
	assert.Equal(t, "17", db.RemoteState()["version"])

	// rebuild keeps the template state
	require.NoError(t, db.ApplyCommandResult("", "template", nil))
	assert.Equal(t, "s3cret", db.Password())

	assert.ErrorIs(t, db.ApplyCommandResult("", "bogus", nil), ErrInvalidStateTransition)

	require.NoError(t, db.MarkDeleted())
	assert.ErrorIs(t, db.ApplyCommandResult("x", "", nil), ErrDatabaseDeleted)
}

func TestClient_Open(t *testing.T) {
	c := newTestClient(t, Limits{})
	require.NoError(t, c.Open())
	assert.Equal(t, StateOpen, c.State())

	require.NoError(t, c.Suspend())
	require.NoError(t, c.Open())
	assert.Equal(t, StatePending, c.State())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "acme.saas.example.com", FullName("acme", "saas.example.com"))
	assert.Equal(t, "acme.example.com", FullName("acme", "www.example.com"))
	assert.Equal(t, "acme", FullName(" acme ", ""))
	assert.Equal(t, "", FullName("", "saas.example.com"))
}
