package plan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/saasportal/internal/domain/client"
)

func newTestPlan(t *testing.T, mutate func(a *Attributes)) *Plan {
	t.Helper()
	attrs := Attributes{
		Name:           "Starter",
		DBNameTemplate: "starter-%i",
		Lang:           "en_US",
		TZ:             "Europe/Paris",
	}
	if mutate != nil {
		mutate(&attrs)
	}
	p, err := NewPlan("plan_test", attrs)
	require.NoError(t, err)
	return p
}

func TestNewPlan_Validation(t *testing.T) {
	tests := []struct {
		name    string
		attrs   Attributes
		wantErr error
	}{
		{"missing name", Attributes{Name: " "}, ErrNameRequired},
		{"negative quota", Attributes{Name: "x", MaxDBsPerPartner: -1}, ErrNegativeLimit},
		{"bad lang", Attributes{Name: "x", Lang: "not a lang!"}, ErrInvalidLang},
		{"bad timezone", Attributes{Name: "x", TZ: "Mars/Olympus"}, ErrInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlan("plan_x", tt.attrs)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewPlan_StartsDraft(t *testing.T) {
	p := newTestPlan(t, nil)
	assert.Equal(t, StateDraft, p.State())
	assert.ErrorIs(t, p.EnsureConfirmed(), ErrPlanNotConfirmed)
}

func TestPlan_SyncState(t *testing.T) {
	p := newTestPlan(t, nil)

	assert.False(t, p.SyncState(client.StateDraft))
	assert.True(t, p.SyncState(client.StateTemplate))
	assert.True(t, p.IsConfirmed())
	assert.NoError(t, p.EnsureConfirmed())

	assert.True(t, p.SyncState(client.StateDeleted))
	assert.Equal(t, StateDraft, p.State())
}

func TestPlan_CheckQuota(t *testing.T) {
	t.Run("zero limit never refuses", func(t *testing.T) {
		p := newTestPlan(t, nil)
		for _, n := range []int64{0, 1, 1000} {
			assert.NoError(t, p.CheckQuota(false, n))
			assert.NoError(t, p.CheckQuota(true, n))
		}
	})

	t.Run("normal limit", func(t *testing.T) {
		p := newTestPlan(t, func(a *Attributes) { a.MaxDBsPerPartner = 2 })
		assert.NoError(t, p.CheckQuota(false, 1))

		err := p.CheckQuota(false, 2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrQuotaExceeded))

		var qe *QuotaExceededError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, QuotaNormal, qe.Kind)
		assert.Equal(t, 2, qe.Limit)

		// the trial quota is independent
		assert.NoError(t, p.CheckQuota(true, 50))
	})

	t.Run("trial limit", func(t *testing.T) {
		p := newTestPlan(t, func(a *Attributes) { a.MaxTrialDBsPerPartner = 1 })
		var qe *QuotaExceededError
		require.ErrorAs(t, p.CheckQuota(true, 1), &qe)
		assert.Equal(t, QuotaTrial, qe.Kind)
		assert.NoError(t, p.CheckQuota(false, 10))
	})
}

func TestPlan_ExpirationFor(t *testing.T) {
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

	p := newTestPlan(t, func(a *Attributes) { a.ExpirationHours = 48 })
	exp := p.ExpirationFor(true, now)
	require.NotNil(t, exp)
	assert.Equal(t, now.Add(48*time.Hour), *exp)

	assert.Nil(t, p.ExpirationFor(false, now))

	grace := newTestPlan(t, func(a *Attributes) { a.GracePeriodDays = 3 })
	exp = grace.ExpirationFor(false, now)
	require.NotNil(t, exp)
	assert.Equal(t, now.AddDate(0, 0, 3), *exp)
}

func TestPlan_GenerateName(t *testing.T) {
	p := newTestPlan(t, nil)
	name, err := p.GenerateName(17)
	require.NoError(t, err)
	assert.Equal(t, "starter-17", name)

	empty := newTestPlan(t, func(a *Attributes) { a.DBNameTemplate = "" })
	_, err = empty.GenerateName(1)
	assert.ErrorIs(t, err, ErrTemplateNotConfigured)
}

func TestPlan_AttachTemplate(t *testing.T) {
	p := newTestPlan(t, nil)
	require.NoError(t, p.AttachTemplate(5))
	require.NoError(t, p.AttachTemplate(5))
	assert.ErrorIs(t, p.AttachTemplate(6), ErrTemplateAlreadyDefined)
	assert.Equal(t, uint(5), *p.TemplateDatabaseID())
}
