package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/saasportal/internal/application/testutil"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

func newSweepExpired(f *testutil.Fixture) *SweepExpiredUseCase {
	uc := NewSweepExpiredUseCase(f.Clients, newCommander(f), f.Locker, f.Hook, logger.NewNop())
	uc.now = fixedClock(sweepNow)
	return uc
}

func TestSweepExpired(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	yesterday := sweepNow.Add(-24 * time.Hour)
	tomorrow := sweepNow.Add(24 * time.Hour)

	trial := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Trial: true, Expiration: &yesterday})
	blocked := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Expiration: &yesterday,
		Limits: client.Limits{BlockOnExpiration: true}})
	lenient := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Expiration: &yesterday})
	future := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Trial: true, Expiration: &tomorrow})
	gone := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Expiration: &yesterday, State: client.StateDeleted})

	uc := newSweepExpired(f)
	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.True(t, trial.Expired())
	assert.Equal(t, client.StatePending, trial.State())
	assert.True(t, blocked.Expired())
	assert.Equal(t, client.StatePending, blocked.State())
	assert.True(t, lenient.Expired())
	assert.Equal(t, client.StateOpen, lenient.State())
	assert.False(t, future.Expired())
	assert.False(t, gone.Expired())

	assert.Equal(t, 2, f.Dispatcher.Count(command.PathUpgradeDatabase))
	assert.Equal(t, 2, f.Hook.Count(notification.TemplateHasExpired))

	params := f.Dispatcher.Last().State["params"].([]any)
	assert.Equal(t, command.ParamSuspended, params[0].(map[string]any)["key"])

	// a second run finds nothing left to do
	count, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 2, f.Dispatcher.Count(command.PathUpgradeDatabase))
	assert.Equal(t, 2, f.Hook.Count(notification.TemplateHasExpired))
}

func TestSweepExpired_SuspendFailureContinues(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	yesterday := sweepNow.Add(-time.Hour)
	first := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Trial: true, Expiration: &yesterday})
	second := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Trial: true, Expiration: &yesterday})

	f.Dispatcher.SendFunc = func(ctx context.Context, req *command.Request) (*command.Result, error) {
		if req.ClientID == first.ClientID() {
			return nil, &command.ServerCommandFailedError{URL: req.URL, Status: 500, Body: "boom"}
		}
		return &command.Result{}, nil
	}

	count, err := newSweepExpired(f).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.True(t, first.Expired())
	assert.Equal(t, client.StateOpen, first.State())
	assert.True(t, second.Expired())
	assert.Equal(t, client.StatePending, second.State())
}

func TestSweepExpired_Cancelled(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	yesterday := sweepNow.Add(-time.Hour)
	c := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Trial: true, Expiration: &yesterday})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := newSweepExpired(f).Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, count)
	assert.False(t, c.Expired())
	assert.Empty(t, f.Dispatcher.Sent)
}

func TestNotifyExpiring(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	soon := sweepNow.Add(48 * time.Hour)
	later := sweepNow.Add(10 * 24 * time.Hour)
	due := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Expiration: &soon})
	notDue := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Expiration: &later})
	openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1})

	uc := NewNotifyExpiringUseCase(f.Clients, f.Locker, f.Hook, 3, logger.NewNop())
	uc.now = fixedClock(sweepNow)

	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, due.NotificationSent())
	assert.False(t, notDue.NotificationSent())

	require.Len(t, f.Hook.Events, 1)
	event := f.Hook.Events[0]
	assert.Equal(t, notification.TemplateExpirationNotify, event.TemplateKey)
	assert.Equal(t, due.SID(), event.ClientSID)
	assert.Equal(t, 3, event.Context["days"])

	count, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Len(t, f.Hook.Events, 1)
}

func TestNotifyExpiring_Disabled(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	soon := sweepNow.Add(time.Hour)
	c := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, Expiration: &soon})

	uc := NewNotifyExpiringUseCase(f.Clients, f.Locker, f.Hook, 0, logger.NewNop())
	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.False(t, c.NotificationSent())
}

func TestMonitorStorage_ExceedThenRecover(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	c := openClient(t, f, srv, testutil.ClientSpec{
		PartnerID: 1,
		Limits:    client.Limits{TotalStorageLimit: 100, BlockOnStorageExceed: true},
		FileMB:    60,
		DBMB:      50,
	})
	unlimited := openClient(t, f, srv, testutil.ClientSpec{PartnerID: 1, FileMB: 5000})

	uc := NewMonitorStorageUseCase(f.Clients, newCommander(f), f.Locker, f.Hook, logger.NewNop())

	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, c.StorageExceed())
	assert.Equal(t, client.StateOpen, c.State())
	assert.Equal(t, 1, f.Dispatcher.Count(command.PathUpgradeDatabase))
	assert.Equal(t, 1, f.Hook.Count(notification.TemplateStorageExceed))
	assert.False(t, unlimited.StorageExceed())

	count, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 1, f.Dispatcher.Count(command.PathUpgradeDatabase))

	require.NoError(t, c.ReportStorage(60, 30))
	count, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.False(t, c.StorageExceed())
	assert.Equal(t, client.StateOpen, c.State())
	assert.Equal(t, 1, f.Dispatcher.Count(command.PathUpgradeDatabase))
}

func TestMonitorStorage_NoBlock(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	c := openClient(t, f, srv, testutil.ClientSpec{
		PartnerID: 1,
		Limits:    client.Limits{TotalStorageLimit: 100},
		DBMB:      101,
	})

	uc := NewMonitorStorageUseCase(f.Clients, newCommander(f), f.Locker, f.Hook, logger.NewNop())
	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, c.StorageExceed())
	assert.Equal(t, client.StateOpen, c.State())
	assert.Empty(t, f.Dispatcher.Sent)
	assert.Equal(t, 1, f.Hook.Count(notification.TemplateStorageExceed))
}
