package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientservices "github.com/orris-inc/saasportal/internal/application/client/services"
	clientusecases "github.com/orris-inc/saasportal/internal/application/client/usecases"
	"github.com/orris-inc/saasportal/internal/application/testutil"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

var createNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func newCreateClient(f *testutil.Fixture) *CreateClientUseCase {
	uc := NewCreateClientUseCase(f.Plans, f.Clients, f.Servers,
		server.NewRegistry(f.Servers, server.SequencePolicy{}), f.Users, f.Sequence,
		f.Locker, f.Tx, f.Hook, DomainSettings{}, logger.NewNop())
	uc.now = func() time.Time { return createNow }
	return uc
}

func TestCreateClient_Success(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	p := f.AddPlan(t, plan.Attributes{
		Name:            "Trial",
		ExpirationHours: 24,
		ServerID:        testutil.Ptr(srv.ID()),
		Defaults:        client.Limits{MaxUsers: 3, TotalStorageLimit: 100},
	}, true)
	require.NoError(t, f.Users.Upsert(context.Background(), &portaluser.User{ID: 7, PartnerID: 3, Login: "alice"}))

	result, err := newCreateClient(f).Execute(context.Background(), CreateClientCommand{
		PlanSID:    p.SID(),
		DBName:     "acme",
		UserID:     testutil.Ptr(uint(7)),
		Trial:      true,
		NotifyUser: true,
		MaxUsers:   testutil.Ptr(10),
	})
	require.NoError(t, err)

	assert.Equal(t, uint(3), result.PartnerID)
	assert.Equal(t, "draft", result.State)
	assert.Equal(t, p.SID(), result.PlanSID)
	assert.Equal(t, srv.SID(), result.ServerSID)
	assert.Equal(t, 24, result.TrialHours)
	assert.Equal(t, 10, result.MaxUsers)
	assert.Equal(t, int64(100), result.TotalStorageLimit)
	assert.Equal(t, "https://acme.saas.example.com/", result.PublicURL)
	require.NotNil(t, result.ExpirationDatetime)
	assert.True(t, createNow.Add(24*time.Hour).Equal(*result.ExpirationDatetime))

	assert.Equal(t, []string{"quota:3:1:true"}, f.Locker.Keys)
	assert.Equal(t, 1, f.Tx.Calls)
	assert.Empty(t, f.Dispatcher.Sent)
	require.Equal(t, 1, f.Hook.Count(notification.TemplateCreateSaaS))
	assert.Equal(t, "https://acme.saas.example.com/", f.Hook.Events[0].Context["public_url"])
}

func TestCreateClient_NormalQuota(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	p := f.AddPlan(t, plan.Attributes{Name: "Pro", MaxDBsPerPartner: 2, ServerID: testutil.Ptr(srv.ID())}, true)
	for i := 0; i < 2; i++ {
		f.AddClient(t, testutil.ClientSpec{PartnerID: 5, PlanID: testutil.Ptr(p.ID()),
			ServerID: testutil.Ptr(srv.ID()), State: client.StateOpen})
	}
	// pending and other partners do not count
	f.AddClient(t, testutil.ClientSpec{PartnerID: 5, PlanID: testutil.Ptr(p.ID()), State: client.StatePending})
	f.AddClient(t, testutil.ClientSpec{PartnerID: 6, PlanID: testutil.Ptr(p.ID()), State: client.StateOpen})

	uc := newCreateClient(f)
	_, err := uc.Execute(context.Background(), CreateClientCommand{
		PlanSID:   p.SID(),
		DBName:    "third",
		PartnerID: testutil.Ptr(uint(5)),
	})
	require.Error(t, err)
	assert.True(t, errors.IsQuotaExceededError(err))

	var quota *plan.QuotaExceededError
	require.True(t, stderrors.As(err, &quota))
	assert.Equal(t, plan.QuotaNormal, quota.Kind)
	assert.Equal(t, int64(2), quota.Current)

	// the trial bucket is independent and unlimited
	_, err = uc.Execute(context.Background(), CreateClientCommand{
		PlanSID:   p.SID(),
		DBName:    "trial-one",
		PartnerID: testutil.Ptr(uint(5)),
		Trial:     true,
	})
	require.NoError(t, err)
}

func TestCreateClient_TrialQuota(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	p := f.AddPlan(t, plan.Attributes{Name: "Trial", MaxTrialDBsPerPartner: 1, ExpirationHours: 1,
		ServerID: testutil.Ptr(srv.ID())}, true)
	f.AddClient(t, testutil.ClientSpec{PartnerID: 5, PlanID: testutil.Ptr(p.ID()), Trial: true, State: client.StateOpen})

	uc := newCreateClient(f)
	_, err := uc.Execute(context.Background(), CreateClientCommand{
		PlanSID: p.SID(), DBName: "again", PartnerID: testutil.Ptr(uint(5)), Trial: true,
	})
	var quota *plan.QuotaExceededError
	require.True(t, stderrors.As(err, &quota))
	assert.Equal(t, plan.QuotaTrial, quota.Kind)
	assert.Equal(t, "trial", errors.GetAppError(err).Details)

	_, err = uc.Execute(context.Background(), CreateClientCommand{
		PlanSID: p.SID(), DBName: "paid", PartnerID: testutil.Ptr(uint(5)),
	})
	require.NoError(t, err)
}

func TestCreateClient_ZeroLimitNeverRefuses(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	p := f.AddPlan(t, plan.Attributes{Name: "Open", ServerID: testutil.Ptr(srv.ID())}, true)
	for i := 0; i < 5; i++ {
		f.AddClient(t, testutil.ClientSpec{PartnerID: 5, PlanID: testutil.Ptr(p.ID()), State: client.StateOpen})
	}

	result, err := newCreateClient(f).Execute(context.Background(), CreateClientCommand{
		PlanSID: p.SID(), DBName: "sixth", PartnerID: testutil.Ptr(uint(5)),
	})
	require.NoError(t, err)
	assert.Nil(t, result.ExpirationDatetime)
}

func TestCreateClient_GracePeriod(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	p := f.AddPlan(t, plan.Attributes{Name: "Grace", GracePeriodDays: 7, ServerID: testutil.Ptr(srv.ID())}, true)

	result, err := newCreateClient(f).Execute(context.Background(), CreateClientCommand{
		PlanSID: p.SID(), DBName: "grace", PartnerID: testutil.Ptr(uint(1)),
	})
	require.NoError(t, err)
	require.NotNil(t, result.ExpirationDatetime)
	assert.True(t, createNow.AddDate(0, 0, 7).Equal(*result.ExpirationDatetime))
}

func TestCreateClient_DefaultsAndNames(t *testing.T) {
	f := testutil.NewFixture()
	f.AddServer(t, "b.example.com")
	f.AddPlan(t, plan.Attributes{Name: "Second", Sequence: 20, DBNameTemplate: "second-%i"}, true)
	first := f.AddPlan(t, plan.Attributes{Name: "First", Sequence: 10, DBNameTemplate: "demo-%i"}, true)

	uc := newCreateClient(f)
	result, err := uc.Execute(context.Background(), CreateClientCommand{PartnerID: testutil.Ptr(uint(1))})
	require.NoError(t, err)
	assert.Equal(t, first.SID(), result.PlanSID)
	assert.Equal(t, "demo-1", result.Name)

	result, err = uc.Execute(context.Background(), CreateClientCommand{PartnerID: testutil.Ptr(uint(1))})
	require.NoError(t, err)
	assert.Equal(t, "demo-2", result.Name)
}

func TestCreateClient_UpsertByCorrelationID(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	p := f.AddPlan(t, plan.Attributes{Name: "Basic", ServerID: testutil.Ptr(srv.ID())}, true)
	uc := newCreateClient(f)

	first, err := uc.Execute(context.Background(), CreateClientCommand{
		PlanSID: p.SID(), DBName: "before", ClientID: "corr-1", PartnerID: testutil.Ptr(uint(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, "corr-1", first.ClientID)

	second, err := uc.Execute(context.Background(), CreateClientCommand{
		PlanSID: p.SID(), DBName: "after", ClientID: "corr-1", PartnerID: testutil.Ptr(uint(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, first.SID, second.SID)
	assert.Equal(t, "after", second.Name)
	assert.Equal(t, uint(2), second.PartnerID)

	_, total, err := f.Clients.List(context.Background(), client.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCreateClient_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *testutil.Fixture) CreateClientCommand
		check func(err error) bool
	}{
		{
			name: "missing partner",
			setup: func(t *testing.T, f *testutil.Fixture) CreateClientCommand {
				return CreateClientCommand{}
			},
			check: errors.IsValidationError,
		},
		{
			name: "unknown user",
			setup: func(t *testing.T, f *testutil.Fixture) CreateClientCommand {
				return CreateClientCommand{UserID: testutil.Ptr(uint(99))}
			},
			check: errors.IsNotFoundError,
		},
		{
			name: "no confirmed plan",
			setup: func(t *testing.T, f *testutil.Fixture) CreateClientCommand {
				f.AddPlan(t, plan.Attributes{Name: "Draft"}, false)
				return CreateClientCommand{PartnerID: testutil.Ptr(uint(1))}
			},
			check: errors.IsNotFoundError,
		},
		{
			name: "draft plan",
			setup: func(t *testing.T, f *testutil.Fixture) CreateClientCommand {
				p := f.AddPlan(t, plan.Attributes{Name: "Draft"}, false)
				return CreateClientCommand{PlanSID: p.SID(), DBName: "x", PartnerID: testutil.Ptr(uint(1))}
			},
			check: func(err error) bool { return stderrors.Is(err, plan.ErrPlanNotConfirmed) },
		},
		{
			name: "no name template",
			setup: func(t *testing.T, f *testutil.Fixture) CreateClientCommand {
				f.AddServer(t, "saas.example.com")
				p := f.AddPlan(t, plan.Attributes{Name: "Basic"}, true)
				return CreateClientCommand{PlanSID: p.SID(), PartnerID: testutil.Ptr(uint(1))}
			},
			check: func(err error) bool { return stderrors.Is(err, plan.ErrTemplateNotConfigured) },
		},
		{
			name: "no server available",
			setup: func(t *testing.T, f *testutil.Fixture) CreateClientCommand {
				p := f.AddPlan(t, plan.Attributes{Name: "Basic"}, true)
				return CreateClientCommand{PlanSID: p.SID(), DBName: "x", PartnerID: testutil.Ptr(uint(1))}
			},
			check: func(err error) bool { return stderrors.Is(err, server.ErrNoServerAvailable) },
		},
		{
			name: "name taken",
			setup: func(t *testing.T, f *testutil.Fixture) CreateClientCommand {
				srv := f.AddServer(t, "saas.example.com")
				p := f.AddPlan(t, plan.Attributes{Name: "Basic", ServerID: testutil.Ptr(srv.ID())}, true)
				f.AddClient(t, testutil.ClientSpec{Name: "taken", PartnerID: 9})
				return CreateClientCommand{PlanSID: p.SID(), DBName: "taken", PartnerID: testutil.Ptr(uint(1))}
			},
			check: errors.IsConflictError,
		},
		{
			name: "negative override",
			setup: func(t *testing.T, f *testutil.Fixture) CreateClientCommand {
				return CreateClientCommand{PartnerID: testutil.Ptr(uint(1)), MaxUsers: testutil.Ptr(-1)}
			},
			check: errors.IsValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewFixture()
			cmd := tt.setup(t, f)
			_, err := newCreateClient(f).Execute(context.Background(), cmd)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestCreateClient_ConcurrentSignupsOpenOne(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "saas.example.com")
	p := f.AddPlan(t, plan.Attributes{Name: "Pro", MaxDBsPerPartner: 1, ServerID: testutil.Ptr(srv.ID())}, true)

	create := newCreateClient(f)
	provision := clientusecases.NewProvisionClientUseCase(f.Clients, f.Servers, f.Plans, f.Databases, f.Users,
		clientservices.NewCommander(f.Servers, f.Builder, f.Dispatcher, logger.NewNop()),
		f.Locker, clientusecases.DomainSettings{}, logger.NewNop())

	const signups = 8
	sids := make([]string, signups)
	var wg sync.WaitGroup
	for i := 0; i < signups; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := create.Execute(context.Background(), CreateClientCommand{
				PlanSID:   p.SID(),
				DBName:    fmt.Sprintf("tenant%d", i),
				PartnerID: testutil.Ptr(uint(5)),
			})
			if assert.NoError(t, err) {
				sids[i] = result.SID
			}
		}(i)
	}
	wg.Wait()

	errs := make([]error, signups)
	for i, sid := range sids {
		wg.Add(1)
		go func(i int, sid string) {
			defer wg.Done()
			_, errs[i] = provision.Execute(context.Background(), clientusecases.ProvisionClientCommand{ClientSID: sid})
		}(i, sid)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.IsQuotaExceededError(err), "got %v", err)
	}
	assert.Equal(t, 1, succeeded)

	open, err := f.Clients.CountOpen(context.Background(), 5, p.ID(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}
