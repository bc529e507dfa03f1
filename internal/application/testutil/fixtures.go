package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/id"
)

// Fixture bundles the in-memory repositories and fakes most use case tests need.
type Fixture struct {
	Servers    *MockServerRepository
	Plans      *MockPlanRepository
	Clients    *MockClientRepository
	Databases  *MockDatabaseRepository
	Users      *MockPortalUserRepository
	Sequence   *MockSequence
	Builder    *MockRequestBuilder
	Dispatcher *MockDispatcher
	Locker     *MockLocker
	Tx         *MockTxRunner
	Hook       *MockHook
}

func NewFixture() *Fixture {
	return &Fixture{
		Servers:    NewMockServerRepository(),
		Plans:      NewMockPlanRepository(),
		Clients:    NewMockClientRepository(),
		Databases:  NewMockDatabaseRepository(),
		Users:      NewMockPortalUserRepository(),
		Sequence:   NewMockSequence(),
		Builder:    &MockRequestBuilder{},
		Dispatcher: &MockDispatcher{},
		Locker:     &MockLocker{},
		Tx:         &MockTxRunner{},
		Hook:       &MockHook{},
	}
}

// AddServer stores an active server for domain.
func (f *Fixture) AddServer(t *testing.T, domain string) *server.Server {
	t.Helper()
	sid, err := id.NewServerSID()
	require.NoError(t, err)
	srv, err := server.NewServer(sid, domain, server.SchemeHTTPS, "", "", "secret-"+domain, 10)
	require.NoError(t, err)
	require.NoError(t, f.Servers.Create(context.Background(), srv))
	return srv
}

// AddPlan stores a plan. Confirmed plans get a template database in state template.
func (f *Fixture) AddPlan(t *testing.T, attrs plan.Attributes, confirmed bool) *plan.Plan {
	t.Helper()
	sid, err := id.NewPlanSID()
	require.NoError(t, err)
	p, err := plan.NewPlan(sid, attrs)
	require.NoError(t, err)
	require.NoError(t, f.Plans.Create(context.Background(), p))

	if confirmed {
		dbSID, err := id.NewDatabaseSID()
		require.NoError(t, err)
		tpl, err := client.NewDatabase(dbSID, "tpl-"+sid, id.NewCorrelationID())
		require.NoError(t, err)
		if attrs.ServerID != nil {
			require.NoError(t, tpl.AssignServer(*attrs.ServerID))
		}
		require.NoError(t, tpl.TransitionTo(client.StateTemplate))
		require.NoError(t, f.Databases.Create(context.Background(), tpl))
		require.NoError(t, p.AttachTemplate(tpl.ID()))
		p.SyncState(tpl.State())
		require.NoError(t, f.Plans.Update(context.Background(), p))
	}
	return p
}

// ClientSpec describes a stored client for tests.
type ClientSpec struct {
	Name       string
	PartnerID  uint
	PlanID     *uint
	ServerID   *uint
	State      client.State
	Trial      bool
	Expiration *time.Time
	Limits     client.Limits
	FileMB     int64
	DBMB       int64
}

// AddClient stores a client built from spec.
func (f *Fixture) AddClient(t *testing.T, spec ClientSpec) *client.Client {
	t.Helper()
	sid, err := id.NewClientSID()
	require.NoError(t, err)
	if spec.Name == "" {
		spec.Name = "tenant-" + sid
	}
	c, err := client.NewClient(sid, spec.Name, id.NewCorrelationID(),
		client.Ownership{PartnerID: spec.PartnerID, PlanID: spec.PlanID},
		spec.Trial, 0, spec.Expiration, spec.Limits)
	require.NoError(t, err)
	if spec.ServerID != nil {
		require.NoError(t, c.AssignServer(*spec.ServerID))
	}
	if spec.State != "" && spec.State != client.StateDraft {
		require.NoError(t, c.TransitionTo(spec.State))
	}
	require.NoError(t, c.ReportStorage(spec.FileMB, spec.DBMB))
	require.NoError(t, f.Clients.Create(context.Background(), c))
	return c
}

func Ptr[T any](v T) *T {
	return &v
}
