package usecases

import (
	"testing"
	"time"

	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/testutil"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

var sweepNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newCommander(f *testutil.Fixture) *services.Commander {
	return services.NewCommander(f.Servers, f.Builder, f.Dispatcher, logger.NewNop())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// openClient stores an open client on srv.
func openClient(t *testing.T, f *testutil.Fixture, srv *server.Server, spec testutil.ClientSpec) *client.Client {
	t.Helper()
	spec.ServerID = testutil.Ptr(srv.ID())
	if spec.State == "" {
		spec.State = client.StateOpen
	}
	return f.AddClient(t, spec)
}
