package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/saasportal/internal/application/testutil"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

func TestCheckName(t *testing.T) {
	f := testutil.NewFixture()
	srv := f.AddServer(t, "eu.example.com")
	f.AddClient(t, testutil.ClientSpec{Name: "acme.saas.example.com", State: client.StateOpen})
	f.Clients.Templates["demo.eu.example.com"] = true

	uc := NewCheckNameUseCase(f.Clients, f.Servers, DomainSettings{BaseDomain: "www.saas.example.com"}, logger.NewNop())

	tests := []struct {
		name      string
		cmd       CheckNameCommand
		full      string
		available bool
	}{
		{"base domain taken", CheckNameCommand{DBName: "acme"}, "acme.saas.example.com", false},
		{"base domain free", CheckNameCommand{DBName: "globex"}, "globex.saas.example.com", true},
		{"server domain free", CheckNameCommand{DBName: "acme", ServerSID: srv.SID()}, "acme.eu.example.com", true},
		{"template name taken", CheckNameCommand{DBName: "demo", ServerSID: srv.SID()}, "demo.eu.example.com", false},
		{"unknown server falls back", CheckNameCommand{DBName: "acme", ServerSID: "srv_gone"}, "acme.saas.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.full, result.FullName)
			assert.Equal(t, tt.available, result.Available)
		})
	}

	_, err := uc.Execute(context.Background(), CheckNameCommand{DBName: "  "})
	assert.True(t, errors.IsValidationError(err))
}
