// Package command defines the provisioning command contract spoken with
// remote servers: request paths and scopes, the opaque state blob, the
// decoded result and the failure taxonomy.
package command

import (
	"context"

	"github.com/orris-inc/saasportal/internal/domain/server"
)

// Path is the server endpoint a command is posted to.
type Path string

const (
	PathNewDatabase     Path = "/saas_server/new_database"
	PathDeleteDatabase  Path = "/saas_server/delete_database"
	PathUpgradeDatabase Path = "/saas_server/upgrade_database"
)

// Access scopes granted to the portal on the created instance.
const (
	ScopeUserInfo   = "userinfo"
	ScopeForceLogin = "force_login"
	ScopeTrial      = "trial"
	ScopeSkipTheUse = "skiptheuse"
)

// ClientScope is the scope requested when provisioning a tenant instance.
func ClientScope() []string {
	return []string{ScopeUserInfo, ScopeForceLogin, ScopeTrial, ScopeSkipTheUse}
}

// State carries the command parameters. It is signed before it leaves the portal.
type State map[string]any

// Request is a fully built command, ready to send. Building performs no I/O.
type Request struct {
	Path     Path
	URL      string
	ClientID string
	Body     []byte
}

// Result is the decoded body of a successful command response.
type Result struct {
	ClientID          string         `mapstructure:"client_id"`
	State             string         `mapstructure:"state"`
	SuperuserPassword string         `mapstructure:"superuser_password"`
	Extra             map[string]any `mapstructure:",remain"`
}

// RequestBuilder constructs signed command requests for a server.
type RequestBuilder interface {
	Build(srv *server.Server, path Path, state State, clientID string, scope []string) (*Request, error)
}

// Dispatcher sends commands to provisioning servers. Every call is bounded by a timeout.
type Dispatcher interface {
	// Send posts req and decodes the JSON response on a 2xx status.
	Send(ctx context.Context, req *Request) (*Result, error)
	// SendDelete posts a delete command. HTTP 500 yields ErrDeletionUnconfirmed;
	// every other status counts as confirmed deletion.
	SendDelete(ctx context.Context, req *Request) error
}
