package client

import (
	"fmt"
	"strings"
	"time"
)

// Database is a provisioned instance record. Plans use bare databases as
// templates; tenant instances are Clients, which embed a Database.
type Database struct {
	id          uint
	sid         string
	name        string
	clientID    string
	serverID    *uint
	state       State
	password    string
	remoteState map[string]any
	createdAt   time.Time
	updatedAt   time.Time
}

// NewDatabase creates a draft database identified remotely by clientID.
func NewDatabase(sid, name, clientID string) (*Database, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := time.Now().UTC()
	return &Database{
		sid:       sid,
		name:      name,
		clientID:  clientID,
		state:     StateDraft,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructDatabase(id uint, sid, name, clientID string, serverID *uint, state State,
	password string, remoteState map[string]any, createdAt, updatedAt time.Time) (*Database, error) {
	if id == 0 {
		return nil, fmt.Errorf("database ID cannot be zero")
	}
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid database state: %s", state)
	}
	return &Database{
		id:          id,
		sid:         sid,
		name:        name,
		clientID:    clientID,
		serverID:    serverID,
		state:       state,
		password:    password,
		remoteState: remoteState,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (d *Database) ID() uint                    { return d.id }
func (d *Database) SID() string                 { return d.sid }
func (d *Database) Name() string                { return d.name }
func (d *Database) ClientID() string            { return d.clientID }
func (d *Database) ServerID() *uint             { return d.serverID }
func (d *Database) State() State                { return d.state }
func (d *Database) Password() string            { return d.password }
func (d *Database) RemoteState() map[string]any { return d.remoteState }
func (d *Database) CreatedAt() time.Time        { return d.createdAt }
func (d *Database) UpdatedAt() time.Time        { return d.updatedAt }

// Active is derived from the state; there is no setter.
func (d *Database) Active() bool {
	return d.state.IsActive()
}

func (d *Database) SetID(id uint) error {
	if d.id != 0 {
		return fmt.Errorf("database ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("database ID cannot be zero")
	}
	d.id = id
	return nil
}

func (d *Database) AssignServer(serverID uint) error {
	if d.state == StateDeleted {
		return ErrDatabaseDeleted
	}
	d.serverID = &serverID
	d.touch()
	return nil
}

func (d *Database) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	d.name = name
	d.touch()
	return nil
}

func (d *Database) TransitionTo(target State) error {
	if !d.state.CanTransitionTo(target) {
		return ErrInvalidTransition(d.state, target)
	}
	if d.state != target {
		d.state = target
		d.touch()
	}
	return nil
}

// MarkDeleted records a confirmed remote deletion.
func (d *Database) MarkDeleted() error {
	return d.TransitionTo(StateDeleted)
}

// ApplyCommandResult stores what a provisioning server returned. An empty
// remote state keeps the current one.
func (d *Database) ApplyCommandResult(password, remoteState string, extra map[string]any) error {
	if d.state == StateDeleted {
		return ErrDatabaseDeleted
	}
	if remoteState != "" {
		target := State(remoteState)
		if !target.IsValid() {
			return fmt.Errorf("%w: unknown remote state %q", ErrInvalidStateTransition, remoteState)
		}
		if err := d.TransitionTo(target); err != nil {
			return err
		}
	}
	if password != "" {
		d.password = password
	}
	if len(extra) > 0 {
		d.remoteState = extra
	}
	d.touch()
	return nil
}

// Host is the DNS name of the instance. Bare names are qualified with baseDomain.
func (d *Database) Host(baseDomain string) string {
	if baseDomain == "" || strings.Contains(d.name, ".") {
		return d.name
	}
	return d.name + "." + baseDomain
}

// PublicURL is the browser entry point of the instance, always ending in "/".
func (d *Database) PublicURL(scheme, baseDomain string) string {
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + d.Host(baseDomain) + "/"
}

func (d *Database) touch() {
	d.updatedAt = time.Now().UTC()
}

// FullName qualifies a requested instance name with domain. Any "www." is
// removed so signup forms can offer the public site domain.
func FullName(name, domain string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	full := name
	if domain != "" {
		full = name + "." + domain
	}
	return strings.ReplaceAll(full, "www.", "")
}
