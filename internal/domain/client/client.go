package client

import (
	"fmt"
	"time"

	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
)

// Limits are the per-client defaults inherited from a plan unless overridden.
type Limits struct {
	MaxUsers             int
	TotalStorageLimit    int64
	BlockOnExpiration    bool
	BlockOnStorageExceed bool
}

// Ownership identifies who a client belongs to and what it was created from.
type Ownership struct {
	PartnerID uint
	PlanID    *uint
	UserID    *uint
}

// Client is a tenant instance created from a plan.
type Client struct {
	Database

	partnerID            uint
	planID               *uint
	userID               *uint
	expirationDatetime   *time.Time
	expired              bool
	notificationSent     bool
	storageExceed        bool
	blockOnExpiration    bool
	blockOnStorageExceed bool
	trial                bool
	trialHours           int
	maxUsers             int
	fileStorage          int64
	dbStorage            int64
	totalStorageLimit    int64
}

// NewClient creates a draft client.
func NewClient(sid, name, clientID string, owner Ownership, trial bool, trialHours int,
	expiration *time.Time, limits Limits) (*Client, error) {
	db, err := NewDatabase(sid, name, clientID)
	if err != nil {
		return nil, err
	}
	c := &Client{
		Database:           *db,
		partnerID:          owner.PartnerID,
		planID:             owner.PlanID,
		userID:             owner.UserID,
		trial:              trial,
		trialHours:         trialHours,
		expirationDatetime: copyTime(expiration),
	}
	c.applyLimits(limits)
	return c, nil
}

// ClientSnapshot is the persisted form of a client, used to rebuild it.
type ClientSnapshot struct {
	ID                   uint
	SID                  string
	Name                 string
	ClientID             string
	ServerID             *uint
	State                State
	Password             string
	RemoteState          map[string]any
	PartnerID            uint
	PlanID               *uint
	UserID               *uint
	ExpirationDatetime   *time.Time
	Expired              bool
	NotificationSent     bool
	StorageExceed        bool
	BlockOnExpiration    bool
	BlockOnStorageExceed bool
	Trial                bool
	TrialHours           int
	MaxUsers             int
	FileStorage          int64
	DBStorage            int64
	TotalStorageLimit    int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func ReconstructClient(s ClientSnapshot) (*Client, error) {
	db, err := ReconstructDatabase(s.ID, s.SID, s.Name, s.ClientID, s.ServerID, s.State,
		s.Password, s.RemoteState, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &Client{
		Database:             *db,
		partnerID:            s.PartnerID,
		planID:               s.PlanID,
		userID:               s.UserID,
		expirationDatetime:   copyTime(s.ExpirationDatetime),
		expired:              s.Expired,
		notificationSent:     s.NotificationSent,
		storageExceed:        s.StorageExceed,
		blockOnExpiration:    s.BlockOnExpiration,
		blockOnStorageExceed: s.BlockOnStorageExceed,
		trial:                s.Trial,
		trialHours:           s.TrialHours,
		maxUsers:             s.MaxUsers,
		fileStorage:          s.FileStorage,
		dbStorage:            s.DBStorage,
		totalStorageLimit:    s.TotalStorageLimit,
	}, nil
}

func (c *Client) PartnerID() uint                { return c.partnerID }
func (c *Client) PlanID() *uint                  { return c.planID }
func (c *Client) UserID() *uint                  { return c.userID }
func (c *Client) ExpirationDatetime() *time.Time { return copyTime(c.expirationDatetime) }
func (c *Client) Expired() bool                  { return c.expired }
func (c *Client) NotificationSent() bool         { return c.notificationSent }
func (c *Client) StorageExceed() bool            { return c.storageExceed }
func (c *Client) BlockOnExpiration() bool        { return c.blockOnExpiration }
func (c *Client) BlockOnStorageExceed() bool     { return c.blockOnStorageExceed }
func (c *Client) Trial() bool                    { return c.trial }
func (c *Client) TrialHours() int                { return c.trialHours }
func (c *Client) MaxUsers() int                  { return c.maxUsers }
func (c *Client) FileStorage() int64             { return c.fileStorage }
func (c *Client) DBStorage() int64               { return c.dbStorage }
func (c *Client) TotalStorageLimit() int64       { return c.totalStorageLimit }
func (c *Client) StorageUsed() int64             { return c.fileStorage + c.dbStorage }

func (c *Client) Limits() Limits {
	return Limits{
		MaxUsers:             c.maxUsers,
		TotalStorageLimit:    c.totalStorageLimit,
		BlockOnExpiration:    c.blockOnExpiration,
		BlockOnStorageExceed: c.blockOnStorageExceed,
	}
}

// Reassign updates an existing draft record in place when the same
// correlation id is submitted again.
func (c *Client) Reassign(name string, owner Ownership, trial bool, trialHours int,
	expiration *time.Time, limits Limits) error {
	if c.state == StateDeleted {
		return ErrDatabaseDeleted
	}
	if err := c.Rename(name); err != nil {
		return err
	}
	c.partnerID = owner.PartnerID
	c.planID = owner.PlanID
	c.userID = owner.UserID
	c.trial = trial
	c.trialHours = trialHours
	c.expirationDatetime = copyTime(expiration)
	c.applyLimits(limits)
	c.touch()
	return nil
}

func (c *Client) applyLimits(l Limits) {
	c.maxUsers = l.MaxUsers
	c.totalStorageLimit = l.TotalStorageLimit
	c.blockOnExpiration = l.BlockOnExpiration
	c.blockOnStorageExceed = l.BlockOnStorageExceed
}

// ShouldBlockOnExpiration reports whether expiry suspends the instance.
func (c *Client) ShouldBlockOnExpiration() bool {
	return c.trial || c.blockOnExpiration
}

// IsExpiredAt reports whether the expiration lies strictly before now.
func (c *Client) IsExpiredAt(now time.Time) bool {
	return c.expirationDatetime != nil && c.expirationDatetime.Before(now)
}

// MarkExpired sets the expired flag. The flag is never cleared; the return
// value is false when it was already set.
func (c *Client) MarkExpired() bool {
	if c.expired {
		return false
	}
	c.expired = true
	c.touch()
	return true
}

// MarkNotificationSent returns false when the notice for the current
// expiration cycle was already sent.
func (c *Client) MarkNotificationSent() bool {
	if c.notificationSent {
		return false
	}
	c.notificationSent = true
	c.touch()
	return true
}

// Suspend records a successful suspend command.
func (c *Client) Suspend() error {
	return c.TransitionTo(StatePending)
}

// Open records a successful provisioning of a draft client. Instances that
// the server already moved elsewhere keep the server's state.
func (c *Client) Open() error {
	if c.state != StateDraft {
		return nil
	}
	return c.TransitionTo(StateOpen)
}

// ReportStorage records measured usage, in megabytes.
func (c *Client) ReportStorage(fileStorage, dbStorage int64) error {
	if fileStorage < 0 || dbStorage < 0 {
		return ErrNegativeStorage
	}
	c.fileStorage = fileStorage
	c.dbStorage = dbStorage
	c.touch()
	return nil
}

// StorageTransition is the outcome of a storage evaluation.
type StorageTransition int

const (
	StorageUnchanged StorageTransition = iota
	StorageExceeded
	StorageRecovered
)

// EvaluateStorage compares usage to the limit and flips the exceed flag.
// A limit of zero means unlimited.
func (c *Client) EvaluateStorage() StorageTransition {
	over := c.totalStorageLimit > 0 && c.StorageUsed() > c.totalStorageLimit
	switch {
	case over && !c.storageExceed:
		c.storageExceed = true
		c.touch()
		return StorageExceeded
	case !over && c.storageExceed:
		c.storageExceed = false
		c.touch()
		return StorageRecovered
	default:
		return StorageUnchanged
	}
}

// ExpirationChange is a staged expiration update. It is committed only after
// the remote instance accepted Payload.
type ExpirationChange struct {
	clientID uint
	previous *time.Time
	next     *time.Time
	Payload  command.UpgradePayload
}

func (ch *ExpirationChange) Previous() *time.Time { return copyTime(ch.previous) }
func (ch *ExpirationChange) Next() *time.Time     { return copyTime(ch.next) }

// StageExpiration prepares an expiration change without touching the client.
func (c *Client) StageExpiration(next *time.Time) (*ExpirationChange, error) {
	if c.state == StateDeleted {
		return nil, ErrDatabaseDeleted
	}
	return &ExpirationChange{
		clientID: c.id,
		previous: copyTime(c.expirationDatetime),
		next:     copyTime(next),
		Payload: command.UpgradePayload{Params: []command.UpgradeParam{
			{Key: command.ParamExpirationDatetime, Value: biztime.FormatServerDatetime(next), Hidden: true},
		}},
	}, nil
}

// CommitExpiration applies a staged change and opens a new notification cycle.
func (c *Client) CommitExpiration(ch *ExpirationChange) error {
	if ch == nil || ch.clientID != c.id {
		return ErrForeignExpirationChange
	}
	if !sameTime(ch.previous, c.expirationDatetime) {
		return ErrStaleExpirationChange
	}
	c.expirationDatetime = copyTime(ch.next)
	c.notificationSent = false
	c.touch()
	return nil
}

// ParamsPayload carries the limits pushed to the instance on sync.
func (c *Client) ParamsPayload() command.UpgradePayload {
	return command.UpgradePayload{Params: []command.UpgradeParam{
		{Key: command.ParamMaxUsers, Value: c.maxUsers, Hidden: true},
		{Key: command.ParamExpirationDatetime, Value: biztime.FormatServerDatetime(c.expirationDatetime), Hidden: true},
		{Key: command.ParamTotalStorageLimit, Value: c.totalStorageLimit, Hidden: true},
	}}
}

func (c *Client) String() string {
	return fmt.Sprintf("client %s (%s, %s)", c.sid, c.name, c.state)
}

// copyTime returns a UTC copy so callers never share or alter stored values.
func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
