package client

import (
	"context"
	"time"
)

// DatabaseRepository stores plan template databases.
type DatabaseRepository interface {
	Create(ctx context.Context, db *Database) error
	GetByID(ctx context.Context, id uint) (*Database, error)
	Update(ctx context.Context, db *Database) error
	CountLiveByServer(ctx context.Context, serverID uint) (int64, error)
}

type Repository interface {
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uint) (*Client, error)
	GetBySID(ctx context.Context, sid string) (*Client, error)
	GetByClientID(ctx context.Context, clientID string) (*Client, error)
	// NameTaken reports whether a live client or template already uses name.
	NameTaken(ctx context.Context, name string) (bool, error)

	// CountOpen counts open clients of a partner under a plan. It is the
	// quota basis and must run inside the caller's transaction.
	CountOpen(ctx context.Context, partnerID, planID uint, trial bool) (int64, error)
	CountLiveByServer(ctx context.Context, serverID uint) (int64, error)

	// FindExpiredUnflagged returns live clients whose expiration is before now
	// and that are not yet flagged expired.
	FindExpiredUnflagged(ctx context.Context, now time.Time) ([]*Client, error)
	// FindExpiringUnnotified returns live clients expiring at or before until
	// that have not been notified in the current cycle.
	FindExpiringUnnotified(ctx context.Context, until time.Time) ([]*Client, error)
	// FindStorageCandidates returns live clients with a storage limit or a
	// raised exceed flag.
	FindStorageCandidates(ctx context.Context) ([]*Client, error)

	List(ctx context.Context, filter Filter) ([]*Client, int64, error)
}

type Filter struct {
	PartnerID *uint
	PlanID    *uint
	State     *State
	Trial     *bool
	Expired   *bool
	Page      int
	PageSize  int
}
