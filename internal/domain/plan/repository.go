package plan

import "context"

type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySID(ctx context.Context, sid string) (*Plan, error)
	// FirstConfirmed returns the confirmed plan with the lowest sequence, or nil.
	FirstConfirmed(ctx context.Context) (*Plan, error)
	List(ctx context.Context, filter Filter) ([]*Plan, int64, error)
}

type Filter struct {
	State    *State
	Page     int
	PageSize int
}

// Sequence hands out monotonically increasing numbers per name.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
}
