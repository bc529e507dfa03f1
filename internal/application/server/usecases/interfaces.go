package usecases

import "context"

// UsageCounter counts live databases hosted on a server.
type UsageCounter interface {
	CountLiveByServer(ctx context.Context, serverID uint) (int64, error)
}
