package client

import (
	"errors"
	"fmt"
)

var (
	ErrClientNotFound          = errors.New("saas client not found")
	ErrDatabaseNotFound        = errors.New("saas database not found")
	ErrInvalidStateTransition  = errors.New("invalid database state transition")
	ErrDatabaseDeleted         = errors.New("database has been deleted")
	ErrNameRequired            = errors.New("database name is required")
	ErrNegativeStorage         = errors.New("storage usage cannot be negative")
	ErrStaleExpirationChange   = errors.New("expiration changed since the change was staged")
	ErrServerNotAssigned       = errors.New("database has no server assigned")
	ErrForeignExpirationChange = errors.New("expiration change belongs to another client")
)

func ErrInvalidTransition(from, to State) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStateTransition, from, to)
}
