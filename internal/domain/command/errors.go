package command

import (
	"errors"
	"fmt"

	"github.com/orris-inc/saasportal/internal/shared/utils/logutil"
)

// maxBodyRunes bounds the upstream body quoted in error messages.
const maxBodyRunes = 512

// ErrDeletionUnconfirmed means the server answered HTTP 500 to a delete command.
// The database state must stay as it was so the deletion can be retried.
var ErrDeletionUnconfirmed = errors.New("remote deletion could not be confirmed")

// ServerCommandFailedError is returned for non-2xx responses.
type ServerCommandFailedError struct {
	URL    string
	Status int
	Reason string
	Body   string
}

func (e *ServerCommandFailedError) Error() string {
	return fmt.Sprintf("server command %s failed: %d %s: %s", e.URL, e.Status, e.Reason, logutil.TruncateForLog(e.Body, maxBodyRunes))
}

// MalformedResponseError is returned when a 2xx body is not a JSON object.
type MalformedResponseError struct {
	URL  string
	Body string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v: %s", e.URL, e.Err, logutil.TruncateForLog(e.Body, maxBodyRunes))
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsRemoteFailure reports whether err came from the server side of a command
// (error status, unreadable body or unconfirmed deletion) rather than from the portal.
func IsRemoteFailure(err error) bool {
	var failed *ServerCommandFailedError
	var malformed *MalformedResponseError
	return errors.As(err, &failed) || errors.As(err, &malformed) || errors.Is(err, ErrDeletionUnconfirmed)
}
