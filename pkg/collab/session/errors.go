package session

import (
	"errors"
	"fmt"

	"collabdesk-be/internal/entity"
)

// ErrNotFound is returned when a session id resolves to nothing.
var ErrNotFound = errors.New("session not found")

// ErrForbidden is returned when a session's owner does not match the
// caller's identity. Expected outcome, never a server fault.
var ErrForbidden = errors.New("session access denied")

// InactiveError reports a rejected operation on a session that is not in
// the state the operation requires. It carries the current status so
// callers can render a precise message ("cannot send to a paused session").
type InactiveError struct {
	Status entity.SessionStatus
}

func (e *InactiveError) Error() string {
	return fmt.Sprintf("session is not active (status: %s)", e.Status)
}

// AsInactive unwraps err into an InactiveError if it is one.
func AsInactive(err error) (*InactiveError, bool) {
	var ie *InactiveError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
