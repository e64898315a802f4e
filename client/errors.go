package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means an action requiring an actor identity was
	// invoked with none. The action is aborted before any remote call.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound means a lookup matched nothing, such as joining a house
	// with an invite code no house carries.
	ErrNotFound = errors.New("not found")
)

// ValidationError is a client-side rejection of a required field, raised
// before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RemoteError wraps a failed remote call. The local snapshot is never
// modified when one of these is returned.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
