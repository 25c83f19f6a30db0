package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by façade operations invoked before the
	// session finished loading (or after it was closed).
	ErrNotReady = errors.New("library session is not ready")

	// ErrNotFoundOrPrivate is the uniform outcome for a public profile
	// that is absent or not public. The two causes are deliberately
	// indistinguishable so the existence of a private account never leaks.
	ErrNotFoundOrPrivate = errors.New("library is private or not found")

	// ErrPublicLibraryUnavailable is the single outcome of the public
	// projection path for every failure cause.
	ErrPublicLibraryUnavailable = errors.New("public library unavailable")
)

// ValidationError reports invalid caller input. It is surfaced
// synchronously and never reaches the remote layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports an operation against a shelf or book id that
// is not present in the local tables. The operation is aborted before any
// remote call.
type InvalidStateError struct {
	Kind string // "shelf" or "book"
	ID   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %q does not exist", e.Kind, e.ID)
}

// RemoteUnavailableError wraps a document store failure.
type RemoteUnavailableError struct {
	Op  string
	Err error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("remote store unavailable during %s: %v", e.Op, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}
