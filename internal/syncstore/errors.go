package syncstore

import "errors"

var (
	// ErrSlugRequired is returned when an add has no slug to key on.
	ErrSlugRequired = errors.New("slug required")
	// ErrDuplicateSlug is returned when a mutation would leave two products
	// sharing a slug. Checked locally before any remote call.
	ErrDuplicateSlug = errors.New("slug already exists")
	// ErrNotFound is returned when the target of an update or delete is not in
	// the local list. No remote call is issued.
	ErrNotFound = errors.New("product not found")
)

// OpError reports a remote mutation failure after local state has been rolled
// back. Message carries the server's error body when one was readable.
type OpError struct {
	Op      string // "create", "update" or "delete"
	Message string
	Err     error
}

func (e *OpError) Error() string {
	if e.Message != "" {
		return e.Op + " failed: " + e.Message
	}
	return e.Op + " failed"
}

func (e *OpError) Unwrap() error {
	return e.Err
}
