package snapshot

import "errors"

// Sentinel kinds for snapshot storage errors.
var (
	ErrNoSnapshot     = errors.New("no snapshot saved yet")
	ErrUnknownBackend = errors.New("unknown snapshot backend")
	ErrInvalidSpec    = errors.New("invalid schedule spec")
)
