package match

import "errors"

// Sentinel kinds for match lifecycle errors.
var (
	ErrInsufficientItems = errors.New("fewer than two items to compare")
	// ErrUnknownMatch covers ids that were never issued, already resolved,
	// expired or evicted. Callers cannot tell these apart.
	ErrUnknownMatch = errors.New("unknown match")
)
