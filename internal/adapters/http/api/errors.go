package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrMissingMatchID = errors.New("missing match id")
	ErrInvalidLimit   = errors.New("limit must be a non-negative integer")
)
