package repository

import "errors"

// Sentinel kinds for item store errors.
var (
	ErrNotFound    = errors.New("item not found")
	ErrLoad        = errors.New("snapshot load failed")
	ErrInvalidPair = errors.New("an item cannot be compared with itself")
)
