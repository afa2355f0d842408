package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidOutcome = errors.New("invalid outcome")
)
