package service

import "errors"

// ErrInvalidLimit reports a negative leaderboard limit.
var ErrInvalidLimit = errors.New("invalid leaderboard limit")
