package leaderboard

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrUnknownMetric = errors.New("unknown leaderboard metric")
)
