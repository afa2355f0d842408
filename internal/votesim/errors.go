package votesim

import "errors"

// Sentinel kinds for simulation failures.
var (
	ErrUnhealthy     = errors.New("service is not healthy")
	ErrUnexpected    = errors.New("unexpected response")
	ErrGamesMismatch = errors.New("game count does not match accepted votes")
	ErrBoardOrder    = errors.New("leaderboard is not correctly ranked")
)
