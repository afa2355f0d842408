package votesim

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL string        // Base URL of the service
	Voters  int           // Number of concurrent voters
	Votes   int           // Votes cast by each voter
	Limit   int           // Leaderboard rows fetched per metric; 0 asks for the server maximum
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every rejected vote
}

// Stats holds run statistics.
type Stats struct {
	MatchesRequested int
	VotesAccepted    int
	VotesRejected    int
	VotesFailed      int
	GamesBefore      int
	GamesAfter       int
	BoardsVerified   int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// serviceStats mirrors the fields of GET /stats the simulator relies on.
type serviceStats struct {
	Items          int `json:"items"`
	Games          int `json:"games"`
	PendingMatches int `json:"pendingMatches"`
}
