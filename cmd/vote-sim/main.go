package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/flagrank/internal/votesim"
)

// Default configuration constants.
const (
	defaultVotes       = 500
	defaultVoters      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		voters  = flag.Int("voters", runtime.NumCPU()*defaultVoters, "Number of concurrent voters")
		votes   = flag.Int("votes", defaultVotes, "Votes cast by each voter")
		limit   = flag.Int("limit", 0, "Leaderboard rows fetched per metric (0 = server maximum)")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Also write logs to this file")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		votesim.ShowHelp()
		return
	}

	if err := votesim.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &votesim.Config{
		BaseURL: *baseURL,
		Voters:  *voters,
		Votes:   *votes,
		Limit:   *limit,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if _, err := votesim.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
