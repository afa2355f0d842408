package votesim

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/flagrank/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging configures logging to stdout, and also to logFile when set.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the vote simulator.
func ShowHelp() {
	os.Stdout.WriteString(`flagrank vote simulator
=======================

Casts random votes against a running flagrank server, then checks that the
total game count grew by exactly two per accepted vote and that every
leaderboard is correctly ranked. Run it against an otherwise idle server.

Usage:
  go run ./cmd/vote-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -voters int
        Number of concurrent voters (default CPU cores * 2)
  -votes int
        Votes cast by each voter (default 500)
  -limit int
        Leaderboard rows fetched per metric; 0 uses the server maximum
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message
`)
}
