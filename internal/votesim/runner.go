package votesim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/flagrank/pkg/logger"
)

var outcomes = []string{"A", "B", "D"}

// Run casts cfg.Voters*cfg.Votes random votes against the server, then
// verifies the game count and every leaderboard.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("votesim")
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting vote simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("voters", cfg.Voters),
		logger.Int("votes", cfg.Votes),
		logger.Duration("timeout", cfg.Timeout))

	if err := client.Health(ctx); err != nil {
		return stats, err
	}

	before, err := client.stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("read stats: %w", err)
	}
	stats.GamesBefore = before.Games

	if err := castVotes(ctx, client, cfg, stats, log); err != nil {
		return stats, err
	}

	after, err := client.stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("read stats: %w", err)
	}
	stats.GamesAfter = after.Games

	var errs []error
	if err := VerifyGames(stats.GamesBefore, stats.GamesAfter, stats.VotesAccepted); err != nil {
		errs = append(errs, err)
	}

	boards, err := client.Leaderboards(ctx, cfg.Limit)
	if err != nil {
		return stats, fmt.Errorf("read leaderboards: %w", err)
	}
	metrics := make([]string, 0, len(boards))
	for metric := range boards {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)
	for _, metric := range metrics {
		if err := VerifyBoard(metric, boards[metric]); err != nil {
			errs = append(errs, err)
			continue
		}
		stats.BoardsVerified++
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	return stats, errors.Join(errs...)
}

// castVotes runs the voters concurrently and fills the vote counters.
func castVotes(ctx context.Context, client *HTTPClient, cfg *Config, stats *Stats, log logger.Logger) error {
	var requested, accepted, rejected, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for v := 0; v < cfg.Voters; v++ {
		g.Go(func() error {
			for i := 0; i < cfg.Votes; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				m, err := client.Match(gctx)
				requested.Add(1)
				if err != nil {
					failed.Add(1)
					log.Debug(gctx, "match request failed", logger.Int("voter", v), logger.Error(err))
					continue
				}

				outcome := outcomes[rand.IntN(len(outcomes))]
				status, err := client.Respond(gctx, m.MatchID, outcome)
				switch {
				case err != nil:
					failed.Add(1)
					log.Debug(gctx, "response failed", logger.Int("voter", v), logger.Error(err))
				case status == http.StatusOK:
					accepted.Add(1)
				case status == http.StatusBadRequest:
					rejected.Add(1)
					if cfg.Verbose {
						log.Info(gctx, "vote rejected", logger.String("matchID", m.MatchID), logger.String("outcome", outcome))
					}
				default:
					failed.Add(1)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	stats.MatchesRequested = int(requested.Load())
	stats.VotesAccepted = int(accepted.Load())
	stats.VotesRejected = int(rejected.Load())
	stats.VotesFailed = int(failed.Load())
	return err
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var votesPerSecond float64
	if stats.Duration > 0 {
		votesPerSecond = float64(stats.VotesAccepted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("matchesRequested", stats.MatchesRequested),
		logger.Int("votesAccepted", stats.VotesAccepted),
		logger.Int("votesRejected", stats.VotesRejected),
		logger.Int("votesFailed", stats.VotesFailed),
		logger.Int("gamesBefore", stats.GamesBefore),
		logger.Int("gamesAfter", stats.GamesAfter),
		logger.Int("boardsVerified", stats.BoardsVerified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("votesPerSecond", votesPerSecond))
}
