// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/flagrank/internal/adapters/repository"
	"github.com/okian/flagrank/internal/adapters/snapshot"
	"github.com/okian/flagrank/internal/domain/catalog"
	"github.com/okian/flagrank/internal/domain/leaderboard"
	"github.com/okian/flagrank/internal/domain/match"
	"github.com/okian/flagrank/internal/domain/model"
	"github.com/okian/flagrank/internal/domain/rating"
	"github.com/okian/flagrank/internal/domain/types"
	"github.com/okian/flagrank/pkg/logger"
	"github.com/okian/flagrank/pkg/metrics"
)

// Service implements the API dependencies for the rating system.
type Service struct {
	mu sync.RWMutex

	// Core components
	items     *repository.ItemStore
	broker    *match.Broker
	snapshots snapshot.Store
	scheduler *snapshot.Scheduler

	// Configuration
	model            *rating.Model
	catalogPath      string
	catalogOpts      catalog.Options
	matchOpts        []match.Option
	maxLimit         int
	snapshotSchedule string

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRatingModel sets the rating model.
func WithRatingModel(m *rating.Model) Option {
	return func(s *Service) {
		if m != nil {
			s.model = m
		}
	}
}

// WithCatalog sets the catalog file used when no snapshot can be restored,
// and how its records become items.
func WithCatalog(path string, opts catalog.Options) Option {
	return func(s *Service) {
		s.catalogPath = path
		s.catalogOpts = opts
	}
}

// WithMatchTTL sets how long issued matches stay resolvable.
func WithMatchTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.matchOpts = append(s.matchOpts, match.WithTTL(ttl))
	}
}

// WithMaxPendingMatches caps the pending match table.
func WithMaxPendingMatches(n int) Option {
	return func(s *Service) {
		s.matchOpts = append(s.matchOpts, match.WithCapacity(n))
	}
}

// WithMatchOptions passes extra options to the match broker.
func WithMatchOptions(opts ...match.Option) Option {
	return func(s *Service) {
		s.matchOpts = append(s.matchOpts, opts...)
	}
}

// WithMaxLeaderboardLimit caps leaderboard sizes.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithSnapshotStore sets where state is persisted.
func WithSnapshotStore(st snapshot.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.snapshots = st
		}
	}
}

// WithSnapshotSchedule sets the cron spec for periodic persistence. Empty
// disables it; state is still persisted on Stop.
func WithSnapshotSchedule(spec string) Option {
	return func(s *Service) {
		s.snapshotSchedule = spec
	}
}

// New constructs a new Service with default configuration. The item store
// and match broker are created here so items can be loaded before Start.
func New(opts ...Option) *Service {
	s := &Service{
		model:     rating.New(),
		snapshots: snapshot.Nop{},
		maxLimit:  500,
		catalogOpts: catalog.Options{
			IconTemplate: "img/flag/{code}.svg",
			NoteParent:   true,
		},
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.items = repository.NewItemStore(
		repository.WithModel(s.model),
		repository.WithLogger(s.logger.Named("items")),
	)
	s.broker = match.NewBroker(s.items,
		append([]match.Option{match.WithLogger(s.logger.Named("broker"))}, s.matchOpts...)...)
	s.scheduler = snapshot.NewScheduler(snapshot.WithLogger(s.logger.Named("scheduler")))

	return s
}

// Start restores the last snapshot, or builds the items from the catalog
// when there is none or it cannot be read, and starts periodic persistence.
// Only catalog errors are fatal.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting rating service...")

	restored := s.restoreLatest(ctx)
	if !restored && s.items.Count(ctx) == 0 {
		if s.catalogPath == "" {
			return fmt.Errorf("%w: no snapshot and no catalog configured", catalog.ErrConfig)
		}
		cat, err := catalog.LoadFile(ctx, s.catalogPath)
		if err != nil {
			return err
		}
		if err := s.LoadInitialItems(ctx, cat); err != nil {
			return err
		}
	}

	if s.snapshotSchedule != "" {
		if err := s.scheduler.Schedule(ctx, s.snapshotSchedule, "snapshot", s.Persist); err != nil {
			return err
		}
		s.scheduler.Start()
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "rating service started",
		logger.Int("items", s.items.Count(ctx)),
		logger.Int("games", s.items.TotalGames(ctx)),
		logger.Bool("restored", restored),
	)

	return nil
}

// restoreLatest loads the newest snapshot. Any failure is logged and
// reported as false.
func (s *Service) restoreLatest(ctx context.Context) bool {
	start := time.Now()
	blob, err := s.snapshots.Load(ctx)
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		s.logger.Info(ctx, "no snapshot found, initialising from catalog")
		return false
	case err != nil:
		metrics.RecordSnapshot("load", false, float64(time.Since(start).Milliseconds()))
		s.logger.Warn(ctx, "snapshot could not be read, initialising from catalog", logger.Error(err))
		return false
	}

	if err := s.RestoreState(ctx, blob); err != nil {
		s.logger.Warn(ctx, "snapshot could not be restored, initialising from catalog", logger.Error(err))
		return false
	}
	return true
}

// Stop halts periodic persistence, persists once more and closes the
// snapshot store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping rating service...")

	s.scheduler.Stop(ctx)

	var errs []error
	if err := s.Persist(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.snapshots.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close snapshot store: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "rating service stopped")
	return errors.Join(errs...)
}

// RequestMatch issues a new comparison.
func (s *Service) RequestMatch(ctx context.Context) (types.MatchView, error) {
	pm, err := s.broker.Create(ctx)
	if err != nil {
		return types.MatchView{}, err
	}

	a, err := s.items.Get(ctx, pm.A)
	if err != nil {
		return types.MatchView{}, err
	}
	b, err := s.items.Get(ctx, pm.B)
	if err != nil {
		return types.MatchView{}, err
	}

	return types.MatchView{
		MatchID: pm.ID,
		A:       types.NewItemView(a),
		B:       types.NewItemView(b),
	}, nil
}

// SubmitOutcome resolves a match with a wire outcome code ("A", "B" or "D").
func (s *Service) SubmitOutcome(ctx context.Context, matchID, outcomeCode string) (types.OutcomeView, error) {
	o, err := model.ParseOutcome(outcomeCode)
	if err != nil {
		return types.OutcomeView{}, err
	}

	res, err := s.broker.Resolve(ctx, matchID, o)
	if err != nil {
		return types.OutcomeView{}, err
	}

	a, err := s.items.Get(ctx, res.Match.A)
	if err != nil {
		return types.OutcomeView{}, err
	}
	b, err := s.items.Get(ctx, res.Match.B)
	if err != nil {
		return types.OutcomeView{}, err
	}

	return types.NewOutcomeView(res, a, b), nil
}

// Leaderboard ranks every item by metric. limit 0 means the configured
// maximum; larger limits are capped to it.
func (s *Service) Leaderboard(ctx context.Context, metric string, limit int) ([]types.LeaderboardEntry, error) {
	m, err := leaderboard.ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	limit, err = s.clampLimit(limit)
	if err != nil {
		return nil, err
	}

	board := leaderboard.Build(s.items.List(ctx), m)
	return types.NewLeaderboard(leaderboard.Top(board, limit)), nil
}

// Leaderboards ranks every item by each metric from one consistent read.
func (s *Service) Leaderboards(ctx context.Context, limit int) (map[string][]types.LeaderboardEntry, error) {
	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}

	items := s.items.List(ctx)
	out := make(map[string][]types.LeaderboardEntry, len(leaderboard.Metrics))
	for _, m := range leaderboard.Metrics {
		out[string(m)] = types.NewLeaderboard(leaderboard.Top(leaderboard.Build(items, m), limit))
	}
	return out, nil
}

func (s *Service) clampLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	case limit == 0 || limit > s.maxLimit:
		return s.maxLimit, nil
	}
	return limit, nil
}

// Item returns one item with its statistics.
func (s *Service) Item(ctx context.Context, id string) (types.ItemView, error) {
	it, err := s.items.Get(ctx, id)
	if err != nil {
		return types.ItemView{}, err
	}
	return types.NewItemView(it), nil
}

// LoadInitialItems replaces the items with those built from cat.
func (s *Service) LoadInitialItems(ctx context.Context, cat catalog.Catalog) error {
	items, err := catalog.Build(cat, s.catalogOpts)
	if err != nil {
		return err
	}
	return s.items.Initialize(ctx, items)
}

// SnapshotState serialises the item state.
func (s *Service) SnapshotState(ctx context.Context) ([]byte, error) {
	return s.items.Snapshot(ctx)
}

// RestoreState replaces the item state from a snapshot. On failure the
// current state is kept and the error wraps repository.ErrLoad.
func (s *Service) RestoreState(ctx context.Context, blob []byte) error {
	start := time.Now()
	err := s.items.Restore(ctx, blob)
	metrics.RecordSnapshot("load", err == nil, float64(time.Since(start).Milliseconds()))
	return err
}

// Persist snapshots the state and saves it to the snapshot store.
func (s *Service) Persist(ctx context.Context) error {
	start := time.Now()

	blob, err := s.SnapshotState(ctx)
	if err == nil {
		err = s.snapshots.Save(ctx, blob)
	}
	metrics.RecordSnapshot("save", err == nil, float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.logger.Error(ctx, "snapshot save failed", logger.Error(err))
		return fmt.Errorf("persist: %w", err)
	}

	metrics.UpdateSnapshotSaved(float64(time.Now().Unix()), len(blob))
	s.logger.Info(ctx, "snapshot saved",
		logger.Int("bytes", len(blob)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// SweepExpired drops expired pending matches.
func (s *Service) SweepExpired(ctx context.Context) int {
	return s.broker.Sweep(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"items":          s.items.Count(ctx),
		"games":          s.items.TotalGames(ctx),
		"pendingMatches": s.broker.Len(),
	}

	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	return stats
}
