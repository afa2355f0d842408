package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/flagrank/internal/domain/model"
	"github.com/okian/flagrank/internal/domain/rating"
	"github.com/okian/flagrank/pkg/logger"
	"github.com/okian/flagrank/pkg/metrics"
)

// ItemStore is the in-memory Store. Every mutation takes the write lock, so
// readers never observe one side of a pair update without the other.
type ItemStore struct {
	mu    sync.RWMutex
	byID  map[string]*model.Item
	ids   []string // sorted; fixed between Initialize/Restore calls
	games int

	model *rating.Model
	log   logger.Logger
}

var _ Store = (*ItemStore)(nil)

// snapshotItem is the persisted record shape with its validation rules.
type snapshotItem struct {
	Code   string  `json:"code"`
	Name   string  `json:"name" validate:"required"`
	URL    string  `json:"url"`
	Rating float64 `json:"rating"`
	Wins   int     `json:"wins" validate:"gte=0"`
	Losses int     `json:"losses" validate:"gte=0"`
	Draws  int     `json:"draws" validate:"gte=0"`
}

var validate = validator.New()

// NewItemStore constructs an empty store.
func NewItemStore(opts ...Option) *ItemStore {
	s := &ItemStore{
		byID:  make(map[string]*model.Item),
		model: rating.New(),
		log:   logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize implements Store.Initialize.
func (s *ItemStore) Initialize(ctx context.Context, items []model.Item) error {
	byID := make(map[string]*model.Item, len(items))
	for i := range items {
		it := items[i]
		if it.Code == "" {
			return fmt.Errorf("item %d has no code", i)
		}
		if _, dup := byID[it.Code]; dup {
			return fmt.Errorf("duplicate item code %q", it.Code)
		}
		byID[it.Code] = &it
	}

	s.swap(byID)
	s.log.Info(ctx, "items initialised", logger.Int("count", len(byID)))
	return nil
}

// Get implements Store.Get.
func (s *ItemStore) Get(ctx context.Context, code string) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.byID[code]
	if !ok {
		return model.Item{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return *it, nil
}

// List implements Store.List.
func (s *ItemStore) List(ctx context.Context) []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Item, len(s.ids))
	for i, id := range s.ids {
		out[i] = *s.byID[id]
	}
	return out
}

// IDs implements Store.IDs.
func (s *ItemStore) IDs(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Count implements Store.Count.
func (s *ItemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// TotalGames implements Store.TotalGames.
func (s *ItemStore) TotalGames(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games
}

// ApplyOutcome implements Store.ApplyOutcome.
func (s *ItemStore) ApplyOutcome(ctx context.Context, a, b string, o model.Outcome) (rating.Change, rating.Change, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if !o.Valid() {
		return rating.Change{}, rating.Change{}, fmt.Errorf("%w: %d", model.ErrInvalidOutcome, o)
	}
	if a == b {
		return rating.Change{}, rating.Change{}, fmt.Errorf("%w: %s", ErrInvalidPair, a)
	}

	s.mu.Lock()
	ia, okA := s.byID[a]
	ib, okB := s.byID[b]
	if !okA || !okB {
		s.mu.Unlock()
		missing := a
		if okA {
			missing = b
		}
		return rating.Change{}, rating.Change{}, fmt.Errorf("%w: %s", ErrNotFound, missing)
	}

	before := [2]model.Item{*ia, *ib}
	ca, cb, err := s.model.Deltas(
		rating.Side{Rating: ia.Rating, Games: ia.Games()},
		rating.Side{Rating: ib.Rating, Games: ib.Games()},
		o,
	)
	if err != nil {
		s.mu.Unlock()
		return rating.Change{}, rating.Change{}, err
	}

	ia.Rating += ca.Delta
	ia.Record(ca.Result)
	ib.Rating += cb.Delta
	ib.Record(cb.Result)
	s.games += 2
	games := s.games
	s.mu.Unlock()

	// Logging and metrics happen outside the lock.
	s.trace(ctx, before[0], ca)
	s.trace(ctx, before[1], cb)
	metrics.RecordRatingChange(ca.Delta)
	metrics.RecordRatingChange(cb.Delta)
	metrics.UpdateGamesTotal(games)

	return ca, cb, nil
}

func (s *ItemStore) trace(ctx context.Context, before model.Item, c rating.Change) {
	s.log.Debug(ctx, "rating changed",
		logger.String("code", before.Code),
		logger.String("result", c.Result.String()),
		logger.Float64("before", before.Rating),
		logger.Float64("expected", c.Expected),
		logger.Float64("surprise", c.Surprise()),
		logger.Float64("deviation", c.Deviation),
		logger.Float64("dampener", c.Dampener),
		logger.Float64("change", c.Delta),
	)
}

// Snapshot implements Store.Snapshot.
func (s *ItemStore) Snapshot(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	state := make(map[string]model.Item, len(s.byID))
	for id, it := range s.byID {
		state[id] = *it
	}
	s.mu.RUnlock()

	blob, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return blob, nil
}

// Restore implements Store.Restore. The blob is decoded and validated
// before the lock is taken; on any failure the current state is kept.
func (s *ItemStore) Restore(ctx context.Context, blob []byte) error {
	var state map[string]snapshotItem
	if err := json.Unmarshal(blob, &state); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrLoad, err)
	}
	if len(state) == 0 {
		return fmt.Errorf("%w: snapshot holds no items", ErrLoad)
	}

	byID := make(map[string]*model.Item, len(state))
	for code, rec := range state {
		if code == "" {
			return fmt.Errorf("%w: empty code", ErrLoad)
		}
		if rec.Code == "" {
			rec.Code = code
		}
		if rec.Code != code {
			return fmt.Errorf("%w: key %s holds item %s", ErrLoad, code, rec.Code)
		}
		if err := validate.Struct(rec); err != nil {
			return fmt.Errorf("%w: item %s: %w", ErrLoad, code, err)
		}
		if math.IsNaN(rec.Rating) || math.IsInf(rec.Rating, 0) {
			return fmt.Errorf("%w: item %s: rating is not finite", ErrLoad, code)
		}
		byID[code] = &model.Item{
			Code:   rec.Code,
			Name:   rec.Name,
			URL:    rec.URL,
			Rating: rec.Rating,
			Wins:   rec.Wins,
			Losses: rec.Losses,
			Draws:  rec.Draws,
		}
	}

	s.swap(byID)
	s.log.Info(ctx, "items restored", logger.Int("count", len(byID)))
	return nil
}

// swap installs a new mapping wholesale.
func (s *ItemStore) swap(byID map[string]*model.Item) {
	ids := make([]string, 0, len(byID))
	games := 0
	for id, it := range byID {
		ids = append(ids, id)
		games += it.Games()
	}
	sort.Strings(ids)

	s.mu.Lock()
	s.byID = byID
	s.ids = ids
	s.games = games
	s.mu.Unlock()

	metrics.UpdateItemsTotal(len(byID))
	metrics.UpdateGamesTotal(games)
}
