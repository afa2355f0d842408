// Package repository owns the rateable items and their mutable state.
package repository

import (
	"context"

	"github.com/okian/flagrank/internal/domain/model"
	"github.com/okian/flagrank/internal/domain/rating"
)

// Store provides read/write access to the item state.
type Store interface {
	// Initialize replaces the contents with a freshly built item set.
	Initialize(ctx context.Context, items []model.Item) error

	// Get returns a copy of one item.
	// Returns ErrNotFound if the code is unknown.
	Get(ctx context.Context, code string) (model.Item, error)

	// List returns copies of every item ordered by code.
	List(ctx context.Context) []model.Item

	// IDs returns every item code ordered by code.
	IDs(ctx context.Context) []string

	// Count returns the number of items.
	Count(ctx context.Context) int

	// TotalGames returns the sum of games over every item.
	TotalGames(ctx context.Context) int

	// ApplyOutcome rates one comparison and updates both records atomically.
	ApplyOutcome(ctx context.Context, a, b string, o model.Outcome) (rating.Change, rating.Change, error)

	// Snapshot serialises the state as a JSON object keyed by code.
	Snapshot(ctx context.Context) ([]byte, error)

	// Restore replaces the state from a snapshot, or fails with ErrLoad
	// leaving the current state untouched.
	Restore(ctx context.Context, blob []byte) error
}
