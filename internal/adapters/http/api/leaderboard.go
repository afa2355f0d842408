package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/flagrank/pkg/logger"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
// A zero limit asks for the configured maximum.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, metric string, limit int) ([]Entry, error)
	Leaderboards(ctx context.Context, limit int) (map[string][]Entry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
	log  logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, log logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, log: log}
}

// HandleGetLeaderboard handles GET /leaderboard?metric=M&limit=N requests.
// metric defaults to rating.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	entries, err := h.deps.Leaderboard(r.Context(), r.URL.Query().Get("metric"), limit)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetLeaderboards handles GET /leaderboards?limit=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboards(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboards"
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	boards, err := h.deps.Leaderboards(r.Context(), limit)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// parseLimit reads the optional limit query parameter. Absent means zero.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, raw)
	}
	return n, nil
}
