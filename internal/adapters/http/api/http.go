// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/flagrank/internal/adapters/repository"
	"github.com/okian/flagrank/internal/domain/leaderboard"
	"github.com/okian/flagrank/internal/domain/match"
	"github.com/okian/flagrank/internal/domain/model"
	"github.com/okian/flagrank/internal/domain/types"
	"github.com/okian/flagrank/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	LeaderboardDependencies
	ItemDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	matchHandler       *MatchHandler
	leaderboardHandler *LeaderboardHandler
	itemHandler        *ItemHandler
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	log logger.Logger
}

// WithLogger sets the logger used to report internal errors.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		matchHandler:       NewMatchHandler(deps, o.log),
		leaderboardHandler: NewLeaderboardHandler(deps, o.log),
		itemHandler:        NewItemHandler(deps, o.log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /match", MetricsMiddleware(s.matchHandler.HandleGetMatch, "match"))
	mux.HandleFunc("POST /response", MetricsMiddleware(s.matchHandler.HandlePostResponse, "response"))
	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /leaderboards", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboards, "leaderboards"))
	mux.HandleFunc("GET /items/{id}", MetricsMiddleware(s.itemHandler.HandleGetItem, "items"))
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.LeaderboardEntry

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps domain errors onto a status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, match.ErrInsufficientItems):
		return http.StatusServiceUnavailable, "insufficient_items"
	case errors.Is(err, match.ErrUnknownMatch):
		return http.StatusBadRequest, "unknown_match"
	case errors.Is(err, model.ErrInvalidOutcome):
		return http.StatusBadRequest, "invalid_outcome"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, leaderboard.ErrUnknownMetric), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeDomainError translates err and logs anything that is not a client error.
func writeDomainError(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
	}
	writeError(w, status, code, err)
}
