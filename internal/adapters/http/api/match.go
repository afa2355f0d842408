package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/flagrank/internal/domain/types"
	"github.com/okian/flagrank/pkg/logger"
)

// Header names accepted by POST /response.
const (
	HeaderMatchID = "Match-ID"
	HeaderOutcome = "Outcome"
)

const maxResponseBody = 4 << 10

// MatchDependencies defines the interface for match operations.
type MatchDependencies interface {
	RequestMatch(ctx context.Context) (types.MatchView, error)
	SubmitOutcome(ctx context.Context, matchID, outcomeCode string) (types.OutcomeView, error)
}

// MatchHandler handles match and response requests.
type MatchHandler struct {
	deps MatchDependencies
	log  logger.Logger
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies, log logger.Logger) *MatchHandler {
	return &MatchHandler{deps: deps, log: log}
}

// responseRequest mirrors the JSON body accepted by POST /response.
type responseRequest struct {
	MatchID string `json:"match_id"`
	Outcome string `json:"outcome"`
}

// HandleGetMatch handles GET /match requests.
func (h *MatchHandler) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	m, err := h.deps.RequestMatch(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, h.log, op, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, m)
}

// HandlePostResponse handles POST /response requests. The match id and
// outcome come from the Match-ID and Outcome headers, or from a JSON body
// when the Match-ID header is absent.
func (h *MatchHandler) HandlePostResponse(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_response"
	req, err := decodeResponse(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.MatchID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingMatchID)
		return
	}
	out, err := h.deps.SubmitOutcome(r.Context(), req.MatchID, req.Outcome)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeResponse(w http.ResponseWriter, r *http.Request) (responseRequest, error) {
	if id := strings.TrimSpace(r.Header.Get(HeaderMatchID)); id != "" {
		return responseRequest{
			MatchID: id,
			Outcome: strings.TrimSpace(r.Header.Get(HeaderOutcome)),
		}, nil
	}

	var req responseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxResponseBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, ErrMissingMatchID
		}
		return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	req.MatchID = strings.TrimSpace(req.MatchID)
	req.Outcome = strings.TrimSpace(req.Outcome)
	return req, nil
}
