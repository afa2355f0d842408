package api

import (
	"context"
	"net/http"

	"github.com/okian/flagrank/internal/domain/types"
	"github.com/okian/flagrank/pkg/logger"
)

// ItemDependencies defines the interface for item lookups.
type ItemDependencies interface {
	Item(ctx context.Context, id string) (types.ItemView, error)
}

// ItemHandler handles item requests.
type ItemHandler struct {
	deps ItemDependencies
	log  logger.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(deps ItemDependencies, log logger.Logger) *ItemHandler {
	return &ItemHandler{deps: deps, log: log}
}

// HandleGetItem handles GET /items/{id} requests.
func (h *ItemHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_item"
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	item, err := h.deps.Item(r.Context(), id)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
