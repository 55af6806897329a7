package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"domusvita/internal/kosten"
	"domusvita/pkg/domain"
	"domusvita/pkg/platform/httputil"
	"domusvita/pkg/requestcontext"
)

// Service defines the cost computations the handler depends on.
type Service interface {
	ForWG(ctx context.Context, id domain.WGID) (kosten.Breakdown, error)
	Aggregate(ctx context.Context) (kosten.Gesamt, error)
}

// Handler wires cost endpoints to the cost service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a cost handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts cost endpoints on the router. The aggregate route is
// registered first so chi does not treat "kosten" as a WG id.
func (h *Handler) Register(r chi.Router) {
	r.Get("/pflege-wgs/kosten/gesamt", h.HandleAggregate)
	r.Get("/pflege-wgs/{id}/kosten", h.HandleForWG)
}

// HandleForWG handles GET /pflege-wgs/{id}/kosten requests.
func (h *Handler) HandleForWG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := domain.WGID(chi.URLParam(r, "id"))

	breakdown, err := h.service.ForWG(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "cost computation failed",
			"request_id", requestcontext.RequestID(ctx),
			"wg_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, breakdown)
}

// HandleAggregate handles GET /pflege-wgs/kosten/gesamt requests.
func (h *Handler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gesamt, err := h.service.Aggregate(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "cost aggregation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, gesamt)
}
