package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"domusvita/internal/wg"
	"domusvita/pkg/domain"
	"domusvita/pkg/platform/httputil"
	"domusvita/pkg/requestcontext"
)

// Registry defines the facility operations the handler depends on.
type Registry interface {
	ListWGs(ctx context.Context) ([]wg.PflegeWG, error)
	GetWG(ctx context.Context, id domain.WGID) (wg.PflegeWG, error)
}

// Handler wires Pflege-WG endpoints to the room registry.
type Handler struct {
	registry Registry
	logger   *slog.Logger
}

// New constructs a Pflege-WG handler with its dependencies.
func New(registry Registry, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// Register mounts facility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/pflege-wgs", h.HandleList)
	r.Get("/pflege-wgs/{id}", h.HandleGet)
}

// HandleList handles GET /pflege-wgs requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wgs, err := h.registry.ListWGs(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list pflege-wgs failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]WGResponse, 0, len(wgs))
	for _, item := range wgs {
		out = append(out, toResponse(item, false))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /pflege-wgs/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := domain.WGID(chi.URLParam(r, "id"))

	item, err := h.registry.GetWG(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "get pflege-wg failed",
			"request_id", requestcontext.RequestID(ctx),
			"wg_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(item, true))
}
