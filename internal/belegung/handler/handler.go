package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"domusvita/internal/klienten"
	"domusvita/internal/wg"
	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
	"domusvita/pkg/platform/httputil"
	"domusvita/pkg/requestcontext"
)

// Coordinator defines the assignment operation the handler depends on.
type Coordinator interface {
	Assign(ctx context.Context, klientID domain.KlientID, zimmerID domain.ZimmerID) (klienten.Klient, wg.Zimmer, error)
}

// Handler wires the assignment endpoint to the coordinator.
type Handler struct {
	coordinator Coordinator
	logger      *slog.Logger
}

// New constructs an assignment handler with its dependencies.
func New(coordinator Coordinator, logger *slog.Logger) *Handler {
	return &Handler{coordinator: coordinator, logger: logger}
}

// Register mounts the assignment endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/zimmer/{id}/assign", h.HandleAssign)
}

// AssignRequest names the klient to move into the room.
type AssignRequest struct {
	KlientID string `json:"klient_id"`
}

func (r *AssignRequest) Validate() error {
	r.KlientID = strings.TrimSpace(r.KlientID)
	if r.KlientID == "" {
		return dErrors.New(dErrors.CodeValidation, "klient_id is required")
	}
	return nil
}

// AssignResponse returns both affected records so the caller needs no
// follow-up reload.
type AssignResponse struct {
	Klient klienten.Klient `json:"klient"`
	Zimmer wg.Zimmer       `json:"zimmer"`
}

// HandleAssign handles POST /zimmer/{id}/assign requests.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	zimmerID := domain.ZimmerID(chi.URLParam(r, "id"))
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[AssignRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	k, z, err := h.coordinator.Assign(ctx, domain.KlientID(req.KlientID), zimmerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "assignment failed",
			"request_id", requestID,
			"klient_id", req.KlientID,
			"zimmer_id", zimmerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "zimmer assigned",
		"request_id", requestID,
		"klient_id", req.KlientID,
		"zimmer_id", zimmerID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, AssignResponse{Klient: k, Zimmer: z})
}
