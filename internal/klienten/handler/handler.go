package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"domusvita/internal/klienten"
	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
	"domusvita/pkg/ledger"
	"domusvita/pkg/platform/httputil"
	"domusvita/pkg/requestcontext"
)

// Service defines the pipeline operations the handler depends on.
type Service interface {
	Create(ctx context.Context, k klienten.Klient) (klienten.Klient, error)
	Get(ctx context.Context, id domain.KlientID) (klienten.Klient, []ledger.Entry, error)
	List(ctx context.Context, status klienten.Status) ([]klienten.Klient, error)
	SetStatus(ctx context.Context, id domain.KlientID, status klienten.Status) (klienten.Klient, error)
	AddKommunikation(ctx context.Context, id domain.KlientID, typ klienten.KommunikationTyp, inhalt string) (klienten.Klient, error)
	GetDashboard(ctx context.Context) (klienten.Dashboard, error)
}

// Releaser frees a bewohner's room together with the exit transition.
type Releaser interface {
	Release(ctx context.Context, klientID domain.KlientID, newStatus klienten.Status) (klienten.Klient, error)
}

// Handler wires klienten endpoints to the pipeline service.
type Handler struct {
	service  Service
	releaser Releaser
	logger   *slog.Logger
}

// New constructs a klienten handler with its dependencies.
func New(service Service, releaser Releaser, logger *slog.Logger) *Handler {
	return &Handler{service: service, releaser: releaser, logger: logger}
}

// Register mounts klienten endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/klienten", h.HandleCreate)
	r.Get("/klienten", h.HandleList)
	r.Get("/klienten/dashboard", h.HandleDashboard)
	r.Get("/klienten/{id}", h.HandleGet)
	r.Post("/klienten/{id}/status", h.HandleSetStatus)
	r.Post("/klienten/{id}/release", h.HandleRelease)
	r.Post("/klienten/{id}/kommunikation", h.HandleAddKommunikation)
}

// HandleCreate handles POST /klienten requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.Create(ctx, req.ToKlient())
	if err != nil {
		h.logger.ErrorContext(ctx, "create klient failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "klient created",
		"request_id", requestID,
		"klient_id", created.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// HandleList handles GET /klienten requests, with an optional ?status= filter.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var status klienten.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := klienten.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		status = parsed
	}

	list, err := h.service.List(ctx, status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// HandleDashboard handles GET /klienten/dashboard requests.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dash, err := h.service.GetDashboard(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dash)
}

// HandleGet handles GET /klienten/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := domain.KlientID(chi.URLParam(r, "id"))

	k, trail, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDetailResponse(k, trail))
}

// HandleSetStatus handles POST /klienten/{id}/status requests.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := domain.KlientID(chi.URLParam(r, "id"))
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SetStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.SetStatus(ctx, id, req.ParsedStatus())
	if err != nil {
		h.logger.ErrorContext(ctx, "status change failed",
			"request_id", requestID,
			"klient_id", id,
			"status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "status changed",
		"request_id", requestID,
		"klient_id", id,
		"status", req.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// HandleRelease handles POST /klienten/{id}/release requests: the bewohner
// exit path that frees the room under the coordinator's lock.
func (h *Handler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := domain.KlientID(chi.URLParam(r, "id"))

	req, ok := httputil.DecodeAndPrepare[SetStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if !req.ParsedStatus().Terminal() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation,
			"release requires a terminal status (ausgezogen, verstorben or abgesagt)"))
		return
	}

	updated, err := h.releaser.Release(ctx, id, req.ParsedStatus())
	if err != nil {
		h.logger.ErrorContext(ctx, "release failed",
			"request_id", requestID,
			"klient_id", id,
			"status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "klient released",
		"request_id", requestID,
		"klient_id", id,
		"status", req.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// HandleAddKommunikation handles POST /klienten/{id}/kommunikation requests.
func (h *Handler) HandleAddKommunikation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := domain.KlientID(chi.URLParam(r, "id"))

	req, ok := httputil.DecodeAndPrepare[KommunikationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.AddKommunikation(ctx, id, req.ParsedTyp(), req.Inhalt)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, updated)
}
