// Package httptransport assembles the chi router: middleware chain, health
// and metrics endpoints, and the feature handlers mounted under /api.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"domusvita/pkg/platform/middleware/actor"
	"domusvita/pkg/platform/middleware/request"
	"domusvita/pkg/platform/middleware/requesttime"
)

// Registrar mounts one feature's endpoints.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the middleware chain and all feature handlers.
func NewRouter(features ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(request.ID)
	r.Use(requesttime.Middleware)
	r.Use(actor.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		for _, f := range features {
			f.Register(api)
		}
	})

	return r
}
