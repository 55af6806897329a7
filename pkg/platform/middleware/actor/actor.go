// Package actor extracts the acting administrator's identity for the ledger.
//
// Authentication itself happens upstream (reverse proxy / SSO); this service
// only needs the resolved identity for audit attribution, so a trusted header
// is sufficient here.
package actor

import (
	"net/http"
	"strings"

	"domusvita/pkg/requestcontext"
)

// HeaderActor carries the authenticated administrator identity.
const HeaderActor = "X-Actor"

// Middleware stores the actor identity in the request context. Requests
// without the header fall back to requestcontext.DefaultActor.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(HeaderActor))
		if actor == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := requestcontext.WithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
