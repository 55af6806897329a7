// Package request assigns every incoming request a correlation ID.
package request

import (
	"net/http"

	"github.com/google/uuid"

	"domusvita/pkg/requestcontext"
)

// HeaderRequestID is echoed back to the caller for support correlation.
const HeaderRequestID = "X-Request-Id"

// ID middleware accepts a caller-supplied request ID or mints one, stores it
// in the context, and echoes it on the response.
func ID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
