package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/mrops-br/products-catalog/internal/infrastructure/telemetry"
)

// CorrelationIDHeader carries a caller-supplied id across service boundaries
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID propagates the caller's correlation id, or assigns a new one
// when it is missing or not a UUID, and echoes it on the response.
func CorrelationID() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(CorrelationIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(CorrelationIDHeader, id)
			next.ServeHTTP(w, r.WithContext(telemetry.WithCorrelationID(r.Context(), id)))
		})
	}
}
