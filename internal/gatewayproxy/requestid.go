package gatewayproxy

import (
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// WithRequestID echoes the inbound X-Request-Id header on the response, or
// a freshly generated UUID when the client sent none. A generated ID is set
// on the response only; it is not added to the request headers or context,
// so downstream handlers do not see it.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
