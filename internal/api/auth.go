package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/sungwon/invoice-notifier/internal/metrics"
)

// APIKeyHeader is the header carrying the shared secret.
const APIKeyHeader = "X-API-Key"

// publicPaths bypass the API key gate unconditionally.
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// APIKeyMiddleware authorizes each request against a single shared secret.
// A missing credential yields 401, a wrong one 403. There is no per-caller
// identity: one key gates the whole surface.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(APIKeyHeader)
			if provided == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
				respondError(w, http.StatusUnauthorized,
					"API Key requerido", "Debe incluir el header X-API-Key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
				respondError(w, http.StatusForbidden,
					"API Key inválido", "El API Key proporcionado no es válido")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
