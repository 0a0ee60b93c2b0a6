// ABOUTME: CORS middleware for API cross-origin requests
// ABOUTME: Echoes allow-listed origins and answers OPTIONS preflight

package middleware

import (
	"net/http"
	"slices"
)

const (
	corsAllowMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, X-Request-ID"
)

// CORS returns middleware that allows the listed origins. A "*" entry allows
// any origin; an empty list blocks every cross-origin request. Same-origin
// requests (no Origin header) pass through untouched. Preflight requests are
// answered with 204 without calling the wrapped handler.
func CORS(allowedOrigins []string) func(http.HandlerFunc) http.HandlerFunc {
	allowAny := slices.Contains(allowedOrigins, "*")

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				w.Header().Add("Vary", "Origin")
				if allowAny || slices.Contains(allowedOrigins, origin) {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
					w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
					w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}
