// ABOUTME: Request metrics middleware recording route pattern, method, and status
// ABOUTME: Uses the ServeMux pattern so path parameters do not explode label cardinality

package middleware

import "net/http"

// RequestObserver receives one call per completed request.
type RequestObserver interface {
	ObserveRequest(route, method string, status int)
}

// Metrics returns middleware that reports each request to observer.
// A nil observer disables it.
func Metrics(observer RequestObserver) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if observer == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapResponseWriter(w)
			next(wrapped, r)
			observer.ObserveRequest(r.Pattern, r.Method, wrapped.statusCode)
		}
	}
}
