package middleware

import (
	"net/http"
	"strings"
)

// MaxRequestSize caps JSON request bodies. Oversized bodies surface as an
// error from the handler's read, which MaxBytesReader turns into a 413.
// Multipart uploads carry their own, larger cap at the handler.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			if r.Body != nil && !strings.HasPrefix(contentType, "multipart/form-data") {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
