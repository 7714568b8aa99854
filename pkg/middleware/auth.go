package middleware

import (
	"net/http"
	"strings"

	"sweeply/pkg/auth"
	"sweeply/pkg/logger"
)

// Authentication validates the bearer token and attaches the caller identity
// to the request context. Paths listed in skipPaths pass through untouched.
func Authentication(issuer *auth.TokenIssuer, log *logger.Logger, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token := extractBearerToken(r)
			if token == "" {
				rejectUnauthorized(w, log, r, "Missing Authorization header")
				return
			}

			claims, err := issuer.ParseValidate(token)
			if err != nil {
				rejectUnauthorized(w, log, r, "Invalid access token")
				return
			}

			caller := auth.Caller{ID: claims.Sub, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}

	return strings.TrimSpace(token)
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Unauthorized request rejected",
		"request_id", requestID,
		"reason", reason,
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
