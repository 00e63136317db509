package gateway

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/flemzord/tgrelay/internal/config"
)

// APIKeyHeader carries the shared key for notification endpoints.
const APIKeyHeader = "X-API-Key"

// apiKeyAuth rejects requests whose X-API-Key does not match key.
// An empty key disables the check.
func apiKeyAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !constantTimeEqual(r.Header.Get(APIKeyHeader), key) {
				writeError(w, http.StatusUnauthorized, "invalid_api_key", "Invalid or missing API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// adminAuth validates a Bearer token or Basic auth credentials using
// constant-time comparison.
func adminAuth(cfg config.AdminConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization header")
				return
			}

			if cfg.BearerToken != "" {
				if after, ok := strings.CutPrefix(auth, "Bearer "); ok && constantTimeEqual(after, cfg.BearerToken) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if cfg.BasicUser != "" && cfg.BasicPass != "" {
				user, pass, ok := r.BasicAuth()
				if ok && constantTimeEqual(user, cfg.BasicUser) && constantTimeEqual(pass, cfg.BasicPass) {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		})
	}
}

// constantTimeEqual compares two strings in constant time.
func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
