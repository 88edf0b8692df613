package middleware

import (
	"net/http"
	"os"
	"strings"
)

const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Content-Type, X-Session-ID"
)

// CORSMiddleware adds CORS headers. ALLOWED_ORIGINS is a comma-separated
// allowlist; unset means wildcard, which is only appropriate in development.
func CORSMiddleware(next http.Handler) http.Handler {
	allowed := map[string]bool{}
	wildcard := true
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		wildcard = false
		for _, origin := range strings.Split(raw, ",") {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				wildcard = true
				continue
			}
			if origin != "" {
				allowed[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Methods", corsMethods)
		w.Header().Set("Access-Control-Allow-Headers", corsHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
