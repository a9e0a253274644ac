// Package middleware provides HTTP middleware for the service router.
package middleware

import (
	"net/http"
	"strings"

	"github.com/refurbly/gradeserver/internal/config"
)

// CORS applies cross-origin headers from configuration. When disabled it
// returns the handler unchanged.
func CORS(cfg *config.CORSConfig, next http.Handler) http.Handler {
	if !cfg.Enabled {
		return next
	}

	origins := map[string]bool{}
	wildcard := false
	for _, o := range cfg.Origins {
		if o == "*" {
			wildcard = true
		}
		origins[o] = true
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (wildcard || origins[origin]) {
			if wildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
