// Package server provides middleware shared by the projection HTTP surfaces.
package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
)

// SlowRequest is the duration above which TimingMiddleware logs at warn.
const SlowRequest = 100 * time.Millisecond

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	AllowedOrigins []string // empty = allow all (*)
}

// CORSMiddleware adds CORS headers for the dashboard. GET, POST (reload)
// and OPTIONS are advertised.
//
// With no allowed origins configured every origin is accepted with "*". A
// request from an origin outside a non-empty list gets no CORS headers, and
// its preflight is refused.
func CORSMiddleware(cfg CORSConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowedOrigin := "*"
		if len(cfg.AllowedOrigins) > 0 {
			if !slices.Contains(cfg.AllowedOrigins, origin) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			allowedOrigin = origin
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")
		if allowedOrigin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TimingMiddleware logs requests slower than SlowRequest.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if d := time.Since(start); d > SlowRequest {
			logging.WarnContext(r.Context(), "slow request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", d.Milliseconds(),
			)
		}
	})
}
