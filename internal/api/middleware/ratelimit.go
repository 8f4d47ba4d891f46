package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/soumetsu/soumetsu/internal/api/response"
	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/internal/metrics"
	"github.com/soumetsu/soumetsu/pkg/sessions"
)

// RateLimit rejects clients exceeding `requests` per `window`, counted
// per IP in fixed windows. Must run after chi's RealIP so the counter
// keys on the real client, not the proxy.
func RateLimit(store *sessions.Store, requests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			count, err := store.IncrementCounter(ip, window)
			if err != nil {
				// A broken counter must not take the API down.
				logger.Warn("Rate limit counter failed", "client_ip", ip, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(requests) {
				metrics.RateLimited.Inc()
				response.Err(w, response.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
