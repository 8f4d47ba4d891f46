// Package metrics exposes Prometheus instrumentation for the HTTP API.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soumetsu/soumetsu/internal/logger"
)

var (
	// RequestsTotal counts completed HTTP requests.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "soumetsu",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Completed HTTP requests by method, route and status.",
	}, []string{"method", "endpoint", "status"})

	// RequestDuration observes request latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "soumetsu",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	// RequestsInFlight gauges concurrent requests.
	RequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "soumetsu",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Requests currently being served.",
	})

	// SessionsCreated counts successful logins.
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "soumetsu",
		Subsystem: "auth",
		Name:      "sessions_created_total",
		Help:      "Sessions created by successful logins and registrations.",
	})

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "soumetsu",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected with 429.",
	})
)

// Config holds metrics listener configuration.
type Config struct {
	// Enabled toggles the metrics listener.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Addr is the listen address for /metrics.
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":9100"
	}
}

// Serve runs the /metrics listener until ctx is cancelled.
// Returns immediately when metrics are disabled.
func Serve(ctx context.Context, cfg Config) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("Metrics listener started", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics listener failed", "error", err)
		}
	}()
}
