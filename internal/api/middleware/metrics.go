package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/soumetsu/soumetsu/internal/metrics"
)

// Metrics records Prometheus request metrics. The endpoint label uses the
// chi route pattern, not the raw path, to keep cardinality bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			metrics.RequestsInFlight.Inc()
			defer metrics.RequestsInFlight.Dec()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			endpoint := chi.RouteContext(r.Context()).RoutePattern()
			if endpoint == "" {
				endpoint = "unmatched"
			}

			metrics.RequestsTotal.
				WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.Status())).
				Inc()
			metrics.RequestDuration.
				WithLabelValues(r.Method, endpoint).
				Observe(time.Since(start).Seconds())
		})
	}
}
