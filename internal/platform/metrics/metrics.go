package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application-level Prometheus metrics. Ranking-specific
// collectors live in internal/rank/metrics.
type Metrics struct {
	Requests    *prometheus.CounterVec
	FollowSyncs prometheus.Counter
}

// New creates and registers all application metrics.
func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_http_requests_total",
			Help: "HTTP requests served, by method, path, and status",
		}, []string{"method", "path", "status"}),
		FollowSyncs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wayfarer_follow_syncs_total",
			Help: "Follow-graph changes applied to the preference store",
		}),
	}
}

// IncrementFollowSyncs records one applied follow-graph change.
func (m *Metrics) IncrementFollowSyncs() {
	m.FollowSyncs.Inc()
}

// Middleware counts every served request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.Requests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
