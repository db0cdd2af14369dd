package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ranking core. The mode/reason
// distribution is the primary signal: it distinguishes "personalized ranking
// attempted" from "popularity-only result" per surface.
type Metrics struct {
	RankingRequests *prometheus.CounterVec
	FallbackSources *prometheus.CounterVec
	RankDuration    prometheus.Histogram
}

// New creates a Metrics instance with all ranking metrics registered.
func New() *Metrics {
	return &Metrics{
		RankingRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_ranking_requests_total",
			Help: "Ranked result sets produced, by surface and ranking branch",
		}, []string{"surface", "mode", "reason"}),
		FallbackSources: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_catalog_source_total",
			Help: "Which branch produced each merged set (live-db, demo-fallback, synthetic-fallback)",
		}, []string{"surface", "source"}),
		RankDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wayfarer_rank_duration_seconds",
			Help:    "Duration of merge+rank for one content type",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// ObserveRanking records one ranked result set.
func (m *Metrics) ObserveRanking(surface, mode, reason string, start time.Time) {
	m.RankingRequests.WithLabelValues(surface, mode, reason).Inc()
	m.RankDuration.Observe(time.Since(start).Seconds())
}

// ObserveSource records which branch produced a merged set.
func (m *Metrics) ObserveSource(surface, source string) {
	m.FallbackSources.WithLabelValues(surface, source).Inc()
}
