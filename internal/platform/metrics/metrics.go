package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "doubles_league"

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	replays        prometheus.Counter
	replayGames    prometheus.Counter
	replaySkipped  prometheus.Counter
	replayDuration prometheus.Histogram
	cacheLookups   *prometheus.CounterVec
	warmups        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_replays_total",
			Help:      "Number of full rating replays executed.",
		}),
		replayGames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_replay_games_total",
			Help:      "Games folded into ratings across all replays.",
		}),
		replaySkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_replay_skipped_games_total",
			Help:      "Malformed games skipped during replays.",
		}),
		replayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rating_replay_duration_seconds",
			Help:      "Wall time of a single rating replay.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_cache_hits_total",
			Help:      "Rating cache lookups by result.",
		}, []string{"result"}),
		warmups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_warmups_total",
			Help:      "League warmups by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.replays,
		m.replayGames,
		m.replaySkipped,
		m.replayDuration,
		m.cacheLookups,
		m.warmups,
	)

	return m
}

func (m *Metrics) ObserveReplay(processed, skipped int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.replays.Inc()
	m.replayGames.Add(float64(processed))
	m.replaySkipped.Add(float64(skipped))
	m.replayDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRatingCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveWarmup(warmed, failed int) {
	if m == nil {
		return
	}
	m.warmups.WithLabelValues("ok").Add(float64(warmed))
	m.warmups.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
