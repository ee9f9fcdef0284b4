package perf

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// rollingWindow is how many non-cached response times feed the average.
const rollingWindow = 100

type Metrics struct {
	TotalRequests       int           `json:"total_requests"`
	CacheHits           int           `json:"cache_hits"`
	CacheHitRate        float64       `json:"cache_hit_rate"`
	AverageResponseTime time.Duration `json:"average_response_time"`
	LastRequestTime     time.Time     `json:"last_request_time"`
	Errors              int           `json:"errors"`
}

type collectors struct {
	requests *prometheus.CounterVec
	errors   prometheus.Counter
	latency  prometheus.Histogram
}

// Monitor tracks chat latency, cache hits and errors for the process.
type Monitor struct {
	mu        sync.Mutex
	metrics   Metrics
	durations []time.Duration
	now       func() time.Time

	prom collectors
}

// NewMonitor registers the monitor's collectors on reg. A nil reg keeps the
// collectors unregistered.
func NewMonitor(reg prometheus.Registerer) *Monitor {
	factory := promauto.With(reg)
	return &Monitor{
		durations: make([]time.Duration, 0, rollingWindow),
		now:       time.Now,
		prom: collectors{
			requests: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "realty_chat_requests_total",
				Help: "Total number of chat requests by cache outcome",
			}, []string{"cache"}),
			errors: factory.NewCounter(prometheus.CounterOpts{
				Name: "realty_chat_errors_total",
				Help: "Total number of chat requests answered with the fallback reply",
			}),
			latency: factory.NewHistogram(prometheus.HistogramOpts{
				Name:    "realty_chat_response_seconds",
				Help:    "Duration of non-cached chat requests in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			}),
		},
	}
}

func (m *Monitor) TrackRequest(elapsed time.Duration, cacheHit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.TotalRequests++
	m.metrics.LastRequestTime = m.now()

	if cacheHit {
		m.metrics.CacheHits++
		m.prom.requests.WithLabelValues("hit").Inc()
		return
	}

	m.durations = append(m.durations, elapsed)
	if over := len(m.durations) - rollingWindow; over > 0 {
		m.durations = append(m.durations[:0], m.durations[over:]...)
	}
	var sum time.Duration
	for _, d := range m.durations {
		sum += d
	}
	m.metrics.AverageResponseTime = sum / time.Duration(len(m.durations))

	m.prom.requests.WithLabelValues("miss").Inc()
	m.prom.latency.Observe(elapsed.Seconds())
}

func (m *Monitor) TrackError() {
	m.mu.Lock()
	m.metrics.Errors++
	m.mu.Unlock()
	m.prom.errors.Inc()
}

func (m *Monitor) Metrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.metrics
	out.CacheHitRate = m.cacheHitRateLocked()
	return out
}

// CacheHitRate is the share of requests served from cache, in percent.
func (m *Monitor) CacheHitRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHitRateLocked()
}

func (m *Monitor) cacheHitRateLocked() float64 {
	if m.metrics.TotalRequests == 0 {
		return 0
	}
	return float64(m.metrics.CacheHits) / float64(m.metrics.TotalRequests) * 100
}

// Reset clears the in-process counters. Prometheus counters are monotonic and
// are left alone.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = Metrics{}
	m.durations = m.durations[:0]
}

func (m *Monitor) LogMetrics() {
	snap := m.Metrics()
	log.Info().
		Int("total_requests", snap.TotalRequests).
		Int("cache_hits", snap.CacheHits).
		Str("cache_hit_rate", formatPercent(snap.CacheHitRate)).
		Dur("average_response_time", snap.AverageResponseTime).
		Int("errors", snap.Errors).
		Time("last_request", snap.LastRequestTime).
		Msg("chat performance metrics")
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
