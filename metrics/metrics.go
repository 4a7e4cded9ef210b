package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Re-authentication metrics
	LoginSequencesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noncenet_login_sequences_total",
			Help: "Total number of cookie-nonce login sequences by outcome",
		},
		[]string{"outcome"},
	)

	LoginDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "noncenet_login_duration_seconds",
			Help:    "Time taken by a login sequence (credential POST plus nonce GET) in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RetryDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noncenet_retry_decisions_total",
			Help: "Total number of failed requests seen by the re-authenticator by decision",
		},
		[]string{"decision"},
	)

	DrainedWaiters = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "noncenet_drained_waiters",
			Help:    "Number of queued requests released per login sequence",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)

	// Request metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noncenet_requests_total",
			Help: "Total number of HTTP exchanges by client and status class",
		},
		[]string{"client", "status"},
	)
)

func init() {
	prometheus.MustRegister(LoginSequencesTotal)
	prometheus.MustRegister(LoginDuration)
	prometheus.MustRegister(RetryDecisionsTotal)
	prometheus.MustRegister(DrainedWaiters)
	prometheus.MustRegister(RequestsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures an operation for a histogram.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

func (t *Timer) ObserveDuration(h prometheus.Observer) {
	h.Observe(t.Duration().Seconds())
}

// StatusClass buckets a status code as "2xx", "4xx" and so on, or "error" when no response arrived.
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "error"
	}
	return string(rune('0'+code/100)) + "xx"
}
