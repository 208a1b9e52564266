package glpi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the collectors recorded for outbound GLPI calls.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	sessionRefresh prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "deskpulse_glpi_requests_total",
			Help: "GLPI requests by resource and response code",
		}, []string{"resource", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deskpulse_glpi_request_duration_seconds",
			Help:    "GLPI request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		sessionRefresh: factory.NewCounter(prometheus.CounterOpts{
			Name: "deskpulse_glpi_session_refresh_total",
			Help: "Sessions dropped and reopened after a 401",
		}),
	}
}
