package redact

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics exposes pipeline counters. A nil *metrics is a no-op so
// redactors without a registerer pay nothing.
type metrics struct {
	redactions prometheus.Counter
	matches    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		redactions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "briefd",
			Subsystem: "redact",
			Name:      "calls_total",
			Help:      "Total number of redaction pipeline invocations.",
		}),
		matches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "briefd",
			Subsystem: "redact",
			Name:      "matches_total",
			Help:      "Total redaction matches by sensitivity level.",
		}, []string{"sensitivity"}),
	}
}

func (m *metrics) observe(r Result) {
	if m == nil {
		return
	}
	m.redactions.Inc()
	for level, count := range r.SensitivitySummary {
		if count > 0 {
			m.matches.WithLabelValues(string(level)).Add(float64(count))
		}
	}
}
