package gate

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts gate evaluations and denial reasons.
type Metrics struct {
	evaluations *prometheus.CounterVec
	reasons     *prometheus.CounterVec
}

// NewMetrics creates gate metrics and registers them with the registerer.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskgate",
			Subsystem: "gate",
			Name:      "evaluations_total",
			Help:      "Gate evaluations by outcome.",
		}, []string{"outcome"}),
		reasons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskgate",
			Subsystem: "gate",
			Name:      "denial_reasons_total",
			Help:      "Collected gate failure reasons by code.",
		}, []string{"code"}),
	}

	if reg != nil {
		reg.MustRegister(m.evaluations, m.reasons)
	}

	return m
}

func (m *Metrics) observe(result *Result) {
	outcome := "allowed"
	if !result.Allowed {
		outcome = "denied"
	}
	m.evaluations.WithLabelValues(outcome).Inc()

	for _, r := range result.Reasons {
		m.reasons.WithLabelValues(string(r.Code)).Inc()
	}
}
