package gate

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	submissions *prometheus.CounterVec
	hosts       prometheus.Gauge
}

// NewMetrics registers the gate collectors on reg. A nil reg gives
// working but unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipchecker",
			Name:      "submissions_total",
			Help:      "Submissions by resulting status and reason.",
		}, []string{"status", "reason"}),
		hosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipchecker",
			Name:      "ledger_hosts",
			Help:      "Hosts currently in the ledger view.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.hosts)
	}
	return m
}

func (m *Metrics) observe(r Result) {
	m.submissions.WithLabelValues(string(r.Status), string(r.Reason)).Inc()
	m.hosts.Set(float64(len(r.Hosts)))
}
