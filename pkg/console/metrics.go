package console

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the console's Prometheus collectors.
type Metrics struct {
	loginAttempts  *prometheus.CounterVec
	analysesTotal  *prometheus.CounterVec
	activeSessions prometheus.GaugeFunc
}

// NewMetrics creates the console metrics. sessionCount is sampled on
// scrape for the active-session gauge.
func NewMetrics(sessionCount func() int) *Metrics {
	return &Metrics{
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitelens_login_attempts_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitelens_analyses_total",
				Help: "Total number of analyses run by final status",
			},
			[]string{"status"},
		),
		activeSessions: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "sitelens_active_sessions",
				Help: "Number of live console sessions",
			},
			func() float64 { return float64(sessionCount()) },
		),
	}
}

// Register registers all collectors with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.loginAttempts, m.analysesTotal, m.activeSessions} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Login attempt outcomes.
const (
	outcomeSuccess     = "success"
	outcomeFailure     = "failure"
	outcomeUnavailable = "unavailable"
)

func (m *Metrics) observeLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeAnalysis(status string) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(status).Inc()
}
