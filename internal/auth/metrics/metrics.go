package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for login and token operations.
type Metrics struct {
	LoginAttempts        *prometheus.CounterVec
	LoginDurationSeconds prometheus.Histogram
	TokensIssued         *prometheus.CounterVec
	TokenVerifyFailures  *prometheus.CounterVec
	CLITokensRevoked     prometheus.Counter
}

// New registers the auth collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkboard_auth_login_attempts_total",
			Help: "Total number of login attempts, by outcome",
		}, []string{"outcome"}),
		LoginDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "linkboard_auth_login_duration_seconds",
			Help:    "Duration of login requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}),
		TokensIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkboard_auth_tokens_issued_total",
			Help: "Total number of tokens issued, by token type",
		}, []string{"type"}),
		TokenVerifyFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkboard_auth_token_verify_failures_total",
			Help: "Total number of rejected tokens, by reason",
		}, []string{"reason"}),
		CLITokensRevoked: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkboard_auth_cli_tokens_revoked_total",
			Help: "Total number of CLI tokens revoked",
		}),
	}
}

func (m *Metrics) IncrementLoginAttempts(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLoginDuration(seconds float64) {
	m.LoginDurationSeconds.Observe(seconds)
}

func (m *Metrics) IncTokensIssued(tokenType string) {
	m.TokensIssued.WithLabelValues(tokenType).Inc()
}

func (m *Metrics) IncVerifyFailures(reason string) {
	m.TokenVerifyFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementCLITokensRevoked() {
	m.CLITokensRevoked.Inc()
}
