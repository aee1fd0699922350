package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LoginFailuresRecorded   prometheus.Counter
	LoginBlocksCreatedTotal *prometheus.CounterVec
	LoginBlockedChecksTotal *prometheus.CounterVec
	CleanupRowsDeletedTotal prometheus.Counter
	CleanupRunsTotal        *prometheus.CounterVec
	CleanupDurationSeconds  prometheus.Histogram
}

// New registers the rate limit collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		LoginFailuresRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkboard_ratelimit_login_failures_recorded_total",
			Help: "Total number of failed logins recorded for rate limiting",
		}),
		LoginBlocksCreatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkboard_ratelimit_login_blocks_created_total",
			Help: "Total number of login blocks created, by scope",
		}, []string{"scope"}),
		LoginBlockedChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkboard_ratelimit_login_blocked_checks_total",
			Help: "Total number of login attempts rejected by an active block, by scope",
		}, []string{"scope"}),
		CleanupRowsDeletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkboard_ratelimit_cleanup_rows_deleted_total",
			Help: "Total number of expired attempt and block rows deleted by the cleanup worker",
		}),
		CleanupRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkboard_ratelimit_cleanup_runs_total",
			Help: "Total number of cleanup runs",
		}, []string{"status"}),
		CleanupDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "linkboard_ratelimit_cleanup_duration_seconds",
			Help: "Duration of cleanup runs in seconds",
		}),
	}
}

func (m *Metrics) IncrementLoginFailures() {
	m.LoginFailuresRecorded.Inc()
}

func (m *Metrics) IncrementBlocksCreated(scope string) {
	m.LoginBlocksCreatedTotal.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementBlockedChecks(scope string) {
	m.LoginBlockedChecksTotal.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementCleanupRowsDeleted(count int) {
	m.CleanupRowsDeletedTotal.Add(float64(count))
}

func (m *Metrics) IncrementCleanupRuns(status string) {
	m.CleanupRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveCleanupDuration(durationSeconds float64) {
	m.CleanupDurationSeconds.Observe(durationSeconds)
}
