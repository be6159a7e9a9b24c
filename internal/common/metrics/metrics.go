// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_runs_total",
			Help: "Total number of scan runs by outcome",
		},
		[]string{"outcome"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "notifier_run_duration_seconds",
			Help: "Duration of a full scan run in seconds",
		},
	)

	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_rows_processed_total",
			Help: "Total number of rows evaluated by item type",
		},
		[]string{"item_type"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notifications_sent_total",
			Help: "Total number of notifications delivered by kind",
		},
		[]string{"kind"},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notification_failures_total",
			Help: "Total number of failed notification attempts by reason",
		},
		[]string{"reason"},
	)

	OverdueTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notifier_overdue_tracked",
			Help: "Number of review requests currently tracked as overdue",
		},
	)
)
