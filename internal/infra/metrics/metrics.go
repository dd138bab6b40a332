// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "costshare",
		Name:      "commands_total",
		Help:      "Chat commands handled, by kind and outcome.",
	}, []string{"kind", "outcome"})

	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "costshare",
		Name:      "command_duration_seconds",
		Help:      "Time spent handling one chat command.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	ReportDownloads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "costshare",
		Name:      "report_downloads_total",
		Help:      "Monthly xlsx reports served over HTTP.",
	})
)

// Observe records one handled command.
func Observe(kind, outcome string, started time.Time) {
	Commands.WithLabelValues(kind, outcome).Inc()
	CommandDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}
