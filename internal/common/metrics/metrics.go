// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailer_emails_sent_total",
			Help: "Total number of emails accepted by SES",
		},
		[]string{"kind"},
	)

	EmailsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailer_emails_failed_total",
			Help: "Total number of email sends rejected or errored",
		},
		[]string{"kind"},
	)

	EmailsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailer_emails_skipped_total",
			Help: "Total number of sends skipped because the template kind is disabled",
		},
		[]string{"kind"},
	)

	BroadcastRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mailer_broadcast_recipients",
			Help:    "Recipient count per multi-recipient send",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
)
