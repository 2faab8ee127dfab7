package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the archival pipeline.
type Metrics struct {
	ArchivedMessages  *prometheus.CounterVec
	ProtectedCaptures prometheus.Counter
	DeletionsMarked   prometheus.Counter
	ReplayedMessages  *prometheus.CounterVec
	DroppedEvents     *prometheus.CounterVec
	Payments          prometheus.Counter
	MediaDownload     *prometheus.HistogramVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			ArchivedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archived_messages_total",
				Help:      "Total business messages archived, by media kind.",
			}, []string{"kind"}),
			ProtectedCaptures: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "protected_captures_total",
				Help:      "Total one-time media rescued via reply capture.",
			}),
			DeletionsMarked: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deletions_marked_total",
				Help:      "Total archived rows marked deleted by reconciliation.",
			}),
			ReplayedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replayed_messages_total",
				Help:      "Total deleted-message replays sent, by content type.",
			}, []string{"type"}),
			DroppedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dropped_events_total",
				Help:      "Total events dropped without side effects, by reason.",
			}, []string{"reason"}),
			Payments: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Total successful subscription payments recorded.",
			}),
			MediaDownload: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "media_download_duration_seconds",
				Help:      "Latency distribution for media downloads by outcome.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"status"}),
		}

		prometheus.MustRegister(
			metricsInstance.ArchivedMessages,
			metricsInstance.ProtectedCaptures,
			metricsInstance.DeletionsMarked,
			metricsInstance.ReplayedMessages,
			metricsInstance.DroppedEvents,
			metricsInstance.Payments,
			metricsInstance.MediaDownload,
		)
	})
	return metricsInstance
}
