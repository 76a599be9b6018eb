package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SendsTotal tracks send attempts per event, channel and outcome
	SendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_sends_total",
			Help: "Total number of notification send attempts",
		},
		[]string{"event", "channel", "status"},
	)

	// SendLatency tracks provider call latency per channel
	SendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notify_send_latency_seconds",
			Help:    "Provider send call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"channel"},
	)

	// ErrorsClassified tracks classified send failures by kind
	ErrorsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_errors_total",
			Help: "Total number of classified send failures",
		},
		[]string{"kind"},
	)

	// RetriesScheduled tracks retries pushed onto the retry queue
	RetriesScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_retries_scheduled_total",
			Help: "Total number of retries scheduled",
		},
	)

	// RetriesDropped tracks retries abandoned and why
	RetriesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_retries_dropped_total",
			Help: "Total number of retries dropped",
		},
		[]string{"reason"},
	)

	// RetryQueueDepth tracks the number of pending retry jobs
	RetryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_retry_queue_depth",
			Help: "Number of retry jobs waiting in the queue",
		},
	)

	// WaitlistOffers tracks slot offers by result
	WaitlistOffers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_waitlist_offers_total",
			Help: "Total number of waitlist slot offers",
		},
		[]string{"result"},
	)
)
