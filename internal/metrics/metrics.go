package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_events_collected_total",
		Help: "Events collected and stored, per platform.",
	}, []string{"platform"})

	CollectionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_collection_failures_total",
		Help: "Collection attempts that ended in an error, per platform.",
	}, []string{"platform"})

	InsightsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulse_insights_generated_total",
		Help: "Insight generation passes completed.",
	})

	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_chat_requests_total",
		Help: "Chat requests answered, labeled by routing decision.",
	}, []string{"route"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulse_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
