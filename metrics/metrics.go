// Package metrics exposes prometheus instrumentation for the client. All
// collectors are registered with the default registry; nothing in the client
// depends on their values.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_client_requests_sent_total",
		Help: "Requests written to the connection, by api key name",
	}, []string{"api"})

	FramesDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kafka_client_frames_decoded_total",
		Help: "Response frames decoded off the wire",
	})

	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kafka_client_frames_dropped_total",
		Help: "Frames with no pending request waiting on their correlation id",
	})

	BufferResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kafka_client_buffer_resets_total",
		Help: "Receive buffer discards due to corrupt frame length prefixes",
	})

	PollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kafka_client_poll_cycles_total",
		Help: "Completed poll loop cycles",
	})

	MessagesDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_client_messages_delivered_total",
		Help: "Messages fanned out to subscriptions, by topic",
	}, []string{"topic"})

	MessagesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_client_messages_published_total",
		Help: "Messages published, by topic",
	}, []string{"topic"})

	Subscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kafka_client_subscriptions",
		Help: "Active subscriptions",
	})
)
