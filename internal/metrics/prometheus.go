// ABOUTME: Prometheus metrics for the duplex audio pipeline
// ABOUTME: Counters and gauges for chunk flow, scheduling and barge-in
package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the pipeline.
type Metrics struct {
	// Outbound path
	ChunksEncoded prometheus.Counter
	ChunksSent    prometheus.Counter
	SendErrors    prometheus.Counter

	// Inbound path
	ChunksReceived   prometheus.Counter
	ChunksDropped    prometheus.Counter
	BuffersScheduled prometheus.Counter
	Rebuffers        prometheus.Counter

	// Barge-in
	BargeIns prometheus.Counter

	// Gauges
	QueueDepth prometheus.Gauge
	Sounding   prometheus.Gauge
	Level      prometheus.Gauge
}

// New creates and registers all pipeline metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ChunksEncoded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talkwire_chunks_encoded_total",
			Help: "Total outbound chunks produced by the capture encoder",
		}),
		ChunksSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talkwire_chunks_sent_total",
			Help: "Total outbound chunks handed to the transport",
		}),
		SendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talkwire_send_errors_total",
			Help: "Total outbound chunks the transport failed to send",
		}),
		ChunksReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talkwire_chunks_received_total",
			Help: "Total inbound chunks delivered by the transport",
		}),
		ChunksDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talkwire_chunks_dropped_total",
			Help: "Total inbound chunks dropped as malformed",
		}),
		BuffersScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talkwire_buffers_scheduled_total",
			Help: "Total decoded buffers accepted into the playout queue",
		}),
		Rebuffers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talkwire_rebuffers_total",
			Help: "Total transitions into the rebuffering state",
		}),
		BargeIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talkwire_barge_ins_total",
			Help: "Total playback cancellations triggered by local speech",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "talkwire_playback_queue_depth",
			Help: "Current number of decoded buffers awaiting scheduling",
		}),
		Sounding: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "talkwire_sounding",
			Help: "Whether remote playback is currently audible (0 or 1)",
		}),
		Level: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "talkwire_capture_level",
			Help: "Instantaneous capture loudness (0-100)",
		}),
	}
}

// Serve exposes /metrics on the given address. It blocks; run it on its own
// goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Printf("metrics: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
