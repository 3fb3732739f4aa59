package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "watchparty"

type Metrics struct {
	Rooms         prometheus.Gauge
	Connections   prometheus.Gauge
	Events        *prometheus.CounterVec
	Messages      *prometheus.CounterVec
	StaleSignals  prometheus.Counter
	SlowConsumers prometheus.Counter
	MirrorErrors  prometheus.Counter
}

// New registers every collector with reg. A nil reg falls back to a private registry so that
// tests and multiple instances never collide on the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	factory := promauto.With(reg)

	return &Metrics{
		Rooms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Number of live rooms.",
		}),
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Number of connections bound to a room.",
		}),
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events published to rooms, by type.",
		}, []string{"type"}),
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Inbound websocket messages, by type and outcome.",
		}, []string{"type", "status"}),
		StaleSignals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_end_signals_total",
			Help:      "video_ended signals that did not match the current playback.",
		}),
		SlowConsumers: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slow_consumers_total",
			Help:      "Connections dropped because their send buffer was full.",
		}),
		MirrorErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_errors_total",
			Help:      "Failed room snapshot writes.",
		}),
	}
}
