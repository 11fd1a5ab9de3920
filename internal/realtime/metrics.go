package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the hub's prometheus collectors.
type Metrics struct {
	Clients       prometheus.Gauge
	Subscriptions prometheus.Gauge
	Events        *prometheus.CounterVec
	Dropped       prometheus.Counter
}

// NewMetrics registers the hub collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Clients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "teamhub",
			Subsystem: "realtime",
			Name:      "connected_clients",
			Help:      "Number of connected realtime clients.",
		}),
		Subscriptions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "teamhub",
			Subsystem: "realtime",
			Name:      "subscriptions",
			Help:      "Number of active channel subscriptions.",
		}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamhub",
			Subsystem: "realtime",
			Name:      "published_events_total",
			Help:      "Events published to the hub by kind.",
		}, []string{"kind"}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "teamhub",
			Subsystem: "realtime",
			Name:      "dropped_clients_total",
			Help:      "Clients disconnected because their send buffer was full.",
		}),
	}
}
