package broadcast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DroppedEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_broadcast_dropped_events_total",
			Help: "Events dropped from overflowing subscriber queues",
		},
		[]string{"role", "superseded"},
	)

	PublishedEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_broadcast_published_events_total",
			Help: "Events accepted by the broadcast hub",
		},
		[]string{"type"},
	)

	Subscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dispatch_broadcast_subscribers",
			Help: "Currently registered subscribers",
		},
		[]string{"role"},
	)
)
