package supervisor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dispatch_connections_open",
			Help: "Currently open realtime connections",
		},
		[]string{"role"},
	)

	ConnectionsClosedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_connections_closed_total",
			Help: "Closed realtime connections by close reason",
		},
		[]string{"role", "reason"},
	)

	FramesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_frames_sent_total",
			Help: "Frames written to realtime connections",
		},
		[]string{"role", "type"},
	)
)
