package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	samplesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulator_location_samples_sent_total",
			Help: "Location samples written to the driver websocket",
		},
		[]string{"driver"},
	)

	reconnectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulator_reconnects_total",
			Help: "Scheduled reconnect attempts",
		},
		[]string{"driver"},
	)

	framesReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulator_frames_received_total",
			Help: "Frames received from the server by type",
		},
		[]string{"type"},
	)

	sessionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "simulator_session_duration_seconds",
			Help:    "Lifetime of a single websocket session",
			Buckets: []float64{1, 10, 30, 60, 300, 900, 3600},
		},
	)
)
