package entities

import (
	"encoding/json"
	"time"
)

type RoutePlan struct {
	Profile         string
	Origin          Coordinates
	Destination     Coordinates
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        json.RawMessage
	ComputedAt      time.Time
}

func (r RoutePlan) ETA() time.Time {
	return r.ComputedAt.Add(time.Duration(r.DurationSeconds * float64(time.Second)))
}
