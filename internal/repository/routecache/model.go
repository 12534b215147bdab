package routecache

import (
	"encoding/json"
	"time"

	"dispatch/internal/entities"
)

type coordinatesModel struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type routeModel struct {
	Profile         string           `json:"profile"`
	Origin          coordinatesModel `json:"origin"`
	Destination     coordinatesModel `json:"destination"`
	DistanceMeters  float64          `json:"distance_meters"`
	DurationSeconds float64          `json:"duration_seconds"`
	Geometry        json.RawMessage  `json:"geometry,omitempty"`
	ComputedAt      time.Time        `json:"computed_at"`
}

func toRouteModel(plan entities.RoutePlan) routeModel {
	return routeModel{
		Profile:         plan.Profile,
		Origin:          coordinatesModel(plan.Origin),
		Destination:     coordinatesModel(plan.Destination),
		DistanceMeters:  plan.DistanceMeters,
		DurationSeconds: plan.DurationSeconds,
		Geometry:        plan.Geometry,
		ComputedAt:      plan.ComputedAt,
	}
}

func (m routeModel) toEntity() *entities.RoutePlan {
	return &entities.RoutePlan{
		Profile:         m.Profile,
		Origin:          entities.Coordinates(m.Origin),
		Destination:     entities.Coordinates(m.Destination),
		DistanceMeters:  m.DistanceMeters,
		DurationSeconds: m.DurationSeconds,
		Geometry:        m.Geometry,
		ComputedAt:      m.ComputedAt,
	}
}
