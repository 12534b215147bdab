package dto

import (
	"time"

	"dispatch/internal/entities"
)

type LocationUpdate struct {
	Lat       *float64   `json:"lat"`
	Lng       *float64   `json:"lng"`
	Heading   *float64   `json:"heading,omitempty"`
	Speed     *float64   `json:"speed,omitempty"`
	Accuracy  *float64   `json:"accuracy,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type LocationUpdateResponse struct {
	Applied bool `json:"applied"`
}

type Location struct {
	DriverID  string    `json:"driver_id,omitempty"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Heading   *float64  `json:"heading,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ToEntity возвращает false, если координаты не переданы.
func (l LocationUpdate) ToEntity(driverID string) (entities.LocationSample, bool) {
	if l.Lat == nil || l.Lng == nil {
		return entities.LocationSample{}, false
	}
	sample := entities.LocationSample{
		DriverID: driverID,
		Lat:      *l.Lat,
		Lng:      *l.Lng,
		Heading:  l.Heading,
		Speed:    l.Speed,
		Accuracy: l.Accuracy,
	}
	if l.Timestamp != nil {
		sample.Timestamp = *l.Timestamp
	}
	return sample, true
}

// NewLocation строит позицию для ответа; withDriver=false скрывает водителя.
func NewLocation(s entities.LocationSample, withDriver bool) Location {
	loc := Location{
		Lat:       s.Lat,
		Lng:       s.Lng,
		Heading:   s.Heading,
		Speed:     s.Speed,
		Accuracy:  s.Accuracy,
		Timestamp: s.Timestamp,
	}
	if withDriver {
		loc.DriverID = s.DriverID
	}
	return loc
}
