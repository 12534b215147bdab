package entities

import "time"

type LocationSample struct {
	DriverID  string
	Lat       float64
	Lng       float64
	Heading   *float64
	Speed     *float64
	Accuracy  *float64
	Timestamp time.Time
}

func (s LocationSample) Coordinates() Coordinates {
	return Coordinates{Lat: s.Lat, Lng: s.Lng}
}
