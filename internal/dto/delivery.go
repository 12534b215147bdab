package dto

import (
	"encoding/json"
	"time"

	"dispatch/internal/entities"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	Text        string       `json:"text"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Timestamps struct {
	CreatedAt   time.Time  `json:"created_at"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	InTransitAt *time.Time `json:"in_transit_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type DeliveryCreate struct {
	Customer Customer `json:"customer"`
	Pickup   Address  `json:"pickup"`
	Dropoff  Address  `json:"dropoff"`
	Notes    string   `json:"notes,omitempty"`
}

type Delivery struct {
	ID            string          `json:"id"`
	Customer      Customer        `json:"customer"`
	Pickup        Address         `json:"pickup"`
	Dropoff       Address         `json:"dropoff"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	DriverID      *string         `json:"driver_id,omitempty"`
	Timestamps    Timestamps      `json:"timestamps"`
	Route         json.RawMessage `json:"route,omitempty"`
	TrackingToken *string         `json:"tracking_token,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type DeliveryAssignRequest struct {
	DriverID string `json:"driver_id"`
}

type DeliveryAdvanceRequest struct {
	Status string `json:"status"`
}

type TrackingTokenResponse struct {
	Token string `json:"token"`
}

type TrackingView struct {
	Status     string     `json:"status"`
	Pickup     Address    `json:"pickup"`
	Dropoff    Address    `json:"dropoff"`
	Timestamps Timestamps `json:"timestamps"`
	Location   *Location  `json:"location,omitempty"`
}

type NavigationResponse struct {
	DeliveryID      string          `json:"delivery_id"`
	Profile         string          `json:"profile"`
	Origin          Coordinates     `json:"origin"`
	Destination     Coordinates     `json:"destination"`
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	ETA             time.Time       `json:"eta"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
}

func (c Coordinates) ToEntity() entities.Coordinates {
	return entities.Coordinates{Lat: c.Lat, Lng: c.Lng}
}

func (a Address) ToEntity() entities.Address {
	address := entities.Address{Text: a.Text}
	if a.Coordinates != nil {
		c := a.Coordinates.ToEntity()
		address.Coordinates = &c
	}
	return address
}

func (d DeliveryCreate) ToEntity() entities.DeliveryCreate {
	return entities.DeliveryCreate{
		Customer: entities.Customer{
			Name:  d.Customer.Name,
			Phone: d.Customer.Phone,
			Email: d.Customer.Email,
		},
		Pickup:  d.Pickup.ToEntity(),
		Dropoff: d.Dropoff.ToEntity(),
		Notes:   d.Notes,
	}
}

func NewCoordinates(c entities.Coordinates) Coordinates {
	return Coordinates{Lat: c.Lat, Lng: c.Lng}
}

func NewAddress(a entities.Address) Address {
	address := Address{Text: a.Text}
	if a.Coordinates != nil {
		c := NewCoordinates(*a.Coordinates)
		address.Coordinates = &c
	}
	return address
}

func NewTimestamps(t entities.DeliveryTimestamps) Timestamps {
	return Timestamps{
		CreatedAt:   t.CreatedAt,
		AssignedAt:  t.AssignedAt,
		PickedUpAt:  t.PickedUpAt,
		InTransitAt: t.InTransitAt,
		DeliveredAt: t.DeliveredAt,
		CancelledAt: t.CancelledAt,
	}
}

func NewDelivery(d entities.Delivery) Delivery {
	return Delivery{
		ID: d.ID,
		Customer: Customer{
			Name:  d.Customer.Name,
			Phone: d.Customer.Phone,
			Email: d.Customer.Email,
		},
		Pickup:        NewAddress(d.Pickup),
		Dropoff:       NewAddress(d.Dropoff),
		Notes:         d.Notes,
		Status:        d.Status.String(),
		DriverID:      d.DriverID,
		Timestamps:    NewTimestamps(d.Timestamps),
		Route:         d.Route,
		TrackingToken: d.TrackingToken,
		UpdatedAt:     d.UpdatedAt,
	}
}

func NewDeliveries(deliveries []entities.Delivery) []Delivery {
	out := make([]Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, NewDelivery(d))
	}
	return out
}

func NewTrackingView(v entities.TrackingView) TrackingView {
	view := TrackingView{
		Status:     v.Status.String(),
		Pickup:     NewAddress(v.Pickup),
		Dropoff:    NewAddress(v.Dropoff),
		Timestamps: NewTimestamps(v.Timestamps),
	}
	if v.Location != nil {
		loc := NewLocation(*v.Location, false)
		view.Location = &loc
	}
	return view
}

func NewNavigationResponse(deliveryID string, plan entities.RoutePlan) NavigationResponse {
	return NavigationResponse{
		DeliveryID:      deliveryID,
		Profile:         plan.Profile,
		Origin:          NewCoordinates(plan.Origin),
		Destination:     NewCoordinates(plan.Destination),
		DistanceMeters:  plan.DistanceMeters,
		DurationSeconds: plan.DurationSeconds,
		ETA:             plan.ETA(),
		Geometry:        plan.Geometry,
	}
}
