package delivery

import (
	"encoding/json"
	"time"

	"dispatch/internal/entities"
)

func ToDomain(d *DeliveryDB) *entities.Delivery {
	if d == nil {
		return nil
	}

	var route json.RawMessage
	if len(d.Route) > 0 {
		route = json.RawMessage(d.Route)
	}

	return &entities.Delivery{
		ID: d.ID,
		Customer: entities.Customer{
			Name:  d.CustomerName,
			Phone: d.CustomerPhone,
			Email: d.CustomerEmail,
		},
		Pickup:   toAddress(d.PickupAddress, d.PickupLat, d.PickupLng),
		Dropoff:  toAddress(d.DropoffAddress, d.DropoffLat, d.DropoffLng),
		Notes:    d.Notes,
		Status:   entities.DeliveryStatus(d.Status),
		DriverID: d.DriverID,
		Timestamps: entities.DeliveryTimestamps{
			CreatedAt:   d.CreatedAt.UTC(),
			AssignedAt:  utc(d.AssignedAt),
			PickedUpAt:  utc(d.PickedUpAt),
			InTransitAt: utc(d.InTransitAt),
			DeliveredAt: utc(d.DeliveredAt),
			CancelledAt: utc(d.CancelledAt),
		},
		Route:         route,
		TrackingToken: d.TrackingToken,
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func ToDomainList(models []DeliveryDB) []entities.Delivery {
	deliveries := make([]entities.Delivery, 0, len(models))
	for i := range models {
		deliveries = append(deliveries, *ToDomain(&models[i]))
	}
	return deliveries
}

func FromDomain(d *entities.Delivery) *DeliveryDB {
	if d == nil {
		return nil
	}

	model := &DeliveryDB{
		ID:             d.ID,
		CustomerName:   d.Customer.Name,
		CustomerPhone:  d.Customer.Phone,
		CustomerEmail:  d.Customer.Email,
		PickupAddress:  d.Pickup.Text,
		DropoffAddress: d.Dropoff.Text,
		Notes:          d.Notes,
		Status:         d.Status.String(),
		DriverID:       d.DriverID,
		TrackingToken:  d.TrackingToken,
		CreatedAt:      d.Timestamps.CreatedAt,
		AssignedAt:     d.Timestamps.AssignedAt,
		PickedUpAt:     d.Timestamps.PickedUpAt,
		InTransitAt:    d.Timestamps.InTransitAt,
		DeliveredAt:    d.Timestamps.DeliveredAt,
		CancelledAt:    d.Timestamps.CancelledAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if len(d.Route) > 0 {
		model.Route = []byte(d.Route)
	}
	if c := d.Pickup.Coordinates; c != nil {
		model.PickupLat, model.PickupLng = &c.Lat, &c.Lng
	}
	if c := d.Dropoff.Coordinates; c != nil {
		model.DropoffLat, model.DropoffLng = &c.Lat, &c.Lng
	}
	return model
}

// statusColumn - колонка, в которую пишется момент перехода в статус.
func statusColumn(status entities.DeliveryStatus) (string, bool) {
	switch status {
	case entities.StatusAssigned:
		return "assigned_at", true
	case entities.StatusPickedUp:
		return "picked_up_at", true
	case entities.StatusInTransit:
		return "in_transit_at", true
	case entities.StatusDelivered:
		return "delivered_at", true
	case entities.StatusCancelled:
		return "cancelled_at", true
	default:
		return "", false
	}
}

func toAddress(text string, lat, lng *float64) entities.Address {
	address := entities.Address{Text: text}
	if lat != nil && lng != nil {
		address.Coordinates = &entities.Coordinates{Lat: *lat, Lng: *lng}
	}
	return address
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
