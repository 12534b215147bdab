package delivery

import "time"

type DeliveryDB struct {
	ID             string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	PickupAddress  string
	PickupLat      *float64
	PickupLng      *float64
	DropoffAddress string
	DropoffLat     *float64
	DropoffLng     *float64
	Notes          string
	Status         string
	DriverID       *string
	Route          []byte
	TrackingToken  *string
	CreatedAt      time.Time
	AssignedAt     *time.Time
	PickedUpAt     *time.Time
	InTransitAt    *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	UpdatedAt      time.Time
}

// порядок совпадает с fields()
var deliveryColumns = []string{
	"id",
	"customer_name",
	"customer_phone",
	"customer_email",
	"pickup_address",
	"pickup_lat",
	"pickup_lng",
	"dropoff_address",
	"dropoff_lat",
	"dropoff_lng",
	"notes",
	"status",
	"driver_id",
	"route",
	"tracking_token",
	"created_at",
	"assigned_at",
	"picked_up_at",
	"in_transit_at",
	"delivered_at",
	"cancelled_at",
	"updated_at",
}

func (d *DeliveryDB) fields() []any {
	return []any{
		&d.ID,
		&d.CustomerName,
		&d.CustomerPhone,
		&d.CustomerEmail,
		&d.PickupAddress,
		&d.PickupLat,
		&d.PickupLng,
		&d.DropoffAddress,
		&d.DropoffLat,
		&d.DropoffLng,
		&d.Notes,
		&d.Status,
		&d.DriverID,
		&d.Route,
		&d.TrackingToken,
		&d.CreatedAt,
		&d.AssignedAt,
		&d.PickedUpAt,
		&d.InTransitAt,
		&d.DeliveredAt,
		&d.CancelledAt,
		&d.UpdatedAt,
	}
}
