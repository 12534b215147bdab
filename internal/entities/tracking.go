package entities

// TrackingView - то, что видит держатель токена: без id водителя и контактов клиента.
type TrackingView struct {
	Status     DeliveryStatus
	Pickup     Address
	Dropoff    Address
	Timestamps DeliveryTimestamps
	Location   *LocationSample
}
