package dto

import (
	"time"

	"dispatch/internal/entities"
)

const (
	FrameWelcome         = "welcome"
	FrameHeartbeat       = "heartbeat"
	FrameDeliveryCreated = "delivery_created"
	FrameDeliveryUpdated = "delivery_updated"
	FrameLocationUpdated = "location_updated"
	FrameDriverAssigned  = "driver_assigned"
	FrameLocation        = "location"
	FrameError           = "error"
)

// Frame - исходящее сообщение по WebSocket. Набор полей зависит от Type.
type Frame struct {
	Type string `json:"type"`

	Role                     string  `json:"role,omitempty"`
	HeartbeatIntervalSeconds float64 `json:"heartbeat_interval_seconds,omitempty"`
	IdleTimeoutSeconds       float64 `json:"idle_timeout_seconds,omitempty"`

	DeliveryID string      `json:"delivery_id,omitempty"`
	DriverID   *string     `json:"driver_id,omitempty"`
	Status     string      `json:"status,omitempty"`
	Timestamps *Timestamps `json:"timestamps,omitempty"`
	Delivery   *Delivery   `json:"delivery,omitempty"`
	Location   *Location   `json:"location,omitempty"`
	Message    string      `json:"message,omitempty"`
	At         *time.Time  `json:"at,omitempty"`
}

// InboundFrame - входящее сообщение. Для type=location поля позиции лежат на верхнем уровне.
type InboundFrame struct {
	Type string `json:"type"`
	LocationUpdate
}

func NewWelcomeFrame(role entities.Role, heartbeat, idle time.Duration) Frame {
	return Frame{
		Type:                     FrameWelcome,
		Role:                     role.String(),
		HeartbeatIntervalSeconds: heartbeat.Seconds(),
		IdleTimeoutSeconds:       idle.Seconds(),
	}
}

func NewHeartbeatFrame(at time.Time) Frame {
	return Frame{Type: FrameHeartbeat, At: &at}
}

func NewErrorFrame(message string) Frame {
	return Frame{Type: FrameError, Message: message}
}

// NewEventFrame переводит событие в кадр для роли получателя.
// Клиенту (customer) не уходят id водителя и контакты.
func NewEventFrame(event entities.Event, role entities.Role) (Frame, bool) {
	public := role == entities.RoleCustomer

	switch ev := event.(type) {
	case entities.DeliveryCreated:
		if public {
			return Frame{}, false
		}
		d := NewDelivery(ev.Delivery)
		return Frame{Type: FrameDeliveryCreated, DeliveryID: ev.Delivery.ID, Delivery: &d}, true

	case entities.DeliveryUpdated:
		ts := NewTimestamps(ev.Timestamps)
		at := ev.At
		frame := Frame{
			Type:       FrameDeliveryUpdated,
			DeliveryID: ev.DeliveryID,
			Status:     ev.Status.String(),
			Timestamps: &ts,
			At:         &at,
		}
		if !public {
			frame.DriverID = ev.DriverID
		}
		return frame, true

	case entities.LocationUpdated:
		loc := NewLocation(ev.Sample, !public)
		return Frame{Type: FrameLocationUpdated, Location: &loc}, true

	case entities.DriverAssigned:
		if public {
			return Frame{}, false
		}
		d := NewDelivery(ev.Delivery)
		driverID := ev.DriverID
		return Frame{Type: FrameDriverAssigned, DeliveryID: ev.DeliveryID, DriverID: &driverID, Delivery: &d}, true
	}
	return Frame{}, false
}
