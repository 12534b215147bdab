package entities

import (
	"encoding/json"
	"time"
)

type DeliveryStatus string

const (
	StatusCreated   DeliveryStatus = "created"
	StatusAssigned  DeliveryStatus = "assigned"
	StatusPickedUp  DeliveryStatus = "picked_up"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
	StatusCancelled DeliveryStatus = "cancelled"
)

// statusRank задает порядок движения по жизненному циклу.
// cancelled вне цепочки, но терминален, поэтому у него максимальный ранг.
var statusRank = map[DeliveryStatus]int{
	StatusCreated:   0,
	StatusAssigned:  1,
	StatusPickedUp:  2,
	StatusInTransit: 3,
	StatusDelivered: 4,
	StatusCancelled: 5,
}

// forward - единственный допустимый шаг вперед для каждого нетерминального статуса.
var forward = map[DeliveryStatus]DeliveryStatus{
	StatusCreated:   StatusAssigned,
	StatusAssigned:  StatusPickedUp,
	StatusPickedUp:  StatusInTransit,
	StatusInTransit: StatusDelivered,
}

func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	status := DeliveryStatus(s)
	_, ok := statusRank[status]
	return status, ok
}

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsActive - статусы, в которых водитель везет заказ и его позиция видна клиенту.
func (s DeliveryStatus) IsActive() bool {
	return s == StatusAssigned || s == StatusPickedUp || s == StatusInTransit
}

// RequiresDriver - статусы, в которых у доставки обязан быть водитель.
func (s DeliveryStatus) RequiresDriver() bool {
	return s.IsActive() || s == StatusDelivered
}

// Rank позволяет сравнивать статусы по продвижению. Неизвестный статус = -1.
func (s DeliveryStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// CanTransitionTo проверяет переход по цепочке либо в cancelled из нетерминального статуса.
func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	next, ok := forward[s]
	return ok && next == target
}

type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Address struct {
	Text        string
	Coordinates *Coordinates
}

type Customer struct {
	Name  string
	Phone string
	Email string
}

type DeliveryTimestamps struct {
	CreatedAt   time.Time
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	InTransitAt *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// Latest возвращает момент последнего зафиксированного перехода.
func (t DeliveryTimestamps) Latest() time.Time {
	latest := t.CreatedAt
	for _, ts := range []*time.Time{t.AssignedAt, t.PickedUpAt, t.InTransitAt, t.DeliveredAt, t.CancelledAt} {
		if ts != nil && ts.After(latest) {
			latest = *ts
		}
	}
	return latest
}

type Delivery struct {
	ID            string
	Customer      Customer
	Pickup        Address
	Dropoff       Address
	Notes         string
	Status        DeliveryStatus
	DriverID      *string
	Timestamps    DeliveryTimestamps
	Route         json.RawMessage
	TrackingToken *string
	UpdatedAt     time.Time
}

// AssignedTo сообщает, назначена ли доставка данному водителю.
func (d *Delivery) AssignedTo(driverID string) bool {
	return d.DriverID != nil && driverID != "" && *d.DriverID == driverID
}

type DeliveryCreate struct {
	Customer Customer
	Pickup   Address
	Dropoff  Address
	Notes    string
}

// DeliveryTransition описывает одну запись перехода: новый статус,
// момент перехода и (для назначения) водителя.
type DeliveryTransition struct {
	To       DeliveryStatus
	At       time.Time
	DriverID *string
}

type DeliveryFilter struct {
	Status   *DeliveryStatus
	DriverID *string
	Limit    uint64
	Offset   uint64
}
