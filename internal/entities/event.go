package entities

import "time"

// Event - закрытое множество событий рассылки. Реализуют только типы этого пакета.
type Event interface {
	event()
}

type DeliveryCreated struct {
	Delivery Delivery
}

type DeliveryUpdated struct {
	DeliveryID string
	DriverID   *string
	Status     DeliveryStatus
	Timestamps DeliveryTimestamps
	At         time.Time
}

type LocationUpdated struct {
	Sample LocationSample
}

type DriverAssigned struct {
	DeliveryID string
	DriverID   string
	Delivery   Delivery
}

func (DeliveryCreated) event() {}
func (DeliveryUpdated) event() {}
func (LocationUpdated) event() {}
func (DriverAssigned) event()  {}

// Supersedable сообщает, можно ли выбросить событие из переполненной очереди:
// новое значение того же рода его заменит.
func Supersedable(e Event) bool {
	switch ev := e.(type) {
	case LocationUpdated:
		return true
	case DeliveryUpdated:
		return !ev.Status.IsTerminal()
	default:
		return false
	}
}

func NewDeliveryUpdated(d *Delivery) DeliveryUpdated {
	return DeliveryUpdated{
		DeliveryID: d.ID,
		DriverID:   d.DriverID,
		Status:     d.Status,
		Timestamps: d.Timestamps,
		At:         d.UpdatedAt,
	}
}
