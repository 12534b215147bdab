package transition_time

import (
	"time"
)

// Postgres хранит timestamptz с точностью до микросекунды.
const resolution = time.Microsecond

type TransitionTimeFactory struct {
	now func() time.Time
}

func New() *TransitionTimeFactory {
	return &TransitionTimeFactory{now: time.Now}
}

func NewWithClock(now func() time.Time) *TransitionTimeFactory {
	return &TransitionTimeFactory{now: now}
}

// Next возвращает момент следующего перехода: текущее время в UTC, но строго
// позже previous даже при скачке часов назад или двух переходах в одну микросекунду.
func (f *TransitionTimeFactory) Next(previous time.Time) time.Time {
	next := f.now().UTC().Truncate(resolution)
	floor := previous.UTC().Truncate(resolution).Add(resolution)
	if next.Before(floor) {
		return floor
	}
	return next
}
