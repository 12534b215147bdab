package supervisor

import (
	"time"

	"dispatch/internal/entities"
)

// customerFilter не пускает к клиенту события старее уже показанных:
// статус только вперед, позиция не назад во времени и не после терминального статуса.
type customerFilter struct {
	rank         int
	terminal     bool
	lastLocation time.Time
}

func newCustomerFilter() *customerFilter {
	return &customerFilter{rank: -1}
}

func (f *customerFilter) allow(event entities.Event) bool {
	switch ev := event.(type) {
	case entities.DeliveryUpdated:
		rank := ev.Status.Rank()
		if rank <= f.rank {
			return false
		}
		f.rank = rank
		f.terminal = ev.Status.IsTerminal()
		return true

	case entities.LocationUpdated:
		if f.terminal || ev.Sample.Timestamp.Before(f.lastLocation) {
			return false
		}
		f.lastLocation = ev.Sample.Timestamp
		return true

	default:
		return true
	}
}
