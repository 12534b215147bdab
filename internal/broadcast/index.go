package broadcast

import (
	"sync"
	"time"

	"dispatch/internal/entities"
)

type indexEntry struct {
	status entities.DeliveryStatus
	at     time.Time
}

// driverDeliveries - доставки водителя и их последний известный статус.
// Терминальные записи остаются до сверки, чтобы запоздалая сверка их не воскресила.
type driverDeliveries struct {
	mu    sync.Mutex
	items map[string]indexEntry
}

func (d *driverDeliveries) apply(deliveryID string, status entities.DeliveryStatus, at time.Time) bool {
	if cur, ok := d.items[deliveryID]; ok && at.Before(cur.at) {
		return false
	}
	d.items[deliveryID] = indexEntry{status: status, at: at}
	return true
}

func (h *Hub) withDriverIndex(driverID string, fn func(d *driverDeliveries)) {
	v, _ := h.index.LoadOrStore(driverID, &driverDeliveries{items: make(map[string]indexEntry)})
	d := v.(*driverDeliveries)

	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d)
}

// Reconcile сверяет индекс с хранилищем. active - активные доставки на момент asOf.
// Записи новее asOf не трогаются: их принесли события после снимка.
func (h *Hub) Reconcile(active []entities.Delivery, asOf time.Time) (added, removed int) {
	byDriver := make(map[string]map[string]entities.Delivery)
	for _, d := range active {
		if d.DriverID == nil || !d.Status.IsActive() {
			continue
		}
		if byDriver[*d.DriverID] == nil {
			byDriver[*d.DriverID] = make(map[string]entities.Delivery)
		}
		byDriver[*d.DriverID][d.ID] = d
	}

	for driverID, deliveries := range byDriver {
		h.withDriverIndex(driverID, func(idx *driverDeliveries) {
			for id, d := range deliveries {
				if _, known := idx.items[id]; !known {
					added++
				}
				idx.apply(id, d.Status, d.UpdatedAt)
			}
		})
	}

	h.index.Range(func(key, v any) bool {
		driverID := key.(string)
		idx := v.(*driverDeliveries)

		idx.mu.Lock()
		for id, entry := range idx.items {
			if _, ok := byDriver[driverID][id]; ok {
				continue
			}
			if entry.at.After(asOf) {
				continue
			}
			delete(idx.items, id)
			if entry.status.IsActive() {
				removed++
			}
		}
		idx.mu.Unlock()
		return true
	})
	return added, removed
}

// ActiveDeliveries возвращает активные доставки водителя по индексу.
func (h *Hub) ActiveDeliveries(driverID string) []string {
	v, ok := h.index.Load(driverID)
	if !ok {
		return nil
	}
	idx := v.(*driverDeliveries)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	ids := make([]string, 0, len(idx.items))
	for id, entry := range idx.items {
		if entry.status.IsActive() {
			ids = append(ids, id)
		}
	}
	return ids
}
