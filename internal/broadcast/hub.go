package broadcast

import (
	"sync"

	"dispatch/internal/entities"
)

const DefaultQueueSize = 64

// subscriberSet - множество подписчиков под собственной блокировкой.
// dead выставляется, когда пустое множество удалено из реестра.
type subscriberSet struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
	dead bool
}

func newSubscriberSet() *subscriberSet {
	return &subscriberSet{subs: make(map[*Subscription]struct{})}
}

func (s *subscriberSet) deliver(event entities.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subs {
		sub.deliver(event)
	}
}

func (s *subscriberSet) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Hub разносит события по подписчикам. Реестры разделены по ключам:
// клиенты одной доставки и водители не конкурируют друг с другом.
type Hub struct {
	queueSize int

	admins    *subscriberSet
	customers sync.Map // deliveryID -> *subscriberSet
	drivers   sync.Map // driverID -> *Subscription
	index     sync.Map // driverID -> *driverDeliveries
}

type Option func(*Hub)

func WithQueueSize(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.queueSize = size
		}
	}
}

func New(opts ...Option) *Hub {
	h := &Hub{
		queueSize: DefaultQueueSize,
		admins:    newSubscriberSet(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) SubscribeAdmin(adminID string) *Subscription {
	sub := newSubscription(entities.RoleAdmin, adminID, h.queueSize)

	h.admins.mu.Lock()
	h.admins.subs[sub] = struct{}{}
	h.admins.mu.Unlock()

	sub.release = func() {
		h.admins.mu.Lock()
		delete(h.admins.subs, sub)
		h.admins.mu.Unlock()
		Subscribers.WithLabelValues(entities.RoleAdmin.String()).Dec()
	}
	Subscribers.WithLabelValues(entities.RoleAdmin.String()).Inc()
	return sub
}

func (h *Hub) SubscribeCustomer(deliveryID string) *Subscription {
	sub := newSubscription(entities.RoleCustomer, deliveryID, h.queueSize)

	for {
		v, _ := h.customers.LoadOrStore(deliveryID, newSubscriberSet())
		set := v.(*subscriberSet)

		set.mu.Lock()
		if set.dead {
			set.mu.Unlock()
			continue
		}
		set.subs[sub] = struct{}{}
		set.mu.Unlock()

		sub.release = func() { h.releaseCustomer(deliveryID, set, sub) }
		break
	}

	Subscribers.WithLabelValues(entities.RoleCustomer.String()).Inc()
	return sub
}

func (h *Hub) releaseCustomer(deliveryID string, set *subscriberSet, sub *Subscription) {
	set.mu.Lock()
	delete(set.subs, sub)
	if len(set.subs) == 0 {
		set.dead = true
		h.customers.CompareAndDelete(deliveryID, set)
	}
	set.mu.Unlock()
	Subscribers.WithLabelValues(entities.RoleCustomer.String()).Dec()
}

// SubscribeDriver регистрирует командную сессию водителя. Предыдущая сессия
// того же водителя закрывается с ErrReplaced, ее очередь выбрасывается.
func (h *Hub) SubscribeDriver(driverID string) *Subscription {
	sub := newSubscription(entities.RoleDriver, driverID, h.queueSize)
	sub.release = func() {
		if h.drivers.CompareAndDelete(driverID, sub) {
			Subscribers.WithLabelValues(entities.RoleDriver.String()).Dec()
		}
	}

	prev, replaced := h.drivers.Swap(driverID, sub)
	if replaced {
		prev.(*Subscription).terminate(ErrReplaced)
	} else {
		Subscribers.WithLabelValues(entities.RoleDriver.String()).Inc()
	}
	return sub
}

// Publish не блокируется: каждому подписчику событие кладется в его очередь.
func (h *Hub) Publish(event entities.Event) {
	switch ev := event.(type) {
	case entities.DeliveryCreated:
		PublishedEventsTotal.WithLabelValues("delivery_created").Inc()
		h.admins.deliver(ev)

	case entities.DeliveryUpdated:
		PublishedEventsTotal.WithLabelValues("delivery_updated").Inc()
		h.admins.deliver(ev)
		h.routeDeliveryUpdated(ev)

	case entities.LocationUpdated:
		PublishedEventsTotal.WithLabelValues("location_updated").Inc()
		h.admins.deliver(ev)
		h.routeLocation(ev)

	case entities.DriverAssigned:
		PublishedEventsTotal.WithLabelValues("driver_assigned").Inc()
		h.deliverDriver(ev.DriverID, ev)
	}
}

func (h *Hub) routeDeliveryUpdated(ev entities.DeliveryUpdated) {
	if ev.DriverID == nil {
		h.deliverCustomers(ev.DeliveryID, ev)
		return
	}

	// клиентская рассылка под блокировкой водителя: позиция не обгонит терминальный статус
	h.withDriverIndex(*ev.DriverID, func(d *driverDeliveries) {
		d.apply(ev.DeliveryID, ev.Status, ev.At)
		h.deliverCustomers(ev.DeliveryID, ev)
	})

	if ev.Status == entities.StatusCancelled {
		h.deliverDriver(*ev.DriverID, ev)
	}
}

func (h *Hub) routeLocation(ev entities.LocationUpdated) {
	v, ok := h.index.Load(ev.Sample.DriverID)
	if !ok {
		return
	}
	d := v.(*driverDeliveries)

	d.mu.Lock()
	defer d.mu.Unlock()
	for deliveryID, entry := range d.items {
		if entry.status.IsActive() {
			h.deliverCustomers(deliveryID, ev)
		}
	}
}

func (h *Hub) deliverCustomers(deliveryID string, event entities.Event) {
	if v, ok := h.customers.Load(deliveryID); ok {
		v.(*subscriberSet).deliver(event)
	}
}

func (h *Hub) deliverDriver(driverID string, event entities.Event) {
	if v, ok := h.drivers.Load(driverID); ok {
		v.(*Subscription).deliver(event)
	}
}

// Counts - число подписчиков по ролям, для диагностики и тестов.
func (h *Hub) Counts() map[entities.Role]int {
	counts := map[entities.Role]int{
		entities.RoleAdmin: h.admins.len(),
	}
	h.customers.Range(func(_, v any) bool {
		counts[entities.RoleCustomer] += v.(*subscriberSet).len()
		return true
	})
	h.drivers.Range(func(_, _ any) bool {
		counts[entities.RoleDriver]++
		return true
	})
	return counts
}
