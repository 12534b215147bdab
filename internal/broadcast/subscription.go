package broadcast

import (
	"strconv"
	"sync"

	"dispatch/internal/entities"
)

// Subscription - ограниченная FIFO-очередь событий одного подписчика.
// Публикация в нее никогда не блокируется.
type Subscription struct {
	role     entities.Role
	key      string
	capacity int

	mu     sync.Mutex
	queue  []entities.Event
	closed bool
	err    error

	ready chan struct{}
	done  chan struct{}

	releaseOnce sync.Once
	release     func()
}

func newSubscription(role entities.Role, key string, capacity int) *Subscription {
	if capacity < 1 {
		capacity = 1
	}
	return &Subscription{
		role:     role,
		key:      key,
		capacity: capacity,
		queue:    make([]entities.Event, 0, capacity),
		ready:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (s *Subscription) Role() entities.Role {
	return s.role
}

// Key - id доставки для клиента, id водителя для водителя, id админа для админа.
func (s *Subscription) Key() string {
	return s.key
}

// Ready сигналит, что в очереди появились события.
func (s *Subscription) Ready() <-chan struct{} {
	return s.ready
}

// Done закрывается, когда подписка закрыта хабом или владельцем.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err возвращает причину закрытия: ErrReplaced или ErrClosed.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Drain забирает все накопленные события в порядке поступления.
func (s *Subscription) Drain() []entities.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || len(s.queue) == 0 {
		return nil
	}
	events := s.queue
	s.queue = make([]entities.Event, 0, s.capacity)
	return events
}

// Len - число ожидающих событий.
func (s *Subscription) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close снимает подписку с регистрации и выбрасывает очередь.
func (s *Subscription) Close() {
	s.unregister()
	s.terminate(ErrClosed)
}

func (s *Subscription) unregister() {
	s.releaseOnce.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

func (s *Subscription) terminate(reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.err = reason
	s.queue = nil
	close(s.done)
}

func (s *Subscription) deliver(event entities.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if len(s.queue) >= s.capacity {
		victim := 0
		superseded := false
		for i, queued := range s.queue {
			if entities.Supersedable(queued) {
				victim = i
				superseded = true
				break
			}
		}
		s.queue = append(s.queue[:victim], s.queue[victim+1:]...)
		DroppedEventsTotal.WithLabelValues(s.role.String(), strconv.FormatBool(superseded)).Inc()
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}
