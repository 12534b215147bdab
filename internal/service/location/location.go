package location

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"dispatch/internal/entities"
)

const DefaultTTL = 5 * time.Minute

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

type stored struct {
	sample     entities.LocationSample
	receivedAt time.Time
}

// slot хранит последнюю позицию одного водителя. Запись под mu,
// чтение через атомарный указатель без блокировок.
type slot struct {
	mu        sync.Mutex
	current   atomic.Pointer[stored]
	watermark time.Time
}

// Store - последняя известная позиция каждого водителя. Только в памяти.
type Store struct {
	slots     sync.Map // driverID -> *slot
	publisher Publisher
	ttl       time.Duration
	now       func() time.Time
}

func New(publisher Publisher, opts ...Option) *Store {
	s := &Store{
		publisher: publisher,
		ttl:       DefaultTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update принимает сэмпл, если он не старше сохраненного.
// Событие публикуется под блокировкой водителя, поэтому порядок рассылки
// совпадает с порядком принятия.
func (s *Store) Update(ctx context.Context, sample entities.LocationSample) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if sample.DriverID == "" {
		return false, fmt.Errorf("%w: %w", ErrInvalidSample, ErrInvalidDriverID)
	}
	if !sample.Coordinates().Valid() {
		return false, fmt.Errorf("%w: coordinates out of range", ErrInvalidSample)
	}

	now := s.now()
	if sample.Timestamp.IsZero() {
		sample.Timestamp = now
	}
	sample.Timestamp = sample.Timestamp.UTC()

	sl := s.slot(sample.DriverID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sample.Timestamp.Before(sl.watermark) {
		return false, nil
	}

	sl.watermark = sample.Timestamp
	sl.current.Store(&stored{sample: sample, receivedAt: now})

	if s.publisher != nil {
		s.publisher.Publish(entities.LocationUpdated{Sample: sample})
	}
	return true, nil
}

// Get не блокируется и не ждет записи других водителей.
func (s *Store) Get(driverID string) (entities.LocationSample, bool) {
	v, ok := s.slots.Load(driverID)
	if !ok {
		return entities.LocationSample{}, false
	}
	cur := v.(*slot).current.Load()
	if cur == nil {
		return entities.LocationSample{}, false
	}
	return cur.sample, true
}

// EvictStale убирает позиции, полученные раньше now-ttl. Отметка времени
// водителя остается, так что устаревший сэмпл не примется и после вытеснения.
func (s *Store) EvictStale(now time.Time) int {
	cutoff := now.Add(-s.ttl)
	evicted := 0

	s.slots.Range(func(_, v any) bool {
		sl := v.(*slot)
		sl.mu.Lock()
		if cur := sl.current.Load(); cur != nil && cur.receivedAt.Before(cutoff) {
			sl.current.Store(nil)
			evicted++
		}
		sl.mu.Unlock()
		return true
	})
	return evicted
}

func (s *Store) slot(driverID string) *slot {
	if v, ok := s.slots.Load(driverID); ok {
		return v.(*slot)
	}
	v, _ := s.slots.LoadOrStore(driverID, &slot{})
	return v.(*slot)
}
