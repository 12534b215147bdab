package token_bucket

import (
	"sync"
	"time"
)

type Limiter interface {
	Allow() bool
}

type Clock func() time.Time

type Option func(*TokenBucket)

// WithClock подменяет источник времени (для тестов).
func WithClock(now Clock) Option {
	return func(t *TokenBucket) {
		t.now = now
		t.lastRefill = now()
	}
}

// TokenBucket пополняется непрерывно: дробные токены копятся между вызовами,
// поэтому низкие скорости пополнения не теряются на округлении.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64
	lastRefill time.Time
	now        Clock
}

func NewTokenBucket(capacity int, refillRate float64, opts ...Option) *TokenBucket {
	t := &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		now:        time.Now,
	}
	t.lastRefill = t.now()
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TokenBucket) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()

	if t.tokens >= 1 {
		t.tokens--
		return true
	}
	return false
}

func (t *TokenBucket) refill() {
	now := t.now()
	elapsed := now.Sub(t.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	t.tokens += elapsed * t.refillRate
	if t.tokens > t.capacity {
		t.tokens = t.capacity
	}
	t.lastRefill = now
}

// Keyed держит отдельный бакет на каждый ключ (клиент, соединение).
// Бакеты разных ключей не конкурируют между собой.
type Keyed struct {
	capacity   int
	refillRate float64
	opts       []Option
	buckets    sync.Map // string -> *TokenBucket
}

func NewKeyed(capacity int, refillRate float64, opts ...Option) *Keyed {
	return &Keyed{
		capacity:   capacity,
		refillRate: refillRate,
		opts:       opts,
	}
}

func (k *Keyed) Allow(key string) bool {
	if b, ok := k.buckets.Load(key); ok {
		return b.(*TokenBucket).Allow()
	}
	b, _ := k.buckets.LoadOrStore(key, NewTokenBucket(k.capacity, k.refillRate, k.opts...))
	return b.(*TokenBucket).Allow()
}

// Forget удаляет бакет ключа.
func (k *Keyed) Forget(key string) {
	k.buckets.Delete(key)
}
