package location_eviction

import (
	"context"
	"time"

	"dispatch/pkg/logger"
)

type LocationEviction struct {
	log      handlerLogger
	store    Store
	interval time.Duration
	now      func() time.Time
}

func NewLocationEviction(log handlerLogger, store Store, interval time.Duration) *LocationEviction {
	return &LocationEviction{
		log:      log,
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

func (l *LocationEviction) TTL() time.Duration {
	return l.interval
}

func (l *LocationEviction) Do(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	evicted := l.store.EvictStale(l.now())
	if evicted > 0 {
		l.log.With(
			logger.NewField("evicted", evicted),
		).Debug("stale locations evicted")
	}
	return nil
}

func (l *LocationEviction) Info() string {
	return "location eviction"
}
