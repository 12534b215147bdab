package active_index_refresh

import (
	"context"
	"fmt"
	"time"

	"dispatch/pkg/logger"
)

// ActiveIndexRefresh сверяет индекс "водитель -> активные доставки" в хабе
// с хранилищем, чтобы пропущенные события не копились в маршрутизации.
type ActiveIndexRefresh struct {
	log      handlerLogger
	service  Service
	index    Index
	interval time.Duration
	now      func() time.Time
}

func NewActiveIndexRefresh(log handlerLogger, service Service, index Index, interval time.Duration) *ActiveIndexRefresh {
	return &ActiveIndexRefresh{
		log:      log,
		service:  service,
		index:    index,
		interval: interval,
		now:      time.Now,
	}
}

func (a *ActiveIndexRefresh) TTL() time.Duration {
	return a.interval
}

func (a *ActiveIndexRefresh) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, a.interval)
	defer cancel()

	// момент снимка фиксируется до запроса: события после него индекс не теряет
	asOf := a.now()

	active, err := a.service.ListActive(ctxWithTimeout)
	if err != nil {
		return fmt.Errorf("list active deliveries: %w", err)
	}

	added, removed := a.index.Reconcile(active, asOf)
	if added > 0 || removed > 0 {
		a.log.With(
			logger.NewField("active", len(active)),
			logger.NewField("added", added),
			logger.NewField("removed", removed),
		).Info("active index reconciled")
	}
	return nil
}

func (a *ActiveIndexRefresh) Info() string {
	return "active index refresh"
}
