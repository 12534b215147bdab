package healthcheck_head

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"dispatch/pkg/logger"
)

const pingTimeout = 2 * time.Second

type Handler struct {
	log            handlerLogger
	isShuttingDown *atomic.Bool
	dependencies   []Dependency
}

func New(log handlerLogger, isShuttingDown *atomic.Bool, dependencies ...Dependency) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:            handlerLog,
		isShuttingDown: isShuttingDown,
		dependencies:   dependencies,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.isShuttingDown.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	for _, dep := range h.dependencies {
		if err := dep.Ping(ctx); err != nil {
			h.log.With(
				logger.NewField("dependency", dep.Name()),
				logger.NewField("error", err),
			).Warn("healthcheck dependency unavailable")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// DependencyFunc адаптирует функцию проверки к Dependency.
type DependencyFunc struct {
	DependencyName string
	PingFunc       func(ctx context.Context) error
}

func (d DependencyFunc) Name() string {
	return d.DependencyName
}

func (d DependencyFunc) Ping(ctx context.Context) error {
	return d.PingFunc(ctx)
}
