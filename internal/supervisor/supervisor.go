package supervisor

import (
	"context"
	"sync"
	"time"

	"dispatch/internal/broadcast"
	"dispatch/internal/dto"
	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type Config struct {
	HeartbeatInterval time.Duration
	IdleTimeout       time.Duration
	WriteTimeout      time.Duration

	// ограничение входящих кадров location на одно соединение водителя
	LocationBurst int
	LocationRate  float64
}

func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: 15 * time.Second,
		IdleTimeout:       45 * time.Second,
		WriteTimeout:      10 * time.Second,
		LocationBurst:     10,
		LocationRate:      5,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = def.HeartbeatInterval
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = def.IdleTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.LocationBurst <= 0 {
		c.LocationBurst = def.LocationBurst
	}
	if c.LocationRate <= 0 {
		c.LocationRate = def.LocationRate
	}
	return c
}

// Supervisor ведет жизненный цикл realtime-соединений:
// регистрация в хабе, чтение, запись, heartbeat, тайм-аут простоя и закрытие.
type Supervisor struct {
	log       handlerLogger
	hub       Hub
	locations LocationUpdater
	tracking  TrackingViewer
	cfg       Config
	now       func() time.Time

	mu       sync.Mutex
	closing  bool
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func New(log handlerLogger, hub Hub, locations LocationUpdater, tracking TrackingViewer, cfg Config) *Supervisor {
	return &Supervisor{
		log:       log,
		hub:       hub,
		locations: locations,
		tracking:  tracking,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
		shutdown:  make(chan struct{}),
	}
}

func (s *Supervisor) ServeAdmin(ctx context.Context, conn Conn, adminID string) {
	s.serve(ctx, conn, &session{
		role:    entities.RoleAdmin,
		subject: adminID,
		subscribe: func() *broadcast.Subscription {
			return s.hub.SubscribeAdmin(adminID)
		},
	})
}

func (s *Supervisor) ServeDriver(ctx context.Context, conn Conn, driverID string) {
	s.serve(ctx, conn, &session{
		role:    entities.RoleDriver,
		subject: driverID,
		subscribe: func() *broadcast.Subscription {
			return s.hub.SubscribeDriver(driverID)
		},
		inbound: s.driverInbound(driverID),
	})
}

// ServeCustomer ожидает уже проверенный токен и id доставки, к которой он ведет.
// Снимок состояния берется после подписки, фильтр отбрасывает устаревшие события из очереди.
func (s *Supervisor) ServeCustomer(ctx context.Context, conn Conn, token, deliveryID string) {
	s.serve(ctx, conn, &session{
		role:    entities.RoleCustomer,
		subject: deliveryID,
		subscribe: func() *broadcast.Subscription {
			return s.hub.SubscribeCustomer(deliveryID)
		},
		snapshot: func(ctx context.Context) ([]entities.Event, error) {
			view, err := s.tracking.View(ctx, token)
			if err != nil {
				return nil, err
			}
			return snapshotEvents(deliveryID, view), nil
		},
		filter: newCustomerFilter(),
	})
}

// Shutdown закрывает все соединения с кодом 1001 и ждет завершения их обработчиков.
// Новые соединения после вызова сразу закрываются.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closing {
		s.closing = true
		close(s.shutdown)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

func snapshotEvents(deliveryID string, view *entities.TrackingView) []entities.Event {
	events := []entities.Event{
		entities.DeliveryUpdated{
			DeliveryID: deliveryID,
			Status:     view.Status,
			Timestamps: view.Timestamps,
			At:         view.Timestamps.Latest(),
		},
	}
	if view.Location != nil {
		events = append(events, entities.LocationUpdated{Sample: *view.Location})
	}
	return events
}

func (s *Supervisor) driverInbound(driverID string) inboundFunc {
	return func(ctx context.Context, frame dto.InboundFrame) *dto.Frame {
		sample, ok := frame.ToEntity(driverID)
		if !ok {
			reply := dto.NewErrorFrame("lat and lng are required")
			return &reply
		}

		if _, err := s.locations.Update(ctx, sample); err != nil {
			s.log.Warn("location frame rejected",
				logger.NewField("driver_id", driverID),
				logger.NewField("error", err),
			)
			reply := dto.NewErrorFrame("invalid location sample")
			return &reply
		}
		return nil
	}
}
