//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_test
package delivery

import (
	"context"
	"encoding/json"
	"time"

	"dispatch/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, delivery entities.Delivery) (*entities.Delivery, error)
	GetByID(ctx context.Context, id string) (*entities.Delivery, error)
	List(ctx context.Context, filter entities.DeliveryFilter) ([]entities.Delivery, error)
	ListActive(ctx context.Context) ([]entities.Delivery, error)

	// Transition применяет переход, только если текущий статус равен from.
	// Иначе возвращает ErrInvalidTransition.
	Transition(ctx context.Context, id string, from entities.DeliveryStatus, transition entities.DeliveryTransition) (*entities.Delivery, error)
	AttachRoute(ctx context.Context, id string, payload json.RawMessage, at time.Time) error
}

type DriverService interface {
	GetDriver(ctx context.Context, id string) (*entities.Driver, error)
}

type Publisher interface {
	Publish(event entities.Event)
}

type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type TransitionTimeFactory interface {
	Next(previous time.Time) time.Time
}

type IDGenerator interface {
	NewID() string
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
