package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/entities"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type Delivery struct {
	repository  Repository
	drivers     DriverService
	publisher   Publisher
	locker      Locker
	timeFactory TransitionTimeFactory
	ids         IDGenerator
	txManager   TxManager
}

func New(
	repository Repository,
	drivers DriverService,
	publisher Publisher,
	locker Locker,
	timeFactory TransitionTimeFactory,
	ids IDGenerator,
	txManager TxManager,
) *Delivery {
	return &Delivery{
		repository:  repository,
		drivers:     drivers,
		publisher:   publisher,
		locker:      locker,
		timeFactory: timeFactory,
		ids:         ids,
		txManager:   txManager,
	}
}

func (d *Delivery) Create(ctx context.Context, create entities.DeliveryCreate) (*entities.Delivery, error) {
	if err := validateCreate(create); err != nil {
		return nil, err
	}

	now := d.timeFactory.Next(time.Time{})
	delivery := entities.Delivery{
		ID: d.ids.NewID(),
		Customer: entities.Customer{
			Name:  strings.TrimSpace(create.Customer.Name),
			Phone: strings.TrimSpace(create.Customer.Phone),
			Email: strings.TrimSpace(create.Customer.Email),
		},
		Pickup:     create.Pickup,
		Dropoff:    create.Dropoff,
		Notes:      create.Notes,
		Status:     entities.StatusCreated,
		Timestamps: entities.DeliveryTimestamps{CreatedAt: now},
		UpdatedAt:  now,
	}

	created, err := d.repository.Create(ctx, delivery)
	if err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}

	d.publisher.Publish(entities.DeliveryCreated{Delivery: *created})
	return created, nil
}

func (d *Delivery) Assign(ctx context.Context, deliveryID, driverID string) (*entities.Delivery, error) {
	if _, err := d.drivers.GetDriver(ctx, driverID); err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}

	decide := func(current *entities.Delivery) (*entities.DeliveryTransition, error) {
		if current.Status != entities.StatusCreated {
			return nil, fmt.Errorf("%w: cannot assign delivery in status %s", ErrInvalidTransition, current.Status)
		}
		return &entities.DeliveryTransition{
			To:       entities.StatusAssigned,
			DriverID: &driverID,
		}, nil
	}

	announce := func(updated *entities.Delivery) []entities.Event {
		return []entities.Event{
			entities.NewDeliveryUpdated(updated),
			entities.DriverAssigned{
				DeliveryID: updated.ID,
				DriverID:   driverID,
				Delivery:   *updated,
			},
		}
	}

	return d.transition(ctx, deliveryID, decide, announce)
}

// Advance двигает доставку по цепочке. Сначала проверяется, что вызывающий -
// назначенный водитель, и только потом допустимость перехода.
func (d *Delivery) Advance(ctx context.Context, deliveryID, actorDriverID string, target entities.DeliveryStatus) (*entities.Delivery, error) {
	decide := func(current *entities.Delivery) (*entities.DeliveryTransition, error) {
		if !current.AssignedTo(actorDriverID) {
			return nil, ErrForbidden
		}
		if target == entities.StatusCancelled || !current.Status.CanTransitionTo(target) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, target)
		}
		return &entities.DeliveryTransition{To: target}, nil
	}

	return d.transition(ctx, deliveryID, decide, announceUpdate)
}

// Cancel разрешен администратору и назначенному водителю. Повторная отмена - успешный no-op.
func (d *Delivery) Cancel(ctx context.Context, deliveryID string, actor entities.Identity) (*entities.Delivery, error) {
	decide := func(current *entities.Delivery) (*entities.DeliveryTransition, error) {
		if !canCancel(current, actor) {
			return nil, ErrForbidden
		}
		switch current.Status {
		case entities.StatusCancelled:
			return nil, nil
		case entities.StatusDelivered:
			return nil, fmt.Errorf("%w: delivery already delivered", ErrInvalidTransition)
		}
		return &entities.DeliveryTransition{To: entities.StatusCancelled}, nil
	}

	return d.transition(ctx, deliveryID, decide, announceUpdate)
}

// AttachRoute сохраняет непрозрачный маршрут. Содержимое не проверяется.
func (d *Delivery) AttachRoute(ctx context.Context, deliveryID string, payload json.RawMessage) error {
	if !isValidID(deliveryID) {
		return ErrDeliveryNotFound
	}

	unlock, err := d.locker.Lock(ctx, deliveryID)
	if err != nil {
		return fmt.Errorf("lock delivery: %w", err)
	}
	defer unlock()

	current, err := d.repository.GetByID(ctx, deliveryID)
	if err != nil {
		return fmt.Errorf("get delivery: %w", err)
	}

	err = d.repository.AttachRoute(ctx, deliveryID, payload, d.timeFactory.Next(lastChange(current)))
	if err != nil {
		return fmt.Errorf("attach route: %w", err)
	}
	return nil
}

func (d *Delivery) Get(ctx context.Context, deliveryID string, actor entities.Identity) (*entities.Delivery, error) {
	if !isValidID(deliveryID) {
		return nil, ErrDeliveryNotFound
	}

	delivery, err := d.repository.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}

	if !actor.IsAdmin() {
		driverID, ok := actor.DriverID()
		if !ok || !delivery.AssignedTo(driverID) {
			return nil, ErrForbidden
		}
	}
	return delivery, nil
}

// List отдает администратору любые доставки, водителю - только его собственные.
func (d *Delivery) List(ctx context.Context, actor entities.Identity, filter entities.DeliveryFilter) ([]entities.Delivery, error) {
	switch {
	case actor.IsAdmin():
	case actor.Role == entities.RoleDriver:
		driverID, ok := actor.DriverID()
		if !ok {
			return nil, ErrForbidden
		}
		filter.DriverID = &driverID
	default:
		return nil, ErrForbidden
	}

	if filter.DriverID != nil && !isValidID(*filter.DriverID) {
		return nil, invalid(ErrInvalidDriverID)
	}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	deliveries, err := d.repository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return deliveries, nil
}

func (d *Delivery) ListActive(ctx context.Context) ([]entities.Delivery, error) {
	deliveries, err := d.repository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active deliveries: %w", err)
	}
	return deliveries, nil
}

// decideFunc решает, какой переход применить к текущему состоянию.
// nil без ошибки означает "ничего не менять".
type decideFunc func(current *entities.Delivery) (*entities.DeliveryTransition, error)

type announceFunc func(updated *entities.Delivery) []entities.Event

// transition выполняет чтение, проверку, запись и публикацию под блокировкой доставки,
// поэтому события одной доставки уходят в порядке фиксации переходов.
func (d *Delivery) transition(ctx context.Context, deliveryID string, decide decideFunc, announce announceFunc) (*entities.Delivery, error) {
	if !isValidID(deliveryID) {
		return nil, ErrDeliveryNotFound
	}

	unlock, err := d.locker.Lock(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("lock delivery: %w", err)
	}
	defer unlock()

	var (
		result  *entities.Delivery
		changed bool
	)
	err = d.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := d.repository.GetByID(ctx, deliveryID)
		if err != nil {
			return fmt.Errorf("get delivery: %w", err)
		}

		transition, err := decide(current)
		if err != nil {
			return err
		}
		if transition == nil {
			result = current
			return nil
		}

		transition.At = d.timeFactory.Next(lastChange(current))
		updated, err := d.repository.Transition(ctx, deliveryID, current.Status, *transition)
		if err != nil {
			return fmt.Errorf("transition delivery: %w", err)
		}

		result = updated
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		for _, event := range announce(result) {
			d.publisher.Publish(event)
		}
	}
	return result, nil
}

func announceUpdate(updated *entities.Delivery) []entities.Event {
	return []entities.Event{entities.NewDeliveryUpdated(updated)}
}

func canCancel(current *entities.Delivery, actor entities.Identity) bool {
	if actor.IsAdmin() {
		return true
	}
	driverID, ok := actor.DriverID()
	return ok && current.AssignedTo(driverID)
}

func lastChange(d *entities.Delivery) time.Time {
	latest := d.Timestamps.Latest()
	if d.UpdatedAt.After(latest) {
		return d.UpdatedAt
	}
	return latest
}

func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
