package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/repository"
	"dispatch/internal/service/delivery"
	"dispatch/internal/service/driver"
	"dispatch/internal/service/tracking"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var returning = "RETURNING " + strings.Join(deliveryColumns, ", ")

var activeStatuses = []string{
	entities.StatusAssigned.String(),
	entities.StatusPickedUp.String(),
	entities.StatusInTransit.String(),
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, d entities.Delivery) (*entities.Delivery, error) {
	model := FromDomain(&d)

	query, args, err := qb.
		Insert("deliveries").
		Columns(
			"id",
			"customer_name",
			"customer_phone",
			"customer_email",
			"pickup_address",
			"pickup_lat",
			"pickup_lng",
			"dropoff_address",
			"dropoff_lat",
			"dropoff_lng",
			"notes",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			model.ID,
			model.CustomerName,
			model.CustomerPhone,
			model.CustomerEmail,
			model.PickupAddress,
			model.PickupLat,
			model.PickupLng,
			model.DropoffAddress,
			model.DropoffLat,
			model.DropoffLng,
			model.Notes,
			model.Status,
			model.CreatedAt,
			model.UpdatedAt,
		).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	var created DeliveryDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(created.fields()...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository create error: %w", err)
	}

	return ToDomain(&created), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Delivery, error) {
	query, args, err := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository getbyid error: %w", err)
	}

	var model DeliveryDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(model.fields()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrDeliveryNotFound
		}
		return nil, fmt.Errorf("unexpected delivery repository getbyid error: %w", err)
	}

	return ToDomain(&model), nil
}

func (r *Repository) List(ctx context.Context, filter entities.DeliveryFilter) ([]entities.Delivery, error) {
	builder := qb.
		Select(deliveryColumns...).
		From("deliveries").
		OrderBy("created_at DESC", "id")

	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.DriverID != nil {
		builder = builder.Where(sq.Eq{"driver_id": *filter.DriverID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository list error: %w", err)
	}

	deliveries, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository list error: %w", err)
	}
	return deliveries, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]entities.Delivery, error) {
	query, args, err := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"status": activeStatuses}).
		OrderBy("driver_id", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository listactive error: %w", err)
	}

	deliveries, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository listactive error: %w", err)
	}
	return deliveries, nil
}

func (r *Repository) Transition(
	ctx context.Context,
	id string,
	from entities.DeliveryStatus,
	transition entities.DeliveryTransition,
) (*entities.Delivery, error) {
	column, ok := statusColumn(transition.To)
	if !ok {
		return nil, delivery.ErrInvalidTransition
	}

	builder := qb.
		Update("deliveries").
		Set("status", transition.To.String()).
		Set(column, transition.At).
		Set("updated_at", transition.At)

	if transition.DriverID != nil {
		builder = builder.Set("driver_id", *transition.DriverID)
	}

	// guard по статусу: конкурентный писатель с устаревшим from не пройдет
	query, args, err := builder.
		Where(sq.Eq{"id": id, "status": from.String()}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository transition error: %w", err)
	}

	var model DeliveryDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(model.fields()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionMiss(ctx, id)
		}
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return nil, driver.ErrDriverNotFound
		}
		if repository.IsPgErrorWithCode(err, repository.PgErrCheckViolation) {
			return nil, delivery.ErrInvalidTransition
		}
		return nil, fmt.Errorf("unexpected delivery repository transition error: %w", err)
	}

	return ToDomain(&model), nil
}

// transitionMiss отличает отсутствующую доставку от устаревшего статуса.
func (r *Repository) transitionMiss(ctx context.Context, id string) error {
	var exists bool
	err := r.querier.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM deliveries WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("unexpected delivery repository transition error: %w", err)
	}
	if !exists {
		return delivery.ErrDeliveryNotFound
	}
	return delivery.ErrInvalidTransition
}

func (r *Repository) AttachRoute(ctx context.Context, id string, payload json.RawMessage, at time.Time) error {
	query := `
		UPDATE deliveries
		SET route = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id, []byte(payload), at)
	if err != nil {
		return fmt.Errorf("unexpected delivery repository attach route error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return delivery.ErrDeliveryNotFound
	}
	return nil
}

func (r *Repository) SetTrackingToken(ctx context.Context, deliveryID, candidate string) (string, error) {
	query := `
		UPDATE deliveries
		SET tracking_token = COALESCE(tracking_token, $2)
		WHERE id = $1
		RETURNING tracking_token
	`

	var token string
	err := r.querier.QueryRow(ctx, query, deliveryID, candidate).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", delivery.ErrDeliveryNotFound
		}
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return "", tracking.ErrTokenCollision
		}
		return "", fmt.Errorf("unexpected delivery repository set tracking token error: %w", err)
	}

	return token, nil
}

func (r *Repository) GetByTrackingToken(ctx context.Context, token string) (*entities.Delivery, error) {
	query, args, err := qb.
		Select(deliveryColumns...).
		From("deliveries").
		Where(sq.Eq{"tracking_token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected delivery repository get by tracking token error: %w", err)
	}

	var model DeliveryDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(model.fields()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrInvalidToken
		}
		return nil, fmt.Errorf("unexpected delivery repository get by tracking token error: %w", err)
	}

	return ToDomain(&model), nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]entities.Delivery, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	models := make([]DeliveryDB, 0, 16)
	for rows.Next() {
		var model DeliveryDB
		if err := rows.Scan(model.fields()...); err != nil {
			return nil, err
		}
		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ToDomainList(models), nil
}
