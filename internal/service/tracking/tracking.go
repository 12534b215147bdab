package tracking

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/entities"
	"dispatch/internal/service/delivery"

	"github.com/google/uuid"
)

const maxIssueAttempts = 3

type Tracking struct {
	repository Repository
	locations  LocationReader
	tokens     TokenSource
}

func New(repository Repository, locations LocationReader, tokens TokenSource) *Tracking {
	return &Tracking{
		repository: repository,
		locations:  locations,
		tokens:     tokens,
	}
}

// Issue выдает токен доставки. Повторный вызов возвращает уже выданный токен.
func (s *Tracking) Issue(ctx context.Context, deliveryID string) (string, error) {
	if _, err := uuid.Parse(deliveryID); err != nil {
		return "", delivery.ErrDeliveryNotFound
	}

	var lastErr error
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		candidate, err := s.tokens.NewToken()
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}

		token, err := s.repository.SetTrackingToken(ctx, deliveryID, candidate)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrTokenCollision) {
			return "", fmt.Errorf("store token: %w", err)
		}
		lastErr = err
	}
	return "", fmt.Errorf("issue token after %d attempts: %w", maxIssueAttempts, lastErr)
}

// Resolve возвращает id доставки по токену. Любая неудача - ErrInvalidToken
// без подробностей, чтобы по ответу нельзя было перебирать доставки.
func (s *Tracking) Resolve(ctx context.Context, token string) (string, error) {
	d, err := s.lookup(ctx, token)
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

// View - публичное представление доставки для держателя токена.
// Локация водителя включается только пока доставка активна.
func (s *Tracking) View(ctx context.Context, token string) (*entities.TrackingView, error) {
	d, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	view := &entities.TrackingView{
		Status:     d.Status,
		Pickup:     d.Pickup,
		Dropoff:    d.Dropoff,
		Timestamps: d.Timestamps,
	}

	if d.Status.IsActive() && d.DriverID != nil {
		if sample, ok := s.locations.Get(*d.DriverID); ok {
			sample.DriverID = ""
			view.Location = &sample
		}
	}
	return view, nil
}

func (s *Tracking) lookup(ctx context.Context, token string) (*entities.Delivery, error) {
	if !wellFormed(token) {
		return nil, ErrInvalidToken
	}

	d, err := s.repository.GetByTrackingToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	return d, nil
}
