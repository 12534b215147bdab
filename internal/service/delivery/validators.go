package delivery

import (
	"fmt"
	"net/mail"
	"strings"

	"dispatch/internal/entities"
)

func validateCreate(c entities.DeliveryCreate) error {
	if strings.TrimSpace(c.Customer.Name) == "" {
		return invalid(ErrMissingCustomer)
	}
	if strings.TrimSpace(c.Customer.Phone) == "" && strings.TrimSpace(c.Customer.Email) == "" {
		return invalid(ErrMissingContact)
	}
	if c.Customer.Email != "" {
		if _, err := mail.ParseAddress(c.Customer.Email); err != nil {
			return invalid(fmt.Errorf("customer email: %w", err))
		}
	}
	if strings.TrimSpace(c.Pickup.Text) == "" || strings.TrimSpace(c.Dropoff.Text) == "" {
		return invalid(ErrMissingAddress)
	}
	for _, addr := range []entities.Address{c.Pickup, c.Dropoff} {
		if addr.Coordinates != nil && !addr.Coordinates.Valid() {
			return invalid(ErrInvalidCoordinate)
		}
	}
	return nil
}

// ParseStatus разбирает целевой статус из запроса. Неизвестное значение - ошибка валидации,
// а не недопустимый переход: вызывающий прислал мусор.
func ParseStatus(s string) (entities.DeliveryStatus, error) {
	status, ok := entities.ParseDeliveryStatus(s)
	if !ok {
		return "", invalid(fmt.Errorf("%w: %q", ErrInvalidStatus, s))
	}
	return status, nil
}

func invalid(cause error) error {
	return fmt.Errorf("%w: %w", ErrValidation, cause)
}
