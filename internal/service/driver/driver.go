package driver

import (
	"context"
	"fmt"
	"strings"

	"dispatch/internal/entities"
)

type Driver struct {
	repository Repository
	ids        IDGenerator
}

func New(repository Repository, ids IDGenerator) *Driver {
	return &Driver{
		repository: repository,
		ids:        ids,
	}
}

func (s *Driver) CreateDriver(ctx context.Context, driverModify entities.DriverModify) (*entities.Driver, error) {
	if driverModify.Name == nil || driverModify.Phone == nil {
		return nil, validationError(fmt.Errorf("name and phone are required: %w", ErrInvalidName))
	}

	if err := validateModify(driverModify); err != nil {
		return nil, err
	}

	driver := entities.Driver{
		ID:    s.ids.NewID(),
		Name:  strings.TrimSpace(*driverModify.Name),
		Phone: strings.TrimSpace(*driverModify.Phone),
	}
	if driverModify.Email != nil {
		driver.Email = *driverModify.Email
	}

	created, err := s.repository.Create(ctx, driver)
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}

	return created, nil
}

func (s *Driver) UpdateDriver(ctx context.Context, driverModify entities.DriverModify) (*entities.Driver, error) {
	if driverModify.ID == nil || !isValidID(*driverModify.ID) {
		return nil, validationError(ErrInvalidDriverID)
	}

	if driverModify.Name == nil &&
		driverModify.Phone == nil &&
		driverModify.Email == nil {
		return nil, validationError(ErrNoFieldsToUpdate)
	}

	if err := validateModify(driverModify); err != nil {
		return nil, err
	}

	driver, err := s.repository.Update(ctx, driverModify)
	if err != nil {
		return nil, fmt.Errorf("failed to update driver: %w", err)
	}
	return driver, nil
}

func (s *Driver) GetDriver(ctx context.Context, id string) (*entities.Driver, error) {
	if !isValidID(id) {
		// невалидный id не может существовать, отдаем как отсутствующий
		return nil, ErrDriverNotFound
	}

	driver, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return driver, nil
}

func (s *Driver) GetDrivers(ctx context.Context) ([]entities.Driver, error) {
	drivers, err := s.repository.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get drivers: %w", err)
	}

	return drivers, nil
}

func validateModify(m entities.DriverModify) error {
	if m.Name != nil && !isValidName(*m.Name) {
		return validationError(ErrInvalidName)
	}
	if m.Phone != nil && !isValidPhone(*m.Phone) {
		return validationError(ErrInvalidPhone)
	}
	if m.Email != nil && *m.Email != "" && !isValidEmail(*m.Email) {
		return validationError(ErrInvalidEmail)
	}
	return nil
}
