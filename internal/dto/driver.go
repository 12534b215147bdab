package dto

import (
	"time"

	"dispatch/internal/entities"
)

type DriverCreate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type DriverUpdate struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type Driver struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d DriverCreate) ToEntity() entities.DriverModify {
	modify := entities.DriverModify{
		Name:  &d.Name,
		Phone: &d.Phone,
	}
	if d.Email != "" {
		modify.Email = &d.Email
	}
	return modify
}

func (d DriverUpdate) ToEntity(id string) entities.DriverModify {
	return entities.DriverModify{
		ID:    &id,
		Name:  d.Name,
		Phone: d.Phone,
		Email: d.Email,
	}
}

func NewDriver(d entities.Driver) Driver {
	return Driver{
		ID:        d.ID,
		Name:      d.Name,
		Phone:     d.Phone,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func NewDrivers(drivers []entities.Driver) []Driver {
	out := make([]Driver, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, NewDriver(d))
	}
	return out
}
