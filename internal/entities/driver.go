package entities

import "time"

type Driver struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DriverModify struct {
	ID    *string
	Name  *string
	Phone *string
	Email *string
}
