package driver

import "time"

type DriverDB struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DriverModifyDB struct {
	ID    *string
	Name  *string
	Phone *string
	Email *string
}
