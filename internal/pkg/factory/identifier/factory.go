package identifier

import "github.com/google/uuid"

type UUIDFactory struct{}

func New() *UUIDFactory {
	return &UUIDFactory{}
}

func (UUIDFactory) NewID() string {
	return uuid.NewString()
}
