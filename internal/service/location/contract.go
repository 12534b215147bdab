//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=location_test
package location

import (
	"dispatch/internal/entities"
)

type Publisher interface {
	Publish(event entities.Event)
}
