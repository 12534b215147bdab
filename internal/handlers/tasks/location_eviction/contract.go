//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=location_eviction_test
package location_eviction

import (
	"time"

	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Store interface {
	EvictStale(now time.Time) int
}
