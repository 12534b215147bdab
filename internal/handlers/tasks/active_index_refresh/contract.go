//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=active_index_refresh_test
package active_index_refresh

import (
	"context"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	ListActive(ctx context.Context) ([]entities.Delivery, error)
}

type Index interface {
	Reconcile(active []entities.Delivery, asOf time.Time) (added, removed int)
}
