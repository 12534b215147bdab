package driver_ws

import (
	"net/http"

	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/pkg/middlewares/auth"
	"dispatch/internal/pkg/wsconn"
	"dispatch/pkg/logger"
)

type Handler struct {
	log        handlerLogger
	supervisor Supervisor
	options    wsconn.Options
}

func New(log handlerLogger, supervisor Supervisor, options wsconn.Options) *Handler {
	handlerLog := log.With(
		logger.NewField("channel", "driver"),
	)

	return &Handler{
		log:        handlerLog,
		supervisor: supervisor,
		options:    options,
	}
}

// ServeHTTP подключает водителя. id водителя берется только из токена,
// поэтому подписаться на чужой канал нельзя.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	driverID, ok := actor.DriverID()
	if !ok {
		respond.Error(w, h.log, http.StatusForbidden, "driver access required")
		return
	}

	conn, err := wsconn.Accept(w, r, h.options)
	if err != nil {
		h.log.With(
			logger.NewField("driver_id", driverID),
			logger.NewField("error", err),
		).Warn("websocket upgrade failed")
		return
	}

	h.supervisor.ServeDriver(r.Context(), conn, driverID)
}
