package track_ws

import (
	"errors"
	"net/http"

	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/pkg/wsconn"
	"dispatch/internal/service/tracking"
	"dispatch/pkg/logger"

	"github.com/gorilla/mux"
)

type Handler struct {
	log        handlerLogger
	supervisor Supervisor
	resolver   TokenResolver
	options    wsconn.Options
}

func New(log handlerLogger, supervisor Supervisor, resolver TokenResolver, options wsconn.Options) *Handler {
	handlerLog := log.With(
		logger.NewField("channel", "track"),
	)

	return &Handler{
		log:        handlerLog,
		supervisor: supervisor,
		resolver:   resolver,
		options:    options,
	}
}

// ServeHTTP проверяет токен до upgrade: по неизвестному токену соединение
// не открывается, клиент получает тот же 404, что и в REST.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	deliveryID, err := h.resolver.Resolve(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrInvalidToken):
			respond.Error(w, h.log, http.StatusNotFound, tracking.ErrInvalidToken.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	conn, err := wsconn.Accept(w, r, h.options)
	if err != nil {
		h.log.With(
			logger.NewField("delivery_id", deliveryID),
			logger.NewField("error", err),
		).Warn("websocket upgrade failed")
		return
	}

	h.supervisor.ServeCustomer(r.Context(), conn, token, deliveryID)
}
