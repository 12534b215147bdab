package admin_ws

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
		logger.NewField("channel", "admin"),
	)

	return &Handler{
		log:        handlerLog,
		supervisor: supervisor,
		options:    options,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok || !actor.IsAdmin() {
		respond.Error(w, h.log, http.StatusForbidden, "admin access required")
		return
	}

	conn, err := wsconn.Accept(w, r, h.options)
	if err != nil {
		h.log.With(
			logger.NewField("remote_addr", r.RemoteAddr),
			logger.NewField("error", err),
		).Warn("websocket upgrade failed")
		return
	}

	// контекст запроса живет, пока supervisor обслуживает соединение
	h.supervisor.ServeAdmin(r.Context(), conn, actor.Subject)
}
