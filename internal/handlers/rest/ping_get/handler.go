package ping_get

import (
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
)

type Handler struct {
	log handlerLogger
}

func New(log handlerLogger) *Handler {
	handlerLog := log.With()

	return &Handler{
		log: handlerLog,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, h.log, http.StatusOK, dto.PingResponse{Message: "pong"})
}
