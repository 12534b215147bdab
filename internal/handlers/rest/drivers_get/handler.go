package drivers_get

import (
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.service.GetDrivers(r.Context())
	if err != nil {
		respond.Internal(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.NewDrivers(drivers))
}
