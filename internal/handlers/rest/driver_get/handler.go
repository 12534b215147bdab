package driver_get

import (
	"errors"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/service/driver"

	"github.com/gorilla/mux"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		service: service,
		log:     handlerLog,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	driverEntity, err := h.service.GetDriver(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		switch {
		case errors.Is(err, driver.ErrDriverNotFound):
			respond.Error(w, h.log, http.StatusNotFound, driver.ErrDriverNotFound.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.NewDriver(*driverEntity))
}
