package driver_put

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
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var driverDTO dto.DriverUpdate
	err := respond.Decode(r, &driverDTO)
	if err != nil {
		respond.Error(w, h.log, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := h.service.UpdateDriver(r.Context(), driverDTO.ToEntity(mux.Vars(r)["id"]))
	if err != nil {
		switch {
		case errors.Is(err, driver.ErrValidation):
			respond.Error(w, h.log, http.StatusBadRequest, err.Error())
		case errors.Is(err, driver.ErrDriverNotFound):
			respond.Error(w, h.log, http.StatusNotFound, driver.ErrDriverNotFound.Error())
		case errors.Is(err, driver.ErrConflict):
			respond.Error(w, h.log, http.StatusConflict, driver.ErrConflict.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.NewDriver(*updated))
}
