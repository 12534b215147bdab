package driver_post

import (
	"errors"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/service/driver"
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
	var driverDTO dto.DriverCreate
	err := respond.Decode(r, &driverDTO)
	if err != nil {
		respond.Error(w, h.log, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.service.CreateDriver(r.Context(), driverDTO.ToEntity())
	if err != nil {
		switch {
		case errors.Is(err, driver.ErrValidation):
			respond.Error(w, h.log, http.StatusBadRequest, err.Error())
		case errors.Is(err, driver.ErrConflict):
			respond.Error(w, h.log, http.StatusConflict, driver.ErrConflict.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusCreated, dto.NewDriver(*created))
}
