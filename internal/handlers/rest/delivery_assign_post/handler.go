package delivery_assign_post

import (
	"errors"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/service/delivery"
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
	var deliveryAssignDTO dto.DeliveryAssignRequest
	err := respond.Decode(r, &deliveryAssignDTO)
	if err != nil {
		respond.Error(w, h.log, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if deliveryAssignDTO.DriverID == "" {
		respond.Error(w, h.log, http.StatusBadRequest, "driver_id is required")
		return
	}

	deliveryEntity, err := h.service.Assign(r.Context(), mux.Vars(r)["id"], deliveryAssignDTO.DriverID)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrDeliveryNotFound):
			respond.Error(w, h.log, http.StatusNotFound, delivery.ErrDeliveryNotFound.Error())
		case errors.Is(err, driver.ErrDriverNotFound):
			respond.Error(w, h.log, http.StatusNotFound, driver.ErrDriverNotFound.Error())
		case errors.Is(err, delivery.ErrInvalidTransition):
			respond.Error(w, h.log, http.StatusConflict, err.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.NewDelivery(*deliveryEntity))
}
