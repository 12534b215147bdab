package delivery_advance_post

import (
	"errors"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/pkg/middlewares/auth"
	"dispatch/internal/service/delivery"

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

// ServeHTTP продвигает доставку по цепочке от имени водителя из токена.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	driverID, ok := actor.DriverID()
	if !ok {
		respond.Error(w, h.log, http.StatusForbidden, delivery.ErrForbidden.Error())
		return
	}

	var advanceDTO dto.DeliveryAdvanceRequest
	err := respond.Decode(r, &advanceDTO)
	if err != nil {
		respond.Error(w, h.log, http.StatusBadRequest, "invalid JSON body")
		return
	}

	target, err := delivery.ParseStatus(advanceDTO.Status)
	if err != nil {
		respond.Error(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	deliveryEntity, err := h.service.Advance(r.Context(), mux.Vars(r)["id"], driverID, target)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrDeliveryNotFound):
			respond.Error(w, h.log, http.StatusNotFound, delivery.ErrDeliveryNotFound.Error())
		case errors.Is(err, delivery.ErrForbidden):
			respond.Error(w, h.log, http.StatusForbidden, delivery.ErrForbidden.Error())
		case errors.Is(err, delivery.ErrInvalidTransition):
			respond.Error(w, h.log, http.StatusConflict, err.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.NewDelivery(*deliveryEntity))
}
