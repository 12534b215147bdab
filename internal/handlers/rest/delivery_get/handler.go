package delivery_get

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
		service: service,
		log:     handlerLog,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, h.log, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	id := mux.Vars(r)["id"]

	deliveryEntity, err := h.service.Get(r.Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrDeliveryNotFound):
			respond.Error(w, h.log, http.StatusNotFound, delivery.ErrDeliveryNotFound.Error())
		case errors.Is(err, delivery.ErrForbidden):
			respond.Error(w, h.log, http.StatusForbidden, delivery.ErrForbidden.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.NewDelivery(*deliveryEntity))
}
