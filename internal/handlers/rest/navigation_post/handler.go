package navigation_post

import (
	"errors"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/pkg/middlewares/auth"
	"dispatch/internal/service/delivery"
	"dispatch/internal/service/navigation"
	"dispatch/pkg/logger"

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
	actor, _ := auth.FromContext(r.Context())
	driverID, ok := actor.DriverID()
	if !ok {
		respond.Error(w, h.log, http.StatusForbidden, navigation.ErrForbidden.Error())
		return
	}

	deliveryID := mux.Vars(r)["id"]

	plan, err := h.service.Start(r.Context(), deliveryID, driverID)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrDeliveryNotFound):
			respond.Error(w, h.log, http.StatusNotFound, delivery.ErrDeliveryNotFound.Error())
		case errors.Is(err, navigation.ErrForbidden):
			respond.Error(w, h.log, http.StatusForbidden, navigation.ErrForbidden.Error())
		case errors.Is(err, navigation.ErrDeliveryNotActive):
			respond.Error(w, h.log, http.StatusConflict, err.Error())
		case errors.Is(err, navigation.ErrRouteUnavailable):
			h.log.With(
				logger.NewField("delivery_id", deliveryID),
				logger.NewField("error", err),
			).Warn("route unavailable")
			respond.Error(w, h.log, http.StatusServiceUnavailable, navigation.ErrRouteUnavailable.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.NewNavigationResponse(deliveryID, *plan))
}
