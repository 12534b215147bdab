package deliveries_post

import (
	"errors"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/service/delivery"
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
	var createDTO dto.DeliveryCreate
	err := respond.Decode(r, &createDTO)
	if err != nil {
		respond.Error(w, h.log, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.service.Create(r.Context(), createDTO.ToEntity())
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrValidation):
			respond.Error(w, h.log, http.StatusBadRequest, err.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusCreated, dto.NewDelivery(*created))
}
