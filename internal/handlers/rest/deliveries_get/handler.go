package deliveries_get

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"dispatch/internal/dto"
	"dispatch/internal/entities"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/pkg/middlewares/auth"
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
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, h.log, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return
	}

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		respond.Error(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	deliveries, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrValidation):
			respond.Error(w, h.log, http.StatusBadRequest, err.Error())
		case errors.Is(err, delivery.ErrForbidden):
			respond.Error(w, h.log, http.StatusForbidden, err.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.NewDeliveries(deliveries))
}

func parseFilter(query url.Values) (entities.DeliveryFilter, error) {
	var filter entities.DeliveryFilter

	if s := query.Get("status"); s != "" {
		status, err := delivery.ParseStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if driverID := query.Get("driver_id"); driverID != "" {
		filter.DriverID = &driverID
	}

	var err error
	if filter.Limit, err = parseUint(query, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = parseUint(query, "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseUint(query url.Values, key string) (uint64, error) {
	s := query.Get(key)
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key + " parameter")
	}
	return v, nil
}
