package location_post

import (
	"errors"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/pkg/middlewares/auth"
	"dispatch/internal/service/location"
	"dispatch/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
	limiter Limiter
}

func New(log handlerLogger, service Service, limiter Limiter) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
		limiter: limiter,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	driverID, ok := actor.DriverID()
	if !ok {
		respond.Error(w, h.log, http.StatusForbidden, "location updates are accepted from drivers only")
		return
	}

	if !h.limiter.Allow(driverID) {
		h.log.With(
			logger.NewField("driver_id", driverID),
		).Debug("location update throttled")
		respond.Error(w, h.log, http.StatusTooManyRequests, "too many location updates")
		return
	}

	var updateDTO dto.LocationUpdate
	err := respond.Decode(r, &updateDTO)
	if err != nil {
		respond.Error(w, h.log, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sample, ok := updateDTO.ToEntity(driverID)
	if !ok {
		respond.Error(w, h.log, http.StatusBadRequest, "lat and lng are required")
		return
	}

	applied, err := h.service.Update(r.Context(), sample)
	if err != nil {
		switch {
		case errors.Is(err, location.ErrInvalidSample):
			respond.Error(w, h.log, http.StatusBadRequest, err.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.LocationUpdateResponse{Applied: applied})
}
