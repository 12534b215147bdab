package track_get

import (
	"errors"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/internal/handlers/rest/respond"
	"dispatch/internal/service/tracking"

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

// ServeHTTP - публичный эндпоинт. Неизвестный и испорченный токен
// неотличимы по ответу.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrInvalidToken):
			respond.Error(w, h.log, http.StatusNotFound, tracking.ErrInvalidToken.Error())
		default:
			respond.Internal(w, h.log, err)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respond.JSON(w, h.log, http.StatusOK, dto.NewTrackingView(*view))
}
