package respond

import (
	"encoding/json"
	"net/http"

	"dispatch/internal/dto"
	"dispatch/pkg/logger"
)

type errorLogger interface {
	With(fields ...logger.Field) logger.Logger
}

func JSON(w http.ResponseWriter, log errorLogger, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}

func Error(w http.ResponseWriter, log errorLogger, code int, msg string) {
	JSON(w, log, code, dto.Error{Error: msg})
}

// Internal пишет причину в лог, клиенту уходит обезличенное сообщение.
func Internal(w http.ResponseWriter, log errorLogger, err error) {
	log.With(
		logger.NewField("error", err),
	).Error("request failed")
	Error(w, log, http.StatusInternalServerError, "internal error")
}

func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
