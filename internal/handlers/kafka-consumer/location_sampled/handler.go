package location_sampled

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dispatch/internal/dto"
	"dispatch/internal/service/location"
	"dispatch/pkg/logger"

	"github.com/IBM/sarama"
)

// sampledEvent - сообщение топика с позициями: водитель плюс те же поля,
// что принимает POST /locations.
type sampledEvent struct {
	DriverID string `json:"driver_id"`
	dto.LocationUpdate
}

type Handler struct {
	locationService          Service
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, locationService Service, timeout time.Duration) *Handler {
	handlerLog := log.With(
		logger.NewField("consumer", "location.sampled"),
	)

	return &Handler{
		locationService:          locationService,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("location.sampled: claim messages closed, exiting ConsumeClaim")
				return nil
			}

			if h.messageProcessing(sess, message) {
				return nil
			}

		case <-sess.Context().Done():
			// rebalance или остановка группы
			h.log.Info("location.sampled: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing возвращает true, если ConsumeClaim нужно прервать:
// контекст отменен и сообщение останется неподтвержденным.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var event sampledEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		).Error("location.sampled handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("driver", event.DriverID),
		logger.NewField("offset", message.Offset),
	)

	sample, ok := event.ToEntity(event.DriverID)
	if !ok {
		msgLog.Warn("location.sampled handler message without coordinates")
		sess.MarkMessage(message, "")
		return false
	}

	applied, err := h.locationService.Update(ctx, sample)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("location.sampled handler context cancelled, message will be reprocessed")
			return true

		case errors.Is(err, location.ErrInvalidSample):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("location.sampled handler invalid sample")

		default:
			msgLog.With(
				logger.NewField("error", err),
			).Error("location.sampled handler failed to apply sample")
		}
		sess.MarkMessage(message, "")
		return false
	}

	if !applied {
		msgLog.Debug("location.sampled: stale sample ignored")
	}

	sess.MarkMessage(message, "")
	return false
}
