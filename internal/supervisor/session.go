package supervisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"dispatch/internal/broadcast"
	"dispatch/internal/dto"
	"dispatch/internal/entities"
	"dispatch/pkg/logger"
	"dispatch/pkg/token_bucket"

	"golang.org/x/sync/errgroup"
)

const repliesBuffer = 8

var (
	errIdleTimeout   = errors.New("idle timeout")
	errShutdown      = errors.New("server shutdown")
	errSessionClosed = errors.New("subscription closed")
)

type inboundFunc func(ctx context.Context, frame dto.InboundFrame) *dto.Frame

type session struct {
	role      entities.Role
	subject   string
	subscribe func() *broadcast.Subscription
	snapshot  func(ctx context.Context) ([]entities.Event, error)
	inbound   inboundFunc
	filter    *customerFilter
}

func (s *Supervisor) serve(ctx context.Context, conn Conn, sess *session) {
	role := sess.role.String()

	if !s.acquire() {
		_ = conn.Close(CloseGoingAway, ReasonShutdown)
		ConnectionsClosedTotal.WithLabelValues(role, ReasonShutdown).Inc()
		return
	}
	defer s.wg.Done()

	log := s.log.With(
		logger.NewField("role", role),
		logger.NewField("subject", sess.subject),
	)

	ConnectionsOpen.WithLabelValues(role).Inc()
	defer ConnectionsOpen.WithLabelValues(role).Dec()

	sub := sess.subscribe()
	defer sub.Close()

	var (
		once     sync.Once
		decision closeDecision
	)
	// закрытие соединения всегда идет через terminate: первая причина побеждает,
	// а заблокированное чтение завершается вместе с соединением
	terminate := func(code CloseCode, reason string) {
		once.Do(func() {
			decision = closeDecision{code: code, reason: reason}
			_ = conn.Close(code, reason)
		})
	}

	log.Info("connection opened")

	err := s.handshake(ctx, conn, sess)
	if err != nil {
		terminate(CloseInternalError, ReasonSnapshot)
	} else {
		err = s.pump(ctx, conn, sess, sub, terminate)
	}
	terminate(CloseNormal, ReasonPeerClosed)

	ConnectionsClosedTotal.WithLabelValues(role, decision.reason).Inc()
	log.Info("connection closed",
		logger.NewField("close_code", int(decision.code)),
		logger.NewField("close_reason", decision.reason),
		logger.NewField("cause", errorText(err)),
	)
}

func (s *Supervisor) handshake(ctx context.Context, conn Conn, sess *session) error {
	welcome := dto.NewWelcomeFrame(sess.role, s.cfg.HeartbeatInterval, s.cfg.IdleTimeout)
	if err := s.writeFrame(ctx, conn, sess.role, welcome); err != nil {
		return fmt.Errorf("write welcome: %w", err)
	}

	if sess.snapshot == nil {
		return nil
	}

	events, err := sess.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	for _, event := range events {
		if err := s.writeEvent(ctx, conn, sess, event); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	return nil
}

func (s *Supervisor) pump(
	ctx context.Context,
	conn Conn,
	sess *session,
	sub *broadcast.Subscription,
	terminate func(CloseCode, string),
) error {
	g, gctx := errgroup.WithContext(ctx)

	activity := make(chan struct{}, 1)
	replies := make(chan dto.Frame, repliesBuffer)

	// чтение не привязано к отмене группы: его прерывает только закрытие соединения
	readCtx := context.WithoutCancel(ctx)

	g.Go(func() error {
		return s.readLoop(readCtx, conn, sess, activity, replies, terminate)
	})
	g.Go(func() error {
		return s.writeLoop(gctx, conn, sess, sub, replies, terminate)
	})
	g.Go(func() error {
		return s.watchdog(ctx, gctx, activity, terminate)
	})

	return g.Wait()
}

func (s *Supervisor) readLoop(
	ctx context.Context,
	conn Conn,
	sess *session,
	activity chan<- struct{},
	replies chan<- dto.Frame,
	terminate func(CloseCode, string),
) error {
	var limiter *token_bucket.TokenBucket
	if sess.inbound != nil {
		limiter = token_bucket.NewTokenBucket(s.cfg.LocationBurst, s.cfg.LocationRate)
	}

	for {
		data, err := conn.Read(ctx)
		if err != nil {
			terminate(CloseNormal, ReasonPeerClosed)
			return fmt.Errorf("read: %w", err)
		}

		select {
		case activity <- struct{}{}:
		default:
		}

		reply := s.handleInbound(ctx, sess, limiter, data)
		if reply == nil {
			continue
		}
		select {
		case replies <- *reply:
		default:
		}
	}
}

func (s *Supervisor) handleInbound(ctx context.Context, sess *session, limiter *token_bucket.TokenBucket, data []byte) *dto.Frame {
	var frame dto.InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		reply := dto.NewErrorFrame("malformed frame")
		return &reply
	}

	switch frame.Type {
	case dto.FrameHeartbeat:
		return nil
	case dto.FrameLocation:
		if sess.inbound == nil {
			reply := dto.NewErrorFrame("location frames are accepted from drivers only")
			return &reply
		}
		if !limiter.Allow() {
			reply := dto.NewErrorFrame("rate limit exceeded")
			return &reply
		}
		return sess.inbound(ctx, frame)
	default:
		reply := dto.NewErrorFrame("unknown frame type")
		return &reply
	}
}

func (s *Supervisor) writeLoop(
	ctx context.Context,
	conn Conn,
	sess *session,
	sub *broadcast.Subscription,
	replies <-chan dto.Frame,
	terminate func(CloseCode, string),
) error {
	heartbeat := time.NewTicker(s.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	// запись идет под собственным тайм-аутом, отмена группы ее не обрывает
	writeCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-sub.Done():
			if errors.Is(sub.Err(), broadcast.ErrReplaced) {
				terminate(CloseSessionReplaced, ReasonReplaced)
			} else {
				terminate(CloseGoingAway, ReasonShutdown)
			}
			return errSessionClosed

		case <-sub.Ready():
			for _, event := range sub.Drain() {
				if err := s.writeEvent(writeCtx, conn, sess, event); err != nil {
					terminate(CloseInternalError, ReasonWriteFailed)
					return err
				}
			}
			heartbeat.Reset(s.cfg.HeartbeatInterval)

		case reply := <-replies:
			if err := s.writeFrame(writeCtx, conn, sess.role, reply); err != nil {
				terminate(CloseInternalError, ReasonWriteFailed)
				return err
			}

		case <-heartbeat.C:
			if err := s.writeFrame(writeCtx, conn, sess.role, dto.NewHeartbeatFrame(s.now().UTC())); err != nil {
				terminate(CloseInternalError, ReasonWriteFailed)
				return err
			}
		}
	}
}

func (s *Supervisor) watchdog(
	parent context.Context,
	ctx context.Context,
	activity <-chan struct{},
	terminate func(CloseCode, string),
) error {
	idle := time.NewTimer(s.cfg.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-activity:
			idle.Reset(s.cfg.IdleTimeout)

		case <-idle.C:
			terminate(ClosePolicyViolation, ReasonIdleTimeout)
			return errIdleTimeout

		case <-s.shutdown:
			terminate(CloseGoingAway, ReasonShutdown)
			return errShutdown

		case <-ctx.Done():
			if parent.Err() != nil {
				terminate(CloseGoingAway, ReasonShutdown)
			}
			return nil
		}
	}
}

func (s *Supervisor) writeEvent(ctx context.Context, conn Conn, sess *session, event entities.Event) error {
	if sess.filter != nil && !sess.filter.allow(event) {
		return nil
	}
	frame, ok := dto.NewEventFrame(event, sess.role)
	if !ok {
		return nil
	}
	return s.writeFrame(ctx, conn, sess.role, frame)
}

func (s *Supervisor) writeFrame(ctx context.Context, conn Conn, role entities.Role, frame dto.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", frame.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	if err := conn.Write(ctx, data); err != nil {
		return fmt.Errorf("write %s frame: %w", frame.Type, err)
	}
	FramesSentTotal.WithLabelValues(role.String(), frame.Type).Inc()
	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
