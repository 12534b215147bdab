package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"dispatch/internal/dto"
	"dispatch/pkg/logger"
	"dispatch/pkg/wsclient"

	"github.com/AlekSi/pointer"
	"golang.org/x/sync/errgroup"
)

const defaultHeartbeat = 15 * time.Second

var errUnexpectedFrame = errors.New("unexpected first frame")

type driver struct {
	id       string
	log      logger.Logger
	interval time.Duration
	walker   *walker
}

func newDriver(log logger.Logger, id string, interval time.Duration, lat, lng float64) *driver {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))

	return &driver{
		id:       id,
		log:      log.With(logger.NewField("driver", id)),
		interval: interval,
		walker:   newWalker(lat, lng, h.Sum64()),
	}
}

// session обслуживает одно соединение: ждет welcome, затем шлет позиции и
// heartbeat, параллельно вычитывая кадры сервера.
func (d *driver) session(ctx context.Context, conn *wsclient.Conn) error {
	started := time.Now()
	defer func() {
		sessionDuration.Observe(time.Since(started).Seconds())
	}()

	var welcome dto.Frame
	if err := conn.ReadJSON(ctx, &welcome); err != nil {
		return fmt.Errorf("read welcome: %w", err)
	}
	if welcome.Type != dto.FrameWelcome {
		return fmt.Errorf("%w: %q", errUnexpectedFrame, welcome.Type)
	}
	framesReceivedTotal.WithLabelValues(welcome.Type).Inc()

	heartbeat := time.Duration(welcome.HeartbeatIntervalSeconds * float64(time.Second))
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	d.log.With(
		logger.NewField("heartbeat", heartbeat),
	).Info("driver session established")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			var frame dto.Frame
			if err := conn.ReadJSON(gctx, &frame); err != nil {
				return err
			}
			framesReceivedTotal.WithLabelValues(frame.Type).Inc()
		}
	})

	g.Go(func() error {
		samples := time.NewTicker(d.interval)
		defer samples.Stop()
		beats := time.NewTicker(heartbeat)
		defer beats.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-beats.C:
				if err := conn.WriteJSON(gctx, dto.InboundFrame{Type: dto.FrameHeartbeat}); err != nil {
					return fmt.Errorf("write heartbeat: %w", err)
				}
			case <-samples.C:
				if err := conn.WriteJSON(gctx, d.nextSample()); err != nil {
					return fmt.Errorf("write location: %w", err)
				}
				samplesSentTotal.WithLabelValues(d.id).Inc()
			}
		}
	})

	return g.Wait()
}

func (d *driver) nextSample() dto.InboundFrame {
	d.walker.step(d.interval)
	now := time.Now().UTC()

	return dto.InboundFrame{
		Type: dto.FrameLocation,
		LocationUpdate: dto.LocationUpdate{
			Lat:       pointer.To(d.walker.lat),
			Lng:       pointer.To(d.walker.lng),
			Heading:   pointer.To(d.walker.heading),
			Speed:     pointer.To(d.walker.speed),
			Timestamp: &now,
		},
	}
}
