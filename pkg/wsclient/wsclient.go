// Package wsclient - клиент WebSocket с переподключением. Политика повторов
// целиком на стороне клиента: сервер не хранит состояние между соединениями,
// поэтому каждая попытка проходит рукопожатие заново.
package wsclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dispatch/pkg/logger"
	"dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"

	"github.com/cenkalti/backoff/v4"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// StatusSessionReplaced - сервер закрыл сессию, потому что тот же водитель
// подключился заново. Переподключаться в ответ нельзя: сессии начнут вытеснять друг друга.
const StatusSessionReplaced websocket.StatusCode = 4001

var (
	ErrSessionReplaced = errors.New("session replaced by a newer connection")
	ErrRejected        = errors.New("handshake rejected")
	ErrExhausted       = errors.New("reconnect attempts exhausted")
)

// DefaultRetry: начальная задержка 3s, потолок 30s, джиттер 0.5, без ограничения по времени.
func DefaultRetry() retrier.Config {
	return retrier.Config{
		InitialInterval: 3 * time.Second,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  0,
		Randomization:   0.5,
		Multiplier:      2,
	}
}

type Options struct {
	URL    string
	Header http.Header
	Retry  retrier.Config
	// OnReconnect вызывается перед ожиданием очередной попытки.
	OnReconnect func(attempt uint64, delay time.Duration, cause error)
}

// Handler работает с одним установленным соединением. nil означает штатное
// завершение и останавливает Run; ошибка означает обрыв и ведет к переподключению.
type Handler func(ctx context.Context, conn *Conn) error

type Client struct {
	log     logger.Logger
	opts    Options
	retrier *backoff_adapter.Retrier
}

func New(log logger.Logger, opts Options) *Client {
	if opts.Retry.InitialInterval == 0 {
		opts.Retry = DefaultRetry()
	}
	return &Client{
		log: log.With(
			logger.NewField("url", opts.URL),
		),
		opts:    opts,
		retrier: backoff_adapter.New(opts.Retry),
	}
}

// Run подключается и переподключается до отмены ctx, штатного завершения
// handler или неустранимой ошибки.
func (c *Client) Run(ctx context.Context, handler Handler) error {
	policy := c.retrier.NewBackOff(ctx)

	var attempt uint64
	for {
		attempt++

		connected, err := c.session(ctx, handler)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSessionReplaced) || errors.Is(err, ErrRejected) {
			c.log.With(
				logger.NewField("error", err),
			).Warn("websocket session ended permanently")
			return err
		}

		if connected {
			// соединение было установлено: следующая серия попыток начинается заново
			policy.Reset()
			attempt = 1
		}

		delay := policy.NextBackOff()
		if delay == backoff.Stop {
			return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
		}

		c.log.With(
			logger.NewField("attempt", attempt),
			logger.NewField("delay", delay),
			logger.NewField("error", err),
		).Info("websocket reconnect scheduled")
		if c.opts.OnReconnect != nil {
			c.opts.OnReconnect(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (c *Client) session(ctx context.Context, handler Handler) (bool, error) {
	ws, resp, err := websocket.Dial(ctx, c.opts.URL, &websocket.DialOptions{
		HTTPHeader: c.opts.Header,
	})
	if err != nil {
		if resp != nil && rejected(resp.StatusCode) {
			return false, fmt.Errorf("%w: http status %d", ErrRejected, resp.StatusCode)
		}
		return false, fmt.Errorf("dial: %w", err)
	}
	defer ws.CloseNow()

	c.log.Debug("websocket connected")

	err = handler(ctx, &Conn{ws: ws})
	if err == nil {
		_ = ws.Close(websocket.StatusNormalClosure, "")
		return true, nil
	}
	if websocket.CloseStatus(err) == StatusSessionReplaced {
		return true, fmt.Errorf("%w: %w", ErrSessionReplaced, err)
	}
	return true, err
}

func rejected(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}

// Conn - установленное соединение с JSON-кадрами.
type Conn struct {
	ws *websocket.Conn
}

func (c *Conn) ReadJSON(ctx context.Context, v any) error {
	return wsjson.Read(ctx, c.ws, v)
}

func (c *Conn) WriteJSON(ctx context.Context, v any) error {
	return wsjson.Write(ctx, c.ws, v)
}

// CloseStatus возвращает код закрытия из ошибки чтения или записи, либо -1.
func CloseStatus(err error) websocket.StatusCode {
	return websocket.CloseStatus(err)
}
