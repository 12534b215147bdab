package wsconn

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dispatch/internal/supervisor"

	"github.com/coder/websocket"
)

const defaultReadLimit = 16 << 10

var ErrBinaryMessage = errors.New("binary messages are not supported")

type Options struct {
	// OriginPatterns - допустимые Origin для кросс-доменного подключения.
	// Пустой список разрешает только same-origin.
	OriginPatterns []string
	ReadLimit      int64
}

// Conn адаптирует websocket.Conn к supervisor.Conn: сообщения только текстовые, целиком.
type Conn struct {
	conn *websocket.Conn
}

// Accept выполняет upgrade. При ошибке ответ клиенту уже записан.
func Accept(w http.ResponseWriter, r *http.Request, opts Options) (*Conn, error) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: opts.OriginPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("websocket accept: %w", err)
	}

	limit := opts.ReadLimit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	conn.SetReadLimit(limit)

	return &Conn{conn: conn}, nil
}

func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	typ, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	if typ != websocket.MessageText {
		return nil, ErrBinaryMessage
	}
	return data, nil
}

func (c *Conn) Write(ctx context.Context, data []byte) error {
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *Conn) Close(code supervisor.CloseCode, reason string) error {
	return c.conn.Close(websocket.StatusCode(code), reason)
}
