package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// WS writes events as JSON frames over one websocket connection. The connection
// is dialed lazily and redialed on the next publish after a failed write.
type WS struct {
	url     string
	timeout time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func NewWS(url string, timeout time.Duration) *WS {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WS{url: strings.TrimSpace(url), timeout: timeout}
}

func (w *WS) Publish(ctx context.Context, ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("ws publisher closed")
	}
	dctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if w.conn == nil {
		conn, _, err := websocket.Dial(dctx, w.url, &websocket.DialOptions{
			CompressionMode: websocket.CompressionNoContextTakeover,
		})
		if err != nil {
			return err
		}
		// the hub never writes back; CloseRead answers control frames
		conn.CloseRead(context.Background())
		w.conn = conn
	}
	if err := wsjson.Write(dctx, w.conn, ev); err != nil {
		_ = w.conn.Close(websocket.StatusGoingAway, "write failure")
		w.conn = nil
		return err
	}
	return nil
}

func (w *WS) Close(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close(websocket.StatusNormalClosure, "close")
	w.conn = nil
	return err
}
