package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harunnryd/scriba/pkg/errorsx"
)

// wsEmitter serializes writes to one websocket connection; the
// background loop and the finalizing goroutine both emit through it.
type wsEmitter struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	timeout time.Duration
}

func newWSEmitter(conn *websocket.Conn, timeout time.Duration) *wsEmitter {
	return &wsEmitter{conn: conn, timeout: timeout}
}

func (e *wsEmitter) EmitPartial(text string) error {
	return e.send(resultMessage{Type: messagePartial, Text: text})
}

func (e *wsEmitter) EmitFinal(text string) error {
	return e.send(resultMessage{Type: messageFinal, Text: text})
}

func (e *wsEmitter) send(msg resultMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.conn.SetWriteDeadline(time.Now().Add(e.timeout))
	return errorsx.Wrap(e.conn.WriteJSON(msg), errorsx.ReasonTransportSend)
}
