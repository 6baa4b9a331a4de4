// Package ws frames and dispatches the signalling protocol over
// gorilla/websocket. It builds no protocol JSON itself — every reply
// and broadcast lives on app.Orchestrator; this package only upgrades
// connections, pumps bytes, and type-switches inbound envelopes onto
// Orchestrator calls.
package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/duskline/walkie/internal/core"
	"github.com/gorilla/websocket"
)

// sendBuffer is the outbound queue depth per connection. A full buffer
// means the peer is too slow; TrySend/SendJSON drop rather than block,
// matching spec.md §5's "if a send would block, the frame is dropped".
const sendBuffer = 64

var errClosed = errors.New("connection closed")

type outbound struct {
	kind    int
	payload []byte
}

// conn implements core.Transport over one websocket connection. Text
// frames carry JSON signalling messages, binary frames carry PCM
// (spec.md §6). Grounded on the teacher's WsSignalConn
// (internal/adapters/signal/signal.go): a buffered send channel drained
// by one writer goroutine, since gorilla/websocket connections are not
// safe for concurrent writers.
type conn struct {
	ws   *websocket.Conn
	send chan outbound

	mu     sync.RWMutex
	closed bool
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{ws: ws, send: make(chan outbound, sendBuffer)}
}

func (c *conn) TrySend(f core.Frame) error {
	return c.enqueue(websocket.BinaryMessage, f)
}

func (c *conn) SendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.enqueue(websocket.TextMessage, b)
}

func (c *conn) enqueue(kind int, payload []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errClosed
	}
	select {
	case c.send <- outbound{kind: kind, payload: payload}:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (c *conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.ws.Close()
}

func (c *conn) writePump() {
	for m := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(m.kind, m.payload); err != nil {
			c.Close()
			return
		}
	}
}
