package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// connWrapper serializes writes; gorilla connections allow one concurrent writer.
type connWrapper struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

func newConnWrapper(c *websocket.Conn) *connWrapper {
	return &connWrapper{conn: c}
}

func (w *connWrapper) WriteJSON(v any, deadline time.Time) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	_ = w.conn.SetWriteDeadline(deadline)
	return w.conn.WriteJSON(v)
}

func (w *connWrapper) WriteControl(messageType int, deadline time.Time) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteControl(messageType, nil, deadline)
}

func (w *connWrapper) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.Close()
}
