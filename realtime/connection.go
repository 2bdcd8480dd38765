package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 128
)

// Connection wraps one websocket session for a user. Outbound writes are
// serialized through a buffered channel so Push never blocks on a slow
// client; when the buffer fills the connection is dropped instead.
type Connection struct {
	UserID string

	ws      *websocket.Conn
	send    chan []byte
	once    sync.Once
	closed  chan struct{}
	onClose func(*Connection)
}

func newConnection(userID string, ws *websocket.Conn, onClose func(*Connection)) *Connection {
	return &Connection{
		UserID:  userID,
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		closed:  make(chan struct{}),
		onClose: onClose,
	}
}

func (c *Connection) start() {
	go c.writeLoop()
	go c.readLoop()
}

// enqueue hands payload to the write loop.
func (c *Connection) enqueue(payload []byte) error {
	select {
	case <-c.closed:
		return errors.New("connection closed")
	case c.send <- payload:
		return nil
	default:
		c.close()
		return errors.New("send buffer full, connection dropped")
	}
}

func (c *Connection) close() {
	c.once.Do(func() {
		close(c.closed)
		deadline := time.Now().Add(writeWait)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), deadline)
		_ = c.ws.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.close()

	for {
		select {
		case <-c.closed:
			return
		case payload := <-c.send:
			if err := c.write(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards inbound frames; the channel is push only. It exists to
// process control frames and to notice when the peer goes away.
func (c *Connection) readLoop() {
	defer c.close()
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Connection) write(messageType int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}
