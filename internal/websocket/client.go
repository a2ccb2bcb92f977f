package websocket

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is the caller side of the duplex channel. It satisfies the
// coordinator's Transport and feeds inbound frames to a handler via ReadLoop.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Dial connects to a round server's websocket endpoint.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Send writes one frame. Safe for concurrent use; gorilla permits a single
// writer at a time, so writes are serialized here.
func (c *Client) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ReadLoop pumps inbound frames into handle until the connection drops.
// It blocks, so run it on its own goroutine.
func (c *Client) ReadLoop(handle func(data []byte)) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("server read failed", "error", err)
			}
			return
		}
		handle(data)
	}
}

func (c *Client) Close() error {
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}
