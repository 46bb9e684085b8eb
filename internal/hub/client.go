package hub

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 256
)

// Client adapts one websocket connection to the hub. The read pump decodes
// inbound frames into messages and hands them to the dispatcher; the write
// pump drains the buffered send channel.
type Client struct {
	conn    *websocket.Conn
	hub     *Hub
	send    chan []byte
	maxSize int64
}

func NewClient(conn *websocket.Conn, h *Hub, maxMessageSize int64) *Client {
	return &Client{
		conn:    conn,
		hub:     h,
		send:    make(chan []byte, sendBufferSize),
		maxSize: maxMessageSize,
	}
}

// Start registers the client with the hub and launches both pumps.
func (c *Client) Start() {
	c.hub.HandleConnect(c)
	go c.WritePump()
	go c.ReadPump()
}

// Send queues a payload for delivery. It fails fast with ErrSendBufferFull
// when the peer is too slow to drain its buffer.
func (c *Client) Send(payload []byte) error {
	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.HandleClose(c)
		if err := c.conn.Close(); err != nil {
			slog.Debug("failed to close websocket connection", "error", err)
		}
	}()

	c.conn.SetReadLimit(c.maxSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid websocket payload", "error", err)
			continue
		}
		c.hub.Dispatch(c, msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
