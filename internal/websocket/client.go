package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/models"
	"github.com/dancefloor/backend/internal/services"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Error events queued for the sender before further ones are dropped
	directBufferSize = 16
)

// Client is one socket connection. Broadcasts arrive through its hub
// subscription; error events for this connection alone go through direct.
type Client struct {
	handler *Handler
	conn    *websocket.Conn
	sub     *broker.Subscription
	direct  chan []byte

	ID        string
	Name      string
	IP        string
	Principal services.Principal
}

func newClient(h *Handler, conn *websocket.Conn, sub *broker.Subscription, name, ip string, p services.Principal) *Client {
	return &Client{
		handler:   h,
		conn:      conn,
		sub:       sub,
		direct:    make(chan []byte, directBufferSize),
		ID:        sub.ID,
		Name:      name,
		IP:        ip,
		Principal: p,
	}
}

func (c *Client) logger() *slog.Logger {
	return slog.With(slog.String("client_id", c.ID))
}

// readPump decodes inbound frames and dispatches them one at a time.
// Leaving the loop closes the hub subscription, which stops writePump.
func (c *Client) readPump() {
	defer func() {
		c.handler.unregister(c)
		c.handler.broker.Close(c.sub)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger().Warn("socket read error", slog.Any("error", err))
			}
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(message, &frame); err != nil || frame.Event == "" {
			c.logger().Debug("ignoring malformed frame")
			continue
		}
		c.handler.dispatch(c, frame)
	}

	c.logger().Info("socket disconnected")
}

// writePump serializes hub events and direct error events onto the socket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.sub.Events():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// unsubscribed, or dropped for falling behind
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(outboundFrame{Event: ev.Kind, Data: ev.Payload}); err != nil {
				return
			}

		case msg := <-c.direct:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendError queues an error event for this connection only.
func (c *Client) sendError(event, message string) {
	data, err := json.Marshal(outboundFrame{Event: event, Data: models.MessageAck{Message: message}})
	if err != nil {
		return
	}
	select {
	case c.direct <- data:
	default:
		c.logger().Warn("dropping error event for slow client", slog.String("event", event))
	}
}
