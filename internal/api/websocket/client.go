package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one WebSocket connection.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	replies chan []byte
	tracker Tracker
	logger  zerolog.Logger
}

// Command is a client request to start or stop following a game.
type Command struct {
	Action  string `json:"action"`
	League  string `json:"league"`
	EventID string `json:"event_id"`
}

// Reply acknowledges a Command.
type Reply struct {
	Type    string `json:"type"`
	Action  string `json:"action,omitempty"`
	League  string `json:"league,omitempty"`
	EventID string `json:"event_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// readPump handles incoming commands until the connection closes.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug().Err(err).Msg("client disconnected")
			}
			return
		}
		c.reply(c.handle(msg))
	}
}

func (c *Client) handle(msg []byte) Reply {
	var cmd Command
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return Reply{Type: "error", Error: "invalid command"}
	}
	reply := Reply{Type: "ack", Action: cmd.Action, League: cmd.League, EventID: cmd.EventID}
	if cmd.League == "" || cmd.EventID == "" {
		reply.Type, reply.Error = "error", "league and event_id are required"
		return reply
	}

	if c.tracker == nil {
		reply.Type, reply.Error = "error", "live tracking is disabled"
		return reply
	}

	switch cmd.Action {
	case "track":
		if err := c.tracker.Track(cmd.League, cmd.EventID); err != nil {
			reply.Type, reply.Error = "error", err.Error()
		}
	case "untrack":
		c.tracker.Untrack(cmd.League, cmd.EventID)
	default:
		reply.Type, reply.Error = "error", "unknown action "+cmd.Action
	}
	return reply
}

func (c *Client) reply(r Reply) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	// send belongs to the hub, which may close it at any time.
	select {
	case c.replies <- b:
	default:
	}
}

// writePump delivers queued messages and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case msg := <-c.replies:
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
