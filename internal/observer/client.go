package observer

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
	maxMessageSize = 512
	sendBufferSize = 64
)

// Client represents a single websocket connection subscribed to zero or
// more execution IDs.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *Event
	log  zerolog.Logger

	id            string
	subscriptions map[string]bool
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, log zerolog.Logger) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan *Event, sendBufferSize),
		log:           log,
		id:            id,
		subscriptions: make(map[string]bool),
	}
}

// Run registers the client and blocks servicing it until the connection
// closes. Callers typically invoke this in its own goroutine per socket.
func (c *Client) Run() {
	c.hub.register(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
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
				c.log.Warn().Str("client_id", c.id).Err(err).Msg("websocket unexpected close")
			}
			break
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.sendResponse(errorResponse("error", "invalid command format"))
			continue
		}
		c.handleCommand(&cmd)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
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

func (c *Client) handleCommand(cmd *Command) {
	if cmd.ExecutionID == "" {
		c.sendResponse(errorResponse(cmd.Action, "executionId required"))
		return
	}

	switch cmd.Action {
	case CmdSubscribe:
		c.hub.subscribe(c, cmd.ExecutionID)
		c.sendResponse(successResponse(CmdSubscribe, "subscribed to execution: "+cmd.ExecutionID))
	case CmdUnsubscribe:
		c.hub.unsubscribe(c, cmd.ExecutionID)
		c.sendResponse(successResponse(CmdUnsubscribe, "unsubscribed from execution: "+cmd.ExecutionID))
	default:
		c.sendResponse(errorResponse("error", "unknown command: "+cmd.Action))
	}
}

func (c *Client) sendResponse(resp *Response) {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteJSON(resp)
}
