package websocket

import (
	"sync"
	"time"

	"studymate/internal/microservices/http-api/events"

	"github.com/gorilla/websocket"
)

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // ping before pong wait expires
	MaxMessageSize = 512                 // maximum message size allowed from peer
	sendBuffer     = 64
)

// Client is one WebSocket connection of an authenticated user.
type Client struct {
	UserID int64
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte // events, closed by the hub
	reply  chan []byte // acks and errors from ReadPump, never closed

	mu     sync.RWMutex
	topics map[int64]struct{} // empty = every topic
}

func newClient(userID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBuffer),
		reply:  make(chan []byte, 8),
		topics: make(map[int64]struct{}),
	}
}

// wants reports whether the event should reach this client. Direct events go
// to their recipient only; topic events honour the subscription filter.
func (c *Client) wants(event events.Event) bool {
	if event.RecipientID != 0 {
		return event.RecipientID == c.UserID
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.topics) == 0 || event.TopicID == 0 {
		return true
	}
	_, ok := c.topics[event.TopicID]
	return ok
}

func (c *Client) handle(msg *ClientMessage) bool {
	if msg.TopicID <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch msg.Type {
	case TypeSubscribe:
		c.topics[msg.TopicID] = struct{}{}
	case TypeUnsubscribe:
		delete(c.topics, msg.TopicID)
	default:
		return false
	}
	return true
}

// ReadPump reads subscription changes until the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := MessageFromJSON(data)
		if err != nil || !c.handle(msg) {
			c.trySend(errorJSON("expected {\"type\":\"subscribe\"|\"unsubscribe\",\"topic_id\":N}"))
			continue
		}
		c.trySend(ackJSON(msg))
	}
}

// trySend queues a reply without blocking the read loop.
func (c *Client) trySend(data []byte) {
	select {
	case c.reply <- data:
	default:
	}
}

// WritePump writes queued events and pings until send is closed.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case data := <-c.reply:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
