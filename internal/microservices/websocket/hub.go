package websocket

// Central hub fanning topic events out to connected clients.
// Each WebSocket connection runs in its own goroutines
// but they all communicate with the hub through channels.

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync/atomic"

	"studymate/internal/microservices/http-api/events"
)

const broadcastBuffer = 256

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan events.Event
	done       chan struct{}

	clients map[*Client]struct{} // owned by Run
	count   atomic.Int64
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan events.Event, broadcastBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		logger:     logger,
	}
}

// Publish queues an event for delivery. It never blocks: when the queue is
// full the event is dropped.
func (h *Hub) Publish(event events.Event) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		h.logger.Warn("ws_event_dropped", "type", event.Type, "topic_id", event.TopicID)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Run owns the client set until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			h.drop(c)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
			h.logger.Info("ws_client_connected", "user_id", c.UserID, "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Info("ws_client_disconnected", "user_id", c.UserID, "clients", len(h.clients))
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws_event_encode_failed", "type", event.Type, "error", err)
		return
	}
	for c := range h.clients {
		if !c.wants(event) {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Slow consumer; its write pump exits when send closes.
			h.logger.Warn("ws_client_too_slow", "user_id", c.UserID)
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	h.count.Add(-1)
	close(c.send)
}

// attach hands a client to Run. It reports false once the hub has stopped.
func (h *Hub) attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
