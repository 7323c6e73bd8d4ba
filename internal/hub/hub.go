// Package hub fans game updates out to websocket clients and forwards their
// commands to a Dispatcher.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"ctchen222/tictactoe-local/pkg/proto"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	heartbeatInterval = 10 * time.Second
	sendQueueSize     = 16
)

var tracer = otel.Tracer("hub")

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Dispatcher executes validated client commands and describes the current game.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *proto.ClientToServerMessage) error
	Current(ctx context.Context) *proto.ServerToClientMessage
}

// Client is one websocket connection with its own outgoing queue.
type Client struct {
	ID   string
	conn Connection
	send chan []byte
}

func newClient(conn Connection) *Client {
	return &Client{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

type envelope struct {
	client *Client
	data   []byte
}

// Hub manages all connected clients. Only Run touches the client set and
// closes send queues.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	direct     chan envelope
	done       chan struct{}
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, sendQueueSize),
		direct:     make(chan envelope),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for id, c := range h.clients {
			close(c.send)
			delete(h.clients, id)
		}
		slog.Info("Hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c.ID] = c
			slog.Info("Client connected", "client.id", c.ID, "clients.count", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c.ID]; ok {
				delete(h.clients, c.ID)
				close(c.send)
				slog.Info("Client disconnected", "client.id", c.ID, "clients.count", len(h.clients))
			}

		case data := <-h.broadcast:
			for _, c := range h.clients {
				h.deliver(c, data)
			}

		case env := <-h.direct:
			if c, ok := h.clients[env.client.ID]; ok {
				h.deliver(c, env.data)
			}
		}
	}
}

// deliver queues data for c, dropping the client when its queue is full.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("Dropping slow client", "client.id", c.ID)
		delete(h.clients, c.ID)
		close(c.send)
	}
}

// Broadcast queues message for every connected client.
func (h *Hub) Broadcast(ctx context.Context, message *proto.ServerToClientMessage) {
	_, span := tracer.Start(ctx, "hub.Broadcast", trace.WithAttributes(
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Serve registers conn and pumps messages in both directions until the
// connection fails or the hub stops. It blocks.
func (h *Hub) Serve(ctx context.Context, conn Connection, dispatcher Dispatcher) {
	c := newClient(conn)

	ctx, span := tracer.Start(ctx, "hub.Serve", trace.WithAttributes(
		attribute.String("client.id", c.ID),
	))
	defer span.End()

	if current := dispatcher.Current(ctx); current != nil {
		if data, err := json.Marshal(current); err == nil {
			c.send <- data
		}
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	h.readPump(ctx, c, dispatcher)
}

// readPump reads client commands until the connection fails.
func (h *Hub) readPump(ctx context.Context, c *Client, dispatcher Dispatcher) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			slog.DebugContext(ctx, "Client connection closed", "client.id", c.ID, "error", err)
			return
		}
		if reply := h.handleMessage(ctx, c, dispatcher, raw); reply != nil {
			data, _ := json.Marshal(reply)
			h.reply(c, data)
		}
	}
}

// reply queues data for c alone.
func (h *Hub) reply(c *Client, data []byte) {
	select {
	case h.direct <- envelope{client: c, data: data}:
	case <-h.done:
	}
}
