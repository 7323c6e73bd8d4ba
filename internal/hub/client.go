package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"ctchen222/tictactoe-local/internal/validator"
	"ctchen222/tictactoe-local/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errInvalidPosition = errors.New("position must be [row, col]")

// writePump is the only writer of c.conn. It exits when the hub closes c.send.
func (c *Client) writePump() {
	pingTicker := time.NewTicker(heartbeatInterval)
	defer func() {
		pingTicker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Warn("error writing message to client", "client.id", c.ID, "error", err)
				return
			}

		case <-pingTicker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("Failed to send ping to client, assuming disconnect", "client.id", c.ID, "error", err)
				return
			}
		}
	}
}

// handleMessage decodes, validates and dispatches one client command. It
// returns an error message for the sender, or nil.
func (h *Hub) handleMessage(ctx context.Context, c *Client, dispatcher Dispatcher, raw []byte) *proto.ServerToClientMessage {
	ctx, span := tracer.Start(ctx, "hub.handleMessage", trace.WithAttributes(
		attribute.String("client.id", c.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "client.id", c.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return proto.ErrorMessage("malformed message")
	}

	if err := validateMessage(&message); err != nil {
		slog.WarnContext(ctx, "invalid message from client", "client.id", c.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return proto.ErrorMessage(err.Error())
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	if err := dispatcher.Dispatch(ctx, &message); err != nil {
		slog.InfoContext(ctx, "Client command rejected", "client.id", c.ID, "message.type", message.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Command rejected")
		return proto.ErrorMessage(err.Error())
	}
	return nil
}

func validateMessage(message *proto.ClientToServerMessage) error {
	if err := validator.GetValidator().Struct(message); err != nil {
		return err
	}
	if message.Type == proto.TypeMove && len(message.Position) != 2 {
		return errInvalidPosition
	}
	return nil
}
