package proto

import "ctchen222/tictactoe-local/internal/game"

// Client message types.
const (
	TypeMove    = "move"
	TypeRestart = "restart"
)

// Server message types.
const (
	TypeUpdate = "update"
	TypeError  = "error"
	TypeClosed = "closed"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string `json:"type" validate:"required,oneof=move restart"`
	Player   string `json:"player,omitempty" validate:"required_if=Type move"`
	Position []int  `json:"position,omitempty" validate:"omitempty,len=2"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type          string              `json:"type" validate:"required"`
	Reason        string              `json:"reason,omitempty"`
	SessionID     string              `json:"sessionId,omitempty"`
	Board         [][]game.PlayerMark `json:"board,omitempty"`
	Next          game.PlayerMark     `json:"next,omitempty"`
	CurrentPlayer string              `json:"currentPlayer,omitempty"`
	Status        string              `json:"status,omitempty"`
	Winner        string              `json:"winner,omitempty"`
	WinningLine   []int               `json:"winningLine,omitempty"`
	Pending       bool                `json:"pending"`
}

// ErrorMessage reports a rejected client message.
func ErrorMessage(reason string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeError, Reason: reason}
}
