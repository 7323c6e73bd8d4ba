package session

import (
	"ctchen222/tictactoe-local/internal/bot"
	"ctchen222/tictactoe-local/internal/game"
)

// Seat pairs a player with the mark they play.
type Seat struct {
	Name     string          `json:"name"`
	Mark     game.PlayerMark `json:"mark"`
	Computer bool            `json:"computer"`
}

// State is a read-only view of a session.
type State struct {
	ID            string              `json:"id"`
	Mode          Mode                `json:"mode"`
	Difficulty    bot.Difficulty      `json:"difficulty,omitempty"`
	Board         [][]game.PlayerMark `json:"board"`
	PlayerOne     Seat                `json:"playerOne"`
	PlayerTwo     Seat                `json:"playerTwo"`
	CurrentPlayer string              `json:"currentPlayer"`
	CurrentMark   game.PlayerMark     `json:"currentMark"`
	Status        Status              `json:"status"`
	Winner        string              `json:"winner,omitempty"`
	WinningLine   []int               `json:"winningLine,omitempty"`
	Pending       bool                `json:"pending"`
	Closed        bool                `json:"closed"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() State {
	st := State{
		ID:            s.id,
		Mode:          s.cfg.Mode,
		Board:         s.board.Rows(),
		PlayerOne:     Seat{Name: s.cfg.PlayerOne, Mark: game.PlayerX},
		PlayerTwo:     Seat{Name: s.cfg.PlayerTwo, Mark: game.PlayerO, Computer: s.isComputer(s.cfg.PlayerTwo)},
		CurrentPlayer: s.CurrentPlayer(),
		CurrentMark:   s.turn,
		Status:        s.status,
		Pending:       s.pending != nil,
		Closed:        s.closed,
	}
	if s.cfg.Mode == SinglePlayer {
		st.Difficulty = s.cfg.Difficulty
	}
	if s.status == StatusWon {
		st.Winner = s.playerFor(s.outcome.Winner)
		st.WinningLine = append([]int(nil), s.outcome.Line...)
	}
	return st
}
