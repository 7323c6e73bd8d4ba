// Package session runs one local game between two players, one of which may
// be the computer.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ctchen222/tictactoe-local/internal/bot"
	"ctchen222/tictactoe-local/internal/game"
	"ctchen222/tictactoe-local/internal/player"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -destination=mock_recorder_test.go -package=session . StatsRecorder

var tracer = otel.Tracer("session")

var (
	ErrNotYourTurn = fmt.Errorf("%w: not your turn", game.ErrIllegalMove)
	ErrGameOver    = fmt.Errorf("%w: game is over", game.ErrIllegalMove)

	ErrInvalidConfig = errors.New("invalid session config")
	ErrStaleTurn     = errors.New("stale computer turn")
	ErrNoPendingTurn = errors.New("no pending computer turn")
	ErrClosed        = errors.New("session closed")
)

// Mode selects whether player two is the computer.
type Mode string

const (
	SinglePlayer Mode = "single_player"
	MultiPlayer  Mode = "multi_player"
)

// ParseMode converts "single_player" or "multi_player".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case SinglePlayer, MultiPlayer:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

type Status string

const (
	StatusSetup      Status = "setup"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

// IsTerminal reports whether no further moves are accepted.
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusDraw
}

// StatsRecorder receives one event per player when a game ends.
type StatsRecorder interface {
	UpdateStats(ctx context.Context, name string, event player.Event) error
}

// Thinker starts asynchronous computer moves. *bot.Thinker implements it.
type Thinker interface {
	Think(ctx context.Context, board game.Board, mark game.PlayerMark, difficulty bot.Difficulty) *bot.Task
}

// Config describes the players of a session.
type Config struct {
	Mode       Mode
	PlayerOne  string
	PlayerTwo  string
	Difficulty bot.Difficulty
}

// ComputerTurn is a computer move in flight. It belongs to the session
// generation that started it.
type ComputerTurn struct {
	Task       *bot.Task
	Generation string
}

// Done is closed once the computer has chosen a move.
func (t *ComputerTurn) Done() <-chan struct{} {
	return t.Task.Done()
}

// Session is the game state machine. It is not safe for concurrent use;
// callers serialise access.
type Session struct {
	cfg      Config
	recorder StatsRecorder
	thinker  Thinker

	id      string
	board   game.Board
	turn    game.PlayerMark
	status  Status
	outcome game.Outcome
	pending *ComputerTurn
	closed  bool
}

// New validates cfg and starts the first game. In SinglePlayer mode player
// two is always the computer. A nil thinker gets a randomly seeded one with
// the default thinking delay.
func New(cfg Config, recorder StatsRecorder, thinker Thinker) (*Session, error) {
	if cfg.Mode == "" {
		cfg.Mode = MultiPlayer
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.Mode == SinglePlayer {
		cfg.PlayerTwo = player.Computer
	}
	if cfg.PlayerOne == "" || cfg.PlayerTwo == "" {
		return nil, fmt.Errorf("%w: both players are required", ErrInvalidConfig)
	}
	if cfg.PlayerOne == cfg.PlayerTwo {
		return nil, fmt.Errorf("%w: players must be different", ErrInvalidConfig)
	}
	if d, err := bot.ParseDifficulty(string(cfg.Difficulty)); err == nil {
		cfg.Difficulty = d
	} else {
		cfg.Difficulty = bot.Easy
	}
	if thinker == nil {
		thinker = bot.NewThinker(nil, bot.DefaultThinkingDelay)
	}

	s := &Session{
		cfg:      cfg,
		recorder: recorder,
		thinker:  thinker,
		status:   StatusSetup,
	}
	s.start()
	return s, nil
}

// start clears the board and hands the first move to player one.
func (s *Session) start() {
	s.id = uuid.New().String()
	s.board = game.Board{}
	s.turn = game.PlayerX
	s.outcome = game.Outcome{Result: game.InProgress}
	s.status = StatusInProgress
}

// ID identifies the current game generation. Restart assigns a new one.
func (s *Session) ID() string {
	return s.id
}

// Config returns the players, mode and difficulty of the session.
func (s *Session) Config() Config {
	return s.cfg
}

// Pending returns the computer turn in flight, or nil.
func (s *Session) Pending() *ComputerTurn {
	return s.pending
}

func (s *Session) playerFor(mark game.PlayerMark) string {
	if mark == game.PlayerX {
		return s.cfg.PlayerOne
	}
	return s.cfg.PlayerTwo
}

func (s *Session) isComputer(name string) bool {
	return s.cfg.Mode == SinglePlayer && name == player.Computer
}

// CurrentPlayer is the name of the player holding the turn.
func (s *Session) CurrentPlayer() string {
	return s.playerFor(s.turn)
}

// SubmitMove places the current player's mark at (row, col).
func (s *Session) SubmitMove(ctx context.Context, name string, row, col int) error {
	ctx, span := tracer.Start(ctx, "session.SubmitMove", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.String("player.name", name),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	if err := s.checkMove(name); err != nil {
		span.SetStatus(codes.Error, "Move rejected")
		return err
	}

	next, err := s.board.Place(row, col, s.turn)
	if err != nil {
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.SetStatus(codes.Error, "Invalid move")
		return err
	}
	span.SetAttributes(attribute.Bool("move.valid", true))

	s.apply(ctx, next)
	return nil
}

func (s *Session) checkMove(name string) error {
	switch {
	case s.closed:
		return ErrClosed
	case s.status != StatusInProgress:
		return ErrGameOver
	case name != s.CurrentPlayer(), s.isComputer(name):
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, s.CurrentPlayer())
	}
	return nil
}

// apply commits a board after a legal placement by the current player.
func (s *Session) apply(ctx context.Context, next game.Board) {
	s.board = next
	s.outcome = game.Evaluate(next)

	switch s.outcome.Result {
	case game.Win:
		s.status = StatusWon
		slog.InfoContext(ctx, "Game won", "session.id", s.id, "winner", s.playerFor(s.outcome.Winner), "line", s.outcome.Line)
		s.recordStats(ctx)
		return
	case game.Draw:
		s.status = StatusDraw
		slog.InfoContext(ctx, "Game drawn", "session.id", s.id)
		s.recordStats(ctx)
		return
	}

	s.turn = game.Opponent(s.turn)
	if s.isComputer(s.CurrentPlayer()) {
		// The turn outlives the request that triggered it.
		task := s.thinker.Think(context.WithoutCancel(ctx), s.board, s.turn, s.cfg.Difficulty)
		s.pending = &ComputerTurn{Task: task, Generation: s.id}
		slog.DebugContext(ctx, "Computer turn started", "session.id", s.id, "task.id", task.ID)
	}
}

// recordStats reports the finished game once per player. Failures are logged
// and leave the game result in place.
func (s *Session) recordStats(ctx context.Context) {
	if s.recorder == nil {
		return
	}

	events := map[string]player.Event{
		s.cfg.PlayerOne: player.EventTie,
		s.cfg.PlayerTwo: player.EventTie,
	}
	if s.status == StatusWon {
		winner := s.playerFor(s.outcome.Winner)
		loser := s.playerFor(game.Opponent(s.outcome.Winner))
		events[winner] = player.EventWin
		events[loser] = player.EventLoss
	}

	for _, name := range []string{s.cfg.PlayerOne, s.cfg.PlayerTwo} {
		if err := s.recorder.UpdateStats(ctx, name, events[name]); err != nil {
			slog.ErrorContext(ctx, "Failed to record player stats", "session.id", s.id, "player.name", name, "event", events[name], "error", err)
		}
	}
}

// Resolve applies the move of a finished computer turn. Turns that are no
// longer pending, because the game was restarted or the move was already
// applied, are rejected with ErrStaleTurn and change nothing.
func (s *Session) Resolve(ctx context.Context, turn *ComputerTurn) error {
	ctx, span := tracer.Start(ctx, "session.Resolve", trace.WithAttributes(
		attribute.String("session.id", s.id),
	))
	defer span.End()

	if s.closed {
		return ErrClosed
	}
	if turn == nil || turn != s.pending || turn.Generation != s.id {
		span.SetStatus(codes.Error, "Stale computer turn")
		return ErrStaleTurn
	}

	move, err := turn.Task.Wait(ctx)
	if errors.Is(err, bot.ErrNoMoveAvailable) {
		panic(fmt.Sprintf("session %s: computer has no move on an open board %s", s.id, s.board))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer turn failed")
		return fmt.Errorf("failed to resolve computer turn: %w", err)
	}
	s.pending = nil

	next, err := s.board.Place(move.Row, move.Col, s.turn)
	if err != nil {
		panic(fmt.Sprintf("session %s: computer chose illegal move %v: %v", s.id, move, err))
	}
	span.SetAttributes(attribute.Int("move.row", move.Row), attribute.Int("move.col", move.Col))
	slog.DebugContext(ctx, "Computer moved", "session.id", s.id, "row", move.Row, "col", move.Col)

	s.apply(ctx, next)
	return nil
}

// PlayComputerTurn waits for the pending computer turn and applies it.
func (s *Session) PlayComputerTurn(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if s.pending == nil {
		return ErrNoPendingTurn
	}
	return s.Resolve(ctx, s.pending)
}

// Restart abandons the current game, including any computer turn in flight,
// and starts a new one with the same players.
func (s *Session) Restart() error {
	if s.closed {
		return ErrClosed
	}
	s.cancelPending()
	s.start()
	return nil
}

// Close cancels any computer turn in flight. Every later call fails with ErrClosed.
func (s *Session) Close() {
	s.cancelPending()
	s.closed = true
}

func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Task.Cancel()
		s.pending = nil
	}
}
