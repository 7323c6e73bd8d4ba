package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"ctchen222/tictactoe-local/internal/api/models"
	"ctchen222/tictactoe-local/internal/bot"
	"ctchen222/tictactoe-local/internal/hub"
	"ctchen222/tictactoe-local/internal/player"
	"ctchen222/tictactoe-local/internal/repository"
	"ctchen222/tictactoe-local/internal/session"
	"ctchen222/tictactoe-local/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("api.service.game")

var (
	ErrNoActiveGame  = errors.New("no active game")
	ErrUnknownPlayer = errors.New("unknown player")
)

// Broadcaster pushes state changes to connected clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, message *proto.ServerToClientMessage)
}

// GameService owns the single active game session. All session access goes
// through its mutex.
type GameService interface {
	hub.Dispatcher

	Start(ctx context.Context, req *models.StartGameRequest) (session.State, error)
	State(ctx context.Context) (session.State, error)
	Move(ctx context.Context, name string, row, col int) (session.State, error)
	Restart(ctx context.Context) (session.State, error)
	End(ctx context.Context) error
	Close()
}

type gameService struct {
	mu          sync.Mutex
	store       repository.PlayerStore
	broadcaster Broadcaster
	thinker     session.Thinker
	difficulty  bot.Difficulty
	session     *session.Session

	watchers  sync.WaitGroup
	moves     metric.Int64Counter
	completed metric.Int64Counter
}

// NewGameService creates a new GameService. difficulty applies to single
// player games that do not choose one.
func NewGameService(store repository.PlayerStore, broadcaster Broadcaster, thinker session.Thinker, difficulty bot.Difficulty) (GameService, error) {
	moves, err := meter.Int64Counter("tictactoe.moves",
		metric.WithDescription("Marks placed on the board"),
		metric.WithUnit("{move}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}
	completed, err := meter.Int64Counter("tictactoe.games.completed",
		metric.WithDescription("Games that ended in a win or a draw"),
		metric.WithUnit("{game}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create games counter: %w", err)
	}

	return &gameService{
		store:       store,
		broadcaster: broadcaster,
		thinker:     thinker,
		difficulty:  difficulty,
		moves:       moves,
		completed:   completed,
	}, nil
}

// Start replaces any running game with a new one between known players.
func (s *gameService) Start(ctx context.Context, req *models.StartGameRequest) (session.State, error) {
	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		return session.State{}, err
	}
	cfg := session.Config{
		Mode:       mode,
		PlayerOne:  req.PlayerOne,
		PlayerTwo:  req.PlayerTwo,
		Difficulty: bot.Difficulty(req.Difficulty),
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = s.difficulty
	}
	if mode == session.SinglePlayer {
		cfg.PlayerTwo = player.Computer
	}

	if err := s.checkPlayers(ctx, cfg.PlayerOne, cfg.PlayerTwo); err != nil {
		return session.State{}, err
	}

	sess, err := session.New(cfg, s.store, s.thinker)
	if err != nil {
		return session.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.session.Close()
	}
	s.session = sess
	slog.InfoContext(ctx, "Game started", "session.id", sess.ID(), "mode", mode, "player.one", cfg.PlayerOne, "player.two", sess.Config().PlayerTwo)

	return s.changed(ctx), nil
}

func (s *gameService) checkPlayers(ctx context.Context, names ...string) error {
	records, err := s.store.GetPlayers(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		known := slices.ContainsFunc(records, func(r player.Record) bool { return r.Name == name })
		if !known {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
		}
	}
	return nil
}

// State returns a snapshot of the running game.
func (s *gameService) State(ctx context.Context) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return session.State{}, ErrNoActiveGame
	}
	return s.session.Snapshot(), nil
}

// Move submits a human move.
func (s *gameService) Move(ctx context.Context, name string, row, col int) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return session.State{}, ErrNoActiveGame
	}
	if err := s.session.SubmitMove(ctx, name, row, col); err != nil {
		return session.State{}, err
	}
	s.moves.Add(ctx, 1, metric.WithAttributes(attribute.Bool("player.computer", false)))

	return s.changed(ctx), nil
}

// Restart starts the running game over with the same players.
func (s *gameService) Restart(ctx context.Context) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return session.State{}, ErrNoActiveGame
	}
	if err := s.session.Restart(); err != nil {
		return session.State{}, err
	}
	slog.InfoContext(ctx, "Game restarted", "session.id", s.session.ID())

	return s.changed(ctx), nil
}

// End closes the running game.
func (s *gameService) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNoActiveGame
	}
	s.session.Close()
	slog.InfoContext(ctx, "Game ended", "session.id", s.session.ID())
	s.session = nil

	s.broadcaster.Broadcast(ctx, &proto.ServerToClientMessage{Type: proto.TypeClosed, Reason: "game ended"})
	return nil
}

// Close ends any running game and waits for computer turns in flight.
func (s *gameService) Close() {
	s.mu.Lock()
	if s.session != nil {
		s.session.Close()
		s.session = nil
	}
	s.mu.Unlock()

	s.watchers.Wait()
}

// changed publishes the current state, records completion and schedules the
// computer's reply. Callers hold s.mu.
func (s *gameService) changed(ctx context.Context) session.State {
	st := s.session.Snapshot()

	if st.Status.IsTerminal() {
		outcome := "draw"
		if st.Status == session.StatusWon {
			outcome = "win"
		}
		s.completed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.String("mode", string(st.Mode)),
		))
	}

	if turn := s.session.Pending(); turn != nil {
		s.watch(context.WithoutCancel(ctx), turn)
	}

	s.broadcaster.Broadcast(ctx, StateMessage(st))
	return st
}

// watch applies turn once the computer has decided. Results of abandoned
// turns are dropped by the session.
func (s *gameService) watch(ctx context.Context, turn *session.ComputerTurn) {
	s.watchers.Add(1)
	go func() {
		defer s.watchers.Done()
		<-turn.Done()

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.session == nil {
			return
		}
		err := s.session.Resolve(ctx, turn)
		if errors.Is(err, session.ErrStaleTurn) || errors.Is(err, session.ErrClosed) {
			slog.DebugContext(ctx, "Dropping stale computer turn", "task.id", turn.Task.ID, "error", err)
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to apply computer turn", "task.id", turn.Task.ID, "error", err)
			return
		}
		s.moves.Add(ctx, 1, metric.WithAttributes(attribute.Bool("player.computer", true)))
		s.changed(ctx)
	}()
}

// Dispatch executes a command received over the websocket.
func (s *gameService) Dispatch(ctx context.Context, msg *proto.ClientToServerMessage) error {
	switch msg.Type {
	case proto.TypeMove:
		_, err := s.Move(ctx, msg.Player, msg.Position[0], msg.Position[1])
		return err
	case proto.TypeRestart:
		_, err := s.Restart(ctx)
		return err
	default:
		return fmt.Errorf("unsupported message type %q", msg.Type)
	}
}

// Current describes the running game for a newly connected client.
func (s *gameService) Current(ctx context.Context) *proto.ServerToClientMessage {
	st, err := s.State(ctx)
	if err != nil {
		return &proto.ServerToClientMessage{Type: proto.TypeClosed, Reason: err.Error()}
	}
	return StateMessage(st)
}

// StateMessage converts a session snapshot to its wire form.
func StateMessage(st session.State) *proto.ServerToClientMessage {
	msg := &proto.ServerToClientMessage{
		Type:          proto.TypeUpdate,
		SessionID:     st.ID,
		Board:         st.Board,
		Status:        string(st.Status),
		Winner:        st.Winner,
		WinningLine:   st.WinningLine,
		Pending:       st.Pending,
		CurrentPlayer: st.CurrentPlayer,
	}
	if st.Status == session.StatusInProgress {
		msg.Next = st.CurrentMark
	}
	return msg
}
