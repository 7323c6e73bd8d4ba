package bot

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/tictactoe-local/internal/game"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultThinkingDelay is how long the bot pauses before answering.
const DefaultThinkingDelay = 1 * time.Second

var tracer = otel.Tracer("bot")

// Thinker runs bot move calculations off the caller's goroutine.
type Thinker struct {
	calculator *MoveCalculator
	delay      time.Duration
}

// NewThinker creates a Thinker. A nil calculator gets a randomly seeded one.
func NewThinker(calculator *MoveCalculator, delay time.Duration) *Thinker {
	if calculator == nil {
		calculator = NewMoveCalculator(nil)
	}
	if delay < 0 {
		delay = 0
	}
	return &Thinker{calculator: calculator, delay: delay}
}

// Task is the pending result of one bot turn. It resolves exactly once,
// either with a move or with an error (context.Canceled when cancelled).
type Task struct {
	ID string

	done   chan struct{}
	cancel context.CancelFunc
	move   game.Move
	err    error
}

// Think starts computing a move for mark on a snapshot of board.
// The computation waits for the thinking delay first and stops early if ctx
// is cancelled or Cancel is called.
func (t *Thinker) Think(ctx context.Context, board game.Board, mark game.PlayerMark, difficulty Difficulty) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := &Task{
		ID:     "bot-" + uuid.New().String()[:8],
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(task.done)
		defer cancel()

		ctx, span := tracer.Start(ctx, "bot.Think", trace.WithAttributes(
			attribute.String("task.id", task.ID),
			attribute.String("bot.mark", string(mark)),
			attribute.String("bot.difficulty", string(difficulty)),
		))
		defer span.End()

		slog.DebugContext(ctx, "Bot is thinking...", "task.id", task.ID, "mark", mark, "board", board.String())

		timer := time.NewTimer(t.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			task.err = ctx.Err()
			span.SetStatus(codes.Error, "Bot turn cancelled")
			return
		case <-timer.C:
		}

		task.move, task.err = t.calculator.CalculateNextMove(board, mark, difficulty)
		if task.err != nil {
			span.RecordError(task.err)
			span.SetStatus(codes.Error, "Bot could not choose a move")
			return
		}
		span.SetAttributes(attribute.Int("move.row", task.move.Row), attribute.Int("move.col", task.move.Col))
	}()

	return task
}

// Done is closed once the task has resolved.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result blocks until the task resolves and returns its move.
func (t *Task) Result() (game.Move, error) {
	<-t.done
	return t.move, t.err
}

// Wait is Result bounded by ctx.
func (t *Task) Wait(ctx context.Context) (game.Move, error) {
	select {
	case <-t.done:
		return t.move, t.err
	case <-ctx.Done():
		return game.Move{}, ctx.Err()
	}
}

// Cancel stops a task that has not resolved yet. It is a no-op afterwards.
func (t *Task) Cancel() {
	t.cancel()
}
