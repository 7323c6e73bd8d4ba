package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"ctchen222/tictactoe-local/internal/player"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository.player")

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrReservedPlayer = errors.New("reserved player cannot be deleted")

	// errUnchanged aborts a read-modify-write cycle without rewriting.
	errUnchanged = errors.New("records unchanged")
)

// AddPlayer result messages.
const (
	MsgPlayerAdded   = "Player added successfully"
	MsgPlayerExists  = "Player already exists"
	MsgInvalidPlayer = "Invalid player name"
)

// AddResult reports whether AddPlayer stored a new record.
type AddResult struct {
	Added   bool   `json:"added"`
	Message string `json:"message"`
}

// PlayerStore defines the interface for player record operations.
type PlayerStore interface {
	Init(ctx context.Context) error
	GetPlayers(ctx context.Context) ([]player.Record, error)
	AddPlayer(ctx context.Context, name string) (AddResult, error)
	UpdateStats(ctx context.Context, name string, event player.Event) error
	ResetStats(ctx context.Context) error
	DeletePlayer(ctx context.Context, name string) error
	DeleteAllPlayers(ctx context.Context) error
}

// backend reads and rewrites the complete ordered record list.
type backend interface {
	kind() string
	prepare(ctx context.Context) error
	load(ctx context.Context) ([]player.Record, error)
	save(ctx context.Context, records []player.Record) error
}

// Store is the single owner of the persisted player records. Every operation
// loads all records, computes the new list and rewrites it while holding mu,
// so at most one read-modify-write cycle is in flight per Store.
type Store struct {
	mu      sync.Mutex
	backend backend
	now     func() time.Time
}

var _ PlayerStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp LastPlayed.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func newStore(b backend, opts ...Option) *Store {
	s := &Store{backend: b, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("store.backend", s.backend.kind()))
	return tracer.Start(ctx, "PlayerStore."+op, trace.WithAttributes(attrs...))
}

// mutate runs one locked read-modify-write cycle.
func (s *Store) mutate(ctx context.Context, fn func([]player.Record) ([]player.Record, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load player records: %w", err)
	}

	updated, err := fn(records)
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.backend.save(ctx, updated); err != nil {
		return fmt.Errorf("failed to save player records: %w", err)
	}
	return nil
}

func recordSpanError(span trace.Span, err error, msg string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

// Init prepares the backend and seeds any missing reserved records.
func (s *Store) Init(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Init")
	defer span.End()

	if err := s.backend.prepare(ctx); err != nil {
		recordSpanError(span, err, "Failed to prepare store")
		return fmt.Errorf("failed to prepare %s store: %w", s.backend.kind(), err)
	}

	err := s.mutate(ctx, func(records []player.Record) ([]player.Record, error) {
		var missing []player.Record
		for _, name := range player.ReservedNames() {
			if indexOf(records, name) == -1 {
				missing = append(missing, player.NewRecord(name))
			}
		}
		if len(missing) == 0 {
			return nil, errUnchanged
		}
		slog.InfoContext(ctx, "Seeding reserved players", "store.backend", s.backend.kind(), "count", len(missing))
		return append(missing, records...), nil
	})
	recordSpanError(span, err, "Failed to seed reserved players")
	return err
}

// GetPlayers returns every record in stored order.
func (s *Store) GetPlayers(ctx context.Context) ([]player.Record, error) {
	ctx, span := s.startSpan(ctx, "GetPlayers")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.load(ctx)
	if err != nil {
		recordSpanError(span, err, "Failed to load players")
		return nil, fmt.Errorf("failed to load player records: %w", err)
	}
	span.SetAttributes(attribute.Int("players.count", len(records)))
	return records, nil
}

// AddPlayer appends a zeroed record. Invalid or duplicate names are reported
// through the result, not as an error.
func (s *Store) AddPlayer(ctx context.Context, name string) (AddResult, error) {
	ctx, span := s.startSpan(ctx, "AddPlayer", attribute.String("player.name", name))
	defer span.End()

	normalized, err := player.NormalizeName(name)
	if err != nil {
		return AddResult{Added: false, Message: MsgInvalidPlayer}, nil
	}

	result := AddResult{Added: true, Message: MsgPlayerAdded}
	err = s.mutate(ctx, func(records []player.Record) ([]player.Record, error) {
		if indexOf(records, normalized) != -1 {
			result = AddResult{Added: false, Message: MsgPlayerExists}
			return nil, errUnchanged
		}
		return append(records, player.NewRecord(normalized)), nil
	})
	if err != nil {
		recordSpanError(span, err, "Failed to add player")
		return AddResult{}, err
	}
	return result, nil
}

// UpdateStats records one finished game for name.
func (s *Store) UpdateStats(ctx context.Context, name string, event player.Event) error {
	ctx, span := s.startSpan(ctx, "UpdateStats",
		attribute.String("player.name", name),
		attribute.String("stats.event", string(event)),
	)
	defer span.End()

	err := s.mutate(ctx, func(records []player.Record) ([]player.Record, error) {
		i := indexOf(records, name)
		if i == -1 {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
		}
		if err := records[i].Apply(event, s.now()); err != nil {
			return nil, err
		}
		return records, nil
	})
	recordSpanError(span, err, "Failed to update stats")
	return err
}

// ResetStats zeroes every record and keeps all names.
func (s *Store) ResetStats(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "ResetStats")
	defer span.End()

	err := s.mutate(ctx, func(records []player.Record) ([]player.Record, error) {
		for i := range records {
			records[i].Reset()
		}
		return records, nil
	})
	recordSpanError(span, err, "Failed to reset stats")
	return err
}

// DeletePlayer removes a non-reserved record.
func (s *Store) DeletePlayer(ctx context.Context, name string) error {
	ctx, span := s.startSpan(ctx, "DeletePlayer", attribute.String("player.name", name))
	defer span.End()

	if player.IsReserved(name) {
		return fmt.Errorf("%w: %s", ErrReservedPlayer, name)
	}

	err := s.mutate(ctx, func(records []player.Record) ([]player.Record, error) {
		i := indexOf(records, name)
		if i == -1 {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
		}
		return slices.Delete(records, i, i+1), nil
	})
	recordSpanError(span, err, "Failed to delete player")
	return err
}

// DeleteAllPlayers removes every record except the reserved ones.
func (s *Store) DeleteAllPlayers(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "DeleteAllPlayers")
	defer span.End()

	err := s.mutate(ctx, func(records []player.Record) ([]player.Record, error) {
		return slices.DeleteFunc(records, func(r player.Record) bool {
			return !player.IsReserved(r.Name)
		}), nil
	})
	recordSpanError(span, err, "Failed to delete all players")
	return err
}

func indexOf(records []player.Record, name string) int {
	return slices.IndexFunc(records, func(r player.Record) bool {
		return r.Name == name
	})
}
