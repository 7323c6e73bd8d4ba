package service

import (
	"context"

	"ctchen222/tictactoe-local/internal/player"
	"ctchen222/tictactoe-local/internal/repository"
)

// PlayerService defines the interface for player management.
type PlayerService interface {
	ListPlayers(ctx context.Context) ([]player.Record, error)
	Standings(ctx context.Context) ([]player.Record, error)
	Selectable(ctx context.Context) ([]string, error)
	AddPlayer(ctx context.Context, name string) (repository.AddResult, error)
	DeletePlayer(ctx context.Context, name string) error
	DeleteAllPlayers(ctx context.Context) error
	ResetStats(ctx context.Context) error
}

type playerService struct {
	store repository.PlayerStore
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(store repository.PlayerStore) PlayerService {
	return &playerService{store: store}
}

// ListPlayers returns every record, reserved players included, in stored order.
func (s *playerService) ListPlayers(ctx context.Context) ([]player.Record, error) {
	return s.store.GetPlayers(ctx)
}

// Standings returns the records shown on the standings screen.
func (s *playerService) Standings(ctx context.Context) ([]player.Record, error) {
	records, err := s.store.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return player.Standings(records), nil
}

// Selectable returns the names offered when choosing players for a game.
func (s *playerService) Selectable(ctx context.Context) ([]string, error) {
	records, err := s.store.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return player.Selectable(records), nil
}

func (s *playerService) AddPlayer(ctx context.Context, name string) (repository.AddResult, error) {
	return s.store.AddPlayer(ctx, name)
}

func (s *playerService) DeletePlayer(ctx context.Context, name string) error {
	return s.store.DeletePlayer(ctx, name)
}

func (s *playerService) DeleteAllPlayers(ctx context.Context) error {
	return s.store.DeleteAllPlayers(ctx)
}

func (s *playerService) ResetStats(ctx context.Context) error {
	return s.store.ResetStats(ctx)
}
