package bot

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"ctchen222/tictactoe-local/internal/game"
)

// Difficulty selects which tiers the bot consults.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	ErrNoMoveAvailable   = errors.New("no move available")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// ParseDifficulty accepts "easy", "medium" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// MoveCalculator computes bot moves from a shared random source.
// It is safe for concurrent use.
type MoveCalculator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMoveCalculator creates a calculator. A nil rng gets a randomly seeded one.
func NewMoveCalculator(rng *rand.Rand) *MoveCalculator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &MoveCalculator{rng: rng}
}

// CalculateNextMove calls the package-level function with the calculator's random source.
func (c *MoveCalculator) CalculateNextMove(board game.Board, botMark game.PlayerMark, difficulty Difficulty) (game.Move, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CalculateNextMove(board, botMark, difficulty, c.rng)
}

// CalculateNextMove determines the bot's next move based on the specified difficulty.
// Unknown difficulties play like Easy.
func CalculateNextMove(board game.Board, botMark game.PlayerMark, difficulty Difficulty, rng *rand.Rand) (game.Move, error) {
	switch difficulty {
	case Medium:
		return mediumMove(board, botMark, rng)
	case Hard:
		return hardMove(board, botMark, rng)
	default:
		return easyMove(board, rng)
	}
}

// easyMove makes a completely random move.
func easyMove(board game.Board, rng *rand.Rand) (game.Move, error) {
	availableMoves := board.EmptyCells()
	if len(availableMoves) == 0 {
		return game.Move{}, ErrNoMoveAvailable
	}
	return availableMoves[rng.IntN(len(availableMoves))], nil
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func mediumMove(board game.Board, botMark game.PlayerMark, rng *rand.Rand) (game.Move, error) {
	// 1. Win: complete any line holding two of the bot's marks
	if move, ok := findWinningMove(board, botMark); ok {
		return move, nil
	}

	// 2. Block: stop two adjacent opponent marks
	if move, ok := findBlockingMove(board, game.Opponent(botMark)); ok {
		return move, nil
	}

	// 3. Random
	return easyMove(board, rng)
}

// hardMove extends mediumMove by also filling the gap between two opponent marks.
func hardMove(board game.Board, botMark game.PlayerMark, rng *rand.Rand) (game.Move, error) {
	opponentMark := game.Opponent(botMark)

	if move, ok := findWinningMove(board, botMark); ok {
		return move, nil
	}

	if move, ok := findBlockingMove(board, opponentMark); ok {
		return move, nil
	}

	// 3. Gap: X _ X on a row, column or diagonal
	if move, ok := findGapMove(board, opponentMark); ok {
		return move, nil
	}

	return easyMove(board, rng)
}

// lineMatcher inspects the three cells of a line and returns which slot (0..2) to play.
type lineMatcher func(cells [3]game.PlayerMark, mark game.PlayerMark) (slot int, ok bool)

// scanLines walks rows, then columns, then diagonals and returns the first match.
func scanLines(board game.Board, mark game.PlayerMark, match lineMatcher) (game.Move, bool) {
	flat := board.Flatten()
	for _, line := range game.Lines {
		cells := [3]game.PlayerMark{flat[line[0]], flat[line[1]], flat[line[2]]}
		if slot, ok := match(cells, mark); ok {
			return game.MoveFromIndex(line[slot]), true
		}
	}
	return game.Move{}, false
}

// findWinningMove checks if a player has a potential winning move (two in a line with an empty third).
func findWinningMove(board game.Board, mark game.PlayerMark) (game.Move, bool) {
	return scanLines(board, mark, func(cells [3]game.PlayerMark, mark game.PlayerMark) (int, bool) {
		empty, own := -1, 0
		for i, cell := range cells {
			switch cell {
			case game.None:
				empty = i
			case mark:
				own++
			}
		}
		return empty, own == 2 && empty != -1
	})
}

// findBlockingMove looks for two adjacent marks with the far end empty (M M _ or _ M M).
func findBlockingMove(board game.Board, mark game.PlayerMark) (game.Move, bool) {
	return scanLines(board, mark, func(cells [3]game.PlayerMark, mark game.PlayerMark) (int, bool) {
		switch {
		case cells[0] == mark && cells[1] == mark && cells[2] == game.None:
			return 2, true
		case cells[0] == game.None && cells[1] == mark && cells[2] == mark:
			return 0, true
		}
		return -1, false
	})
}

// findGapMove looks for marks on both ends of a line with an empty middle.
// Both diagonals share the center, so either one yields (1, 1).
func findGapMove(board game.Board, mark game.PlayerMark) (game.Move, bool) {
	return scanLines(board, mark, func(cells [3]game.PlayerMark, mark game.PlayerMark) (int, bool) {
		if cells[0] == mark && cells[1] == game.None && cells[2] == mark {
			return 1, true
		}
		return -1, false
	})
}
