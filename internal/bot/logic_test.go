package bot

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"ctchen222/tictactoe-local/internal/game"
)

const (
	X = game.PlayerX
	O = game.PlayerO
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestFindWinningMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		mark      game.PlayerMark
		want      game.Move
		wantFound bool
	}{
		{
			name:  "No winning move - empty board",
			board: game.Board{},
			mark:  X,
		},
		{
			name: "X can win - first row",
			board: game.Board{
				{X, X, ""},
				{O, O, ""},
				{"", "", ""},
			},
			mark: X,
			want: game.Move{Row: 0, Col: 2}, wantFound: true,
		},
		{
			name: "X can win - gap in first row",
			board: game.Board{
				{X, "", X},
				{O, O, ""},
				{"", "", ""},
			},
			mark: X,
			want: game.Move{Row: 0, Col: 1}, wantFound: true,
		},
		{
			name: "O can win - second column",
			board: game.Board{
				{X, O, ""},
				{X, O, ""},
				{"", "", ""},
			},
			mark: O,
			want: game.Move{Row: 2, Col: 1}, wantFound: true,
		},
		{
			name: "X can win - main diagonal",
			board: game.Board{
				{X, "", ""},
				{"", X, ""},
				{"", "", ""},
			},
			mark: X,
			want: game.Move{Row: 2, Col: 2}, wantFound: true,
		},
		{
			name: "O can win - anti-diagonal",
			board: game.Board{
				{"", "", O},
				{"", O, ""},
				{"", "", ""},
			},
			mark: O,
			want: game.Move{Row: 2, Col: 0}, wantFound: true,
		},
		{
			name: "Rows are scanned before columns",
			board: game.Board{
				{O, "", ""},
				{O, "", O},
				{"", "", ""},
			},
			mark: O,
			want: game.Move{Row: 1, Col: 1}, wantFound: true,
		},
		{
			name: "Full board, no win possible",
			board: game.Board{
				{X, O, X},
				{O, X, O},
				{O, X, O},
			},
			mark: X,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := findWinningMove(tt.board, tt.mark)
			if found != tt.wantFound || (found && got != tt.want) {
				t.Errorf("findWinningMove() got (%v, %v), want (%v, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestFindBlockingMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		want      game.Move
		wantFound bool
	}{
		{
			name: "Two in a row, open end",
			board: game.Board{
				{"", "", ""},
				{X, X, ""},
				{"", "", ""},
			},
			want: game.Move{Row: 1, Col: 2}, wantFound: true,
		},
		{
			name: "Two in a row, open start",
			board: game.Board{
				{"", X, X},
				{"", "", ""},
				{"", "", ""},
			},
			want: game.Move{Row: 0, Col: 0}, wantFound: true,
		},
		{
			name: "Column",
			board: game.Board{
				{"", "", ""},
				{"", "", X},
				{"", "", X},
			},
			want: game.Move{Row: 0, Col: 2}, wantFound: true,
		},
		{
			name: "Anti-diagonal from the bottom",
			board: game.Board{
				{"", "", ""},
				{"", X, ""},
				{X, "", ""},
			},
			want: game.Move{Row: 0, Col: 2}, wantFound: true,
		},
		{
			name: "Gap is not a block",
			board: game.Board{
				{X, "", X},
				{"", "", ""},
				{"", "", ""},
			},
		},
		{
			name: "Already blocked",
			board: game.Board{
				{X, X, O},
				{"", "", ""},
				{"", "", ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := findBlockingMove(tt.board, X)
			if found != tt.wantFound || (found && got != tt.want) {
				t.Errorf("findBlockingMove() got (%v, %v), want (%v, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestFindGapMove(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		want      game.Move
		wantFound bool
	}{
		{
			name:  "Row",
			board: game.Board{{"", "", ""}, {"", "", ""}, {X, "", X}},
			want:  game.Move{Row: 2, Col: 1}, wantFound: true,
		},
		{
			name:  "Column maps to the middle of that column",
			board: game.Board{{"", X, ""}, {"", "", ""}, {"", X, ""}},
			want:  game.Move{Row: 1, Col: 1}, wantFound: true,
		},
		{
			name:  "Right column",
			board: game.Board{{"", "", X}, {"", "", ""}, {"", "", X}},
			want:  game.Move{Row: 1, Col: 2}, wantFound: true,
		},
		{
			name:  "Main diagonal",
			board: game.Board{{X, "", ""}, {"", "", ""}, {"", "", X}},
			want:  game.Move{Row: 1, Col: 1}, wantFound: true,
		},
		{
			name:  "Anti-diagonal",
			board: game.Board{{"", "", X}, {"", "", ""}, {X, "", ""}},
			want:  game.Move{Row: 1, Col: 1}, wantFound: true,
		},
		{
			name:  "Middle taken",
			board: game.Board{{X, O, X}, {"", "", ""}, {"", "", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := findGapMove(tt.board, X)
			if found != tt.wantFound || (found && got != tt.want) {
				t.Errorf("findGapMove() got (%v, %v), want (%v, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestEasyMove(t *testing.T) {
	t.Run("Only one spot left", func(t *testing.T) {
		board := game.Board{
			{X, O, X},
			{O, X, O},
			{X, "", O},
		}
		move, err := easyMove(board, newRand())
		if err != nil || move != (game.Move{Row: 2, Col: 1}) {
			t.Errorf("easyMove should pick the only available spot (2,1), but got %v, %v", move, err)
		}
	})

	t.Run("Always picks an empty cell", func(t *testing.T) {
		board := game.Board{
			{X, "", ""},
			{"", O, ""},
			{"", "", X},
		}
		rng := newRand()
		seen := map[game.Move]bool{}
		for range 200 {
			move, err := easyMove(board, rng)
			if err != nil {
				t.Fatalf("easyMove() unexpected error: %v", err)
			}
			if !board.IsEmpty(move.Row, move.Col) {
				t.Fatalf("easyMove returned occupied cell %v", move)
			}
			seen[move] = true
		}
		if len(seen) != len(board.EmptyCells()) {
			t.Errorf("easyMove covered %d of %d empty cells over 200 runs", len(seen), len(board.EmptyCells()))
		}
	})

	t.Run("Same seed, same sequence", func(t *testing.T) {
		a, b := newRand(), newRand()
		for range 20 {
			m1, _ := easyMove(game.Board{}, a)
			m2, _ := easyMove(game.Board{}, b)
			if m1 != m2 {
				t.Fatalf("seeded sources diverged: %v vs %v", m1, m2)
			}
		}
	})

	t.Run("Full board", func(t *testing.T) {
		board := game.Board{
			{X, O, X},
			{O, X, O},
			{X, O, X},
		}
		if _, err := easyMove(board, newRand()); !errors.Is(err, ErrNoMoveAvailable) {
			t.Errorf("easyMove on a full board: got %v, want ErrNoMoveAvailable", err)
		}
	})
}

func TestCalculateNextMove(t *testing.T) {
	t.Run("Hard fills the gap between two opponent marks", func(t *testing.T) {
		board := game.Board{
			{X, "", X},
			{"", "", ""},
			{"", "", ""},
		}
		for range 20 {
			move, err := CalculateNextMove(board, O, Hard, newRand())
			if err != nil || move != (game.Move{Row: 0, Col: 1}) {
				t.Fatalf("Hard got %v, %v; want (0,1)", move, err)
			}
		}
	})

	t.Run("Win-now fires before block at Medium and Hard", func(t *testing.T) {
		board := game.Board{
			{O, O, ""},
			{X, X, ""},
			{"", "", ""},
		}
		for _, d := range []Difficulty{Medium, Hard} {
			move, err := CalculateNextMove(board, O, d, newRand())
			if err != nil || move != (game.Move{Row: 0, Col: 2}) {
				t.Errorf("%s got %v, %v; want (0,2)", d, move, err)
			}
		}
	})

	t.Run("Win-now on an otherwise empty board", func(t *testing.T) {
		board := game.Board{
			{O, O, ""},
			{"", "", ""},
			{"", "", ""},
		}
		for _, d := range []Difficulty{Medium, Hard} {
			move, err := CalculateNextMove(board, O, d, newRand())
			if err != nil || move != (game.Move{Row: 0, Col: 2}) {
				t.Errorf("%s got %v, %v; want (0,2)", d, move, err)
			}
		}
	})

	t.Run("Gaps are scanned rows first", func(t *testing.T) {
		board := game.Board{
			{X, "", X},
			{"", "", ""},
			{X, "", O},
		}
		// Row 0 and column 0 are both gaps.
		move, err := CalculateNextMove(board, O, Hard, newRand())
		if err != nil || move != (game.Move{Row: 0, Col: 1}) {
			t.Errorf("Hard got %v, %v; want (0,1)", move, err)
		}
	})

	t.Run("Block before gap at Hard", func(t *testing.T) {
		board := game.Board{
			{X, "", X},
			{"", X, ""},
			{"", "", O},
		}
		// The anti-diagonal reads X X _ from the top right.
		move, err := CalculateNextMove(board, O, Hard, newRand())
		if err != nil || move != (game.Move{Row: 2, Col: 0}) {
			t.Errorf("Hard got %v, %v; want (2,0)", move, err)
		}
	})

	t.Run("Medium blocks", func(t *testing.T) {
		board := game.Board{
			{"", "", ""},
			{"", X, ""},
			{"", X, O},
		}
		move, err := CalculateNextMove(board, O, Medium, newRand())
		if err != nil || move != (game.Move{Row: 0, Col: 1}) {
			t.Errorf("Medium got %v, %v; want (0,1)", move, err)
		}
	})

	t.Run("Easy ignores patterns but stays legal", func(t *testing.T) {
		board := game.Board{
			{O, O, ""},
			{X, X, ""},
			{X, "", ""},
		}
		rng := newRand()
		for range 50 {
			move, err := CalculateNextMove(board, O, Easy, rng)
			if err != nil || !board.IsEmpty(move.Row, move.Col) {
				t.Fatalf("Easy got %v, %v", move, err)
			}
		}
	})

	t.Run("Unknown difficulty plays randomly", func(t *testing.T) {
		move, err := CalculateNextMove(game.Board{}, O, Difficulty("impossible"), newRand())
		if err != nil || !(game.Board{}).IsEmpty(move.Row, move.Col) {
			t.Errorf("got %v, %v", move, err)
		}
	})

	t.Run("Full board fails at every difficulty", func(t *testing.T) {
		board := game.Board{
			{X, O, X},
			{X, O, O},
			{O, X, X},
		}
		for _, d := range []Difficulty{Easy, Medium, Hard} {
			if _, err := CalculateNextMove(board, O, d, newRand()); !errors.Is(err, ErrNoMoveAvailable) {
				t.Errorf("%s: got %v, want ErrNoMoveAvailable", d, err)
			}
		}
	})
}

func TestParseDifficulty(t *testing.T) {
	for _, in := range []string{"easy", "Medium", " HARD "} {
		d, err := ParseDifficulty(in)
		if err != nil {
			t.Errorf("ParseDifficulty(%q) unexpected error: %v", in, err)
		}
		if !slices.Contains([]Difficulty{Easy, Medium, Hard}, d) {
			t.Errorf("ParseDifficulty(%q) = %q", in, d)
		}
	}
	if _, err := ParseDifficulty("nightmare"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("ParseDifficulty(nightmare) error = %v, want ErrUnknownDifficulty", err)
	}
}
