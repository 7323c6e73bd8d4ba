package game

import (
	"errors"
	"fmt"
	"strings"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2

	// Size is the number of rows and columns.
	Size = 3
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrOutOfRange   = fmt.Errorf("%w: position out of range", ErrIllegalMove)
	ErrCellOccupied = fmt.Errorf("%w: cell already occupied", ErrIllegalMove)
	ErrInvalidMark  = fmt.Errorf("%w: invalid mark", ErrIllegalMove)
)

// Opponent returns the other player's mark. None maps to None.
func Opponent(mark PlayerMark) PlayerMark {
	switch mark {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// Move is a target cell on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index returns the row-major cell number 0..8.
func (m Move) Index() int {
	return m.Row*Size + m.Col
}

// MoveFromIndex converts a row-major cell number back to a Move.
func MoveFromIndex(i int) Move {
	return Move{Row: i / Size, Col: i % Size}
}

// Board is a fixed 3x3 grid. It is a value type: Place returns a new board
// and leaves the receiver untouched.
type Board [Size][Size]PlayerMark

// InBounds reports whether (row, col) addresses a cell.
func InBounds(row, col int) bool {
	return row >= BorderMin && row <= BorderMax && col >= BorderMin && col <= BorderMax
}

// Place returns a copy of the board with mark written at (row, col).
func (b Board) Place(row, col int, mark PlayerMark) (Board, error) {
	if !InBounds(row, col) {
		return b, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, row, col)
	}
	if mark != PlayerX && mark != PlayerO {
		return b, fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}
	if b[row][col] != None {
		return b, fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, row, col)
	}

	b[row][col] = mark
	return b, nil
}

// IsEmpty reports whether the cell holds no mark. Out-of-range cells are not empty.
func (b Board) IsEmpty(row, col int) bool {
	return InBounds(row, col) && b[row][col] == None
}

// TokenAt returns the mark at (row, col), or None when out of range.
func (b Board) TokenAt(row, col int) PlayerMark {
	if !InBounds(row, col) {
		return None
	}
	return b[row][col]
}

// EmptyCells lists the empty cells in row-major order.
func (b Board) EmptyCells() []Move {
	var moves []Move
	for r := range [Size]int{} {
		for c := range [Size]int{} {
			if b[r][c] == None {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// IsFull reports whether every cell holds a mark.
func (b Board) IsFull() bool {
	for r := range [Size]int{} {
		for c := range [Size]int{} {
			if b[r][c] == None {
				return false
			}
		}
	}
	return true
}

// at reads a cell by row-major index.
func (b Board) at(i int) PlayerMark {
	return b[i/Size][i%Size]
}

// Flatten returns the cells in row-major order.
func (b Board) Flatten() [Size * Size]PlayerMark {
	var cells [Size * Size]PlayerMark
	for i := range cells {
		cells[i] = b.at(i)
	}
	return cells
}

// Rows converts the board to a slice of slices, the shape sent to clients.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, Size)
	for i := range [Size]int{} {
		rows[i] = make([]PlayerMark, Size)
		copy(rows[i], b[i][:])
	}
	return rows
}

// String renders the board as "X|_|O/...", one segment per row.
func (b Board) String() string {
	var sb strings.Builder
	for r := range [Size]int{} {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := range [Size]int{} {
			if c > 0 {
				sb.WriteByte('|')
			}
			if b[r][c] == None {
				sb.WriteByte('_')
			} else {
				sb.WriteString(string(b[r][c]))
			}
		}
	}
	return sb.String()
}
