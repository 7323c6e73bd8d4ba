package game

// Result is the terminal status of a board.
type Result string

const (
	InProgress Result = "in_progress"
	Win        Result = "win"
	Draw       Result = "draw"
)

// Lines holds the 8 winning triples as row-major indices, in evaluation
// order: rows, columns, then the two diagonals.
var Lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome is the result of evaluating a board.
// Line is only set when Result is Win.
type Outcome struct {
	Result Result     `json:"result"`
	Winner PlayerMark `json:"winner,omitempty"`
	Line   []int      `json:"line,omitempty"`
}

// IsTerminal reports whether the game can no longer continue.
func (o Outcome) IsTerminal() bool {
	return o.Result == Win || o.Result == Draw
}

// Evaluate checks every line in order and reports the first completed one,
// a draw when the board is full, or InProgress.
func Evaluate(b Board) Outcome {
	for _, line := range Lines {
		first := b.at(line[0])
		if first != None && first == b.at(line[1]) && first == b.at(line[2]) {
			return Outcome{
				Result: Win,
				Winner: first,
				Line:   []int{line[0], line[1], line[2]},
			}
		}
	}

	if b.IsFull() {
		return Outcome{Result: Draw}
	}

	return Outcome{Result: InProgress}
}
