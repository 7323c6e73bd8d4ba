// Package player holds the persisted per-player record and its line format.
package player

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"ctchen222/tictactoe-local/internal/validator"
)

// Reserved players always exist and never show up in menus or standings.
const (
	Computer  = "Android"
	PlayerOne = "Player One"
	PlayerTwo = "Player Two"
)

const (
	// MaxNameLength bounds names entered by users.
	MaxNameLength = 30

	// NeverPlayed is the LastPlayed value of a record with no games.
	NeverPlayed = "---"

	// LastPlayedLayout renders timestamps like "Mar 7 at 9:41 PM".
	LastPlayedLayout = "Jan 2 at 3:04 PM"

	fieldCount = 7
)

var (
	ErrInvalidName   = errors.New("invalid player name")
	ErrInvalidRecord = errors.New("invalid player record")
	ErrUnknownEvent  = errors.New("unknown stat event")
)

// ReservedNames lists the reserved players in file order.
func ReservedNames() []string {
	return []string{Computer, PlayerOne, PlayerTwo}
}

// IsReserved reports whether name belongs to a reserved player.
func IsReserved(name string) bool {
	return slices.Contains(ReservedNames(), name)
}

// Event is the outcome of one game from a player's point of view.
type Event string

const (
	EventWin  Event = "win"
	EventLoss Event = "loss"
	EventTie  Event = "tie"
)

// ParseEvent converts "win", "loss" or "tie".
func ParseEvent(s string) (Event, error) {
	switch e := Event(s); e {
	case EventWin, EventLoss, EventTie:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
}

// Record is one line of the player data file.
type Record struct {
	Name          string `json:"name" db:"name"`
	TotalGames    int    `json:"totalGames" db:"total_games"`
	Losses        int    `json:"losses" db:"losses"`
	Ties          int    `json:"ties" db:"ties"`
	Wins          int    `json:"wins" db:"wins"`
	WinPercentage string `json:"winPercentage" db:"win_percentage"`
	LastPlayed    string `json:"lastPlayed" db:"last_played"`
}

// NewRecord returns a record with zeroed stats.
func NewRecord(name string) Record {
	r := Record{Name: name}
	r.Reset()
	return r
}

// Reset zeroes every counter and keeps the name.
func (r *Record) Reset() {
	r.TotalGames, r.Losses, r.Ties, r.Wins = 0, 0, 0, 0
	r.WinPercentage = FormatWinPercentage(0, 0)
	r.LastPlayed = NeverPlayed
}

// Apply counts one finished game and stamps LastPlayed with now.
func (r *Record) Apply(event Event, now time.Time) error {
	switch event {
	case EventWin:
		r.Wins++
	case EventLoss:
		r.Losses++
	case EventTie:
		r.Ties++
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	r.TotalGames++
	r.WinPercentage = FormatWinPercentage(r.Wins, r.TotalGames)
	r.LastPlayed = now.Format(LastPlayedLayout)
	return nil
}

// FormatWinPercentage renders wins/total as a percentage rounded to two
// decimals, without trailing zeros: 2 of 3 is "66.67%", 1 of 2 is "50%".
func FormatWinPercentage(wins, total int) string {
	if total <= 0 {
		return "0%"
	}
	pct := math.Round(float64(wins)/float64(total)*100*100) / 100
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// FormatLine encodes the record as name,totalGames,losses,ties,wins,winPercentage,lastPlayed.
func (r Record) FormatLine() string {
	return strings.Join([]string{
		r.Name,
		strconv.Itoa(r.TotalGames),
		strconv.Itoa(r.Losses),
		strconv.Itoa(r.Ties),
		strconv.Itoa(r.Wins),
		r.WinPercentage,
		r.LastPlayed,
	}, ",")
}

// ParseLine decodes a line produced by FormatLine.
func ParseLine(line string) (Record, error) {
	parts := strings.Split(strings.TrimRight(line, "\r"), ",")
	if len(parts) != fieldCount {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrInvalidRecord, fieldCount, len(parts))
	}
	if parts[0] == "" {
		return Record{}, fmt.Errorf("%w: empty name", ErrInvalidRecord)
	}

	counters := make([]int, 4)
	for i := range counters {
		n, err := strconv.Atoi(parts[i+1])
		if err != nil || n < 0 {
			return Record{}, fmt.Errorf("%w: bad counter %q for %s", ErrInvalidRecord, parts[i+1], parts[0])
		}
		counters[i] = n
	}

	return Record{
		Name:          parts[0],
		TotalGames:    counters[0],
		Losses:        counters[1],
		Ties:          counters[2],
		Wins:          counters[3],
		WinPercentage: parts[5],
		LastPlayed:    parts[6],
	}, nil
}

// NormalizeName trims surrounding whitespace and checks the result can be stored.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validator.GetValidator().Var(name, fmt.Sprintf("required,max=%d,playername", MaxNameLength)); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

// Standings returns the non-reserved records sorted by name.
func Standings(records []Record) []Record {
	standings := make([]Record, 0, len(records))
	for _, r := range records {
		if !IsReserved(r.Name) {
			standings = append(standings, r)
		}
	}
	slices.SortFunc(standings, func(a, b Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	return standings
}

// Selectable returns the names offered in player-selection menus.
func Selectable(records []Record) []string {
	standings := Standings(records)
	names := make([]string, len(standings))
	for i, r := range standings {
		names[i] = r.Name
	}
	return names
}
