package bot

import (
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"fmt"
	"strings"
)

// Difficulty selects how often the bot plays the optimal move.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty maps "easy", "medium" and "hard" to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("unknown difficulty %q", s)
	}
}

// optimalProbability is the default chance of running the search for d.
func (d Difficulty) optimalProbability() float64 {
	switch d {
	case Hard:
		return 1
	case Medium:
		return 0.5
	default:
		return 0
	}
}

// winningLines lists every line in scan order: rows, columns, then the two
// diagonals.
var winningLines = [8][3]game.Coord{
	{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
	{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
	{{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}},
	{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
	{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}},
	{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}},
	{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}},
	{{X: 2, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 2}},
}

// findWinningMove checks if a player has a potential winning move (two in a line with the third free).
func findWinningMove(b *game.Board, mark game.Cell) (game.Coord, bool) {
	for _, line := range winningLines {
		owned := 0
		var free game.Coord
		hasFree := false
		for _, c := range line {
			switch b.Get(c.X, c.Y) {
			case mark:
				owned++
			case game.Free:
				free = c
				hasFree = true
			}
		}
		if owned == 2 && hasFree {
			return free, true
		}
	}
	return game.Coord{}, false
}
