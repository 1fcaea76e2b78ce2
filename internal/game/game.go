package game

import (
	"errors"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Human and Computer are the marks assigned to each side. The human always
// opens the game.
const (
	Human    = X
	Computer = O
)

var (
	ErrGameOver    = errors.New("game already finished")
	ErrOutOfBounds = errors.New("move out of bounds")
	ErrIllegalMove = errors.New("cell already occupied")
	ErrNotYourTurn = errors.New("not player's turn")
)

type Game struct {
	ID          string `json:"id"`
	Board       Board  `json:"board"`
	CurrentTurn Cell   `json:"current_turn"`
	Winner      Cell   `json:"winner"`
	Status      Status `json:"status"`
	Difficulty  string `json:"difficulty"`
	Moves       int    `json:"moves"`
}

func NewGame(id, difficulty string) *Game {
	return &Game{
		ID:          id,
		Board:       NewBoard(),
		CurrentTurn: Human,
		Winner:      Free,
		Status:      StatusInProgress,
		Difficulty:  difficulty,
	}
}

// Move applies a move for mark at (x, y).
func (g *Game) Move(mark Cell, x, y int) error {
	if g.IsOver() {
		return ErrGameOver
	}
	if !inBounds(x, y) {
		return ErrOutOfBounds
	}
	if mark != g.CurrentTurn {
		return ErrNotYourTurn
	}
	if !g.Board.MakeMove(x, y, mark) {
		return ErrIllegalMove
	}
	g.Sync()
	return nil
}

// Sync recomputes winner, status and turn after the board was changed
// directly, e.g. by the computer player.
func (g *Game) Sync() {
	free := len(g.Board.GetFree())
	g.Moves = len(g.Board) - free
	g.Winner = g.Board.HasWon()
	if g.Winner != Free || g.Board.IsFull() {
		g.Status = StatusFinished
		return
	}

	// X opens, so an odd number of free cells means X is next.
	if free%2 == 1 {
		g.CurrentTurn = X
	} else {
		g.CurrentTurn = O
	}
}

// IsDraw checks if the game is a draw.
func (g *Game) IsDraw() bool {
	return g.Winner == Free && g.Board.IsFull()
}

// IsOver reports whether the game has a winner or the board is full.
func (g *Game) IsOver() bool {
	return g.Status == StatusFinished
}
