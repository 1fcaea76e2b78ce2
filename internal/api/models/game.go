package models

import (
	"ctchen222/Tic-Tac-Toe-AI/internal/bot"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
)

// CreateGameRequest starts a game against the bot.
type CreateGameRequest struct {
	Difficulty string `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

// MoveRequest is the human move. Pointers let 0 pass the required check.
type MoveRequest struct {
	X *int `json:"x" binding:"required,min=0,max=2"`
	Y *int `json:"y" binding:"required,min=0,max=2"`
}

// GameResponse is the public view of a game.
type GameResponse struct {
	ID         string        `json:"id"`
	Token      string        `json:"token,omitempty"`
	Board      [][]game.Cell `json:"board"`
	Next       game.Cell     `json:"next,omitempty"`
	Winner     game.Cell     `json:"winner,omitempty"`
	Draw       bool          `json:"draw"`
	Status     game.Status   `json:"status"`
	Difficulty string        `json:"difficulty"`
	Moves      int           `json:"moves"`
	BotMove    *game.Coord   `json:"bot_move,omitempty"`
	Bot        *bot.Stats    `json:"bot,omitempty"`
}

// NewGameResponse builds the response for g.
func NewGameResponse(g *game.Game) *GameResponse {
	resp := &GameResponse{
		ID:         g.ID,
		Board:      g.Board.Rows(),
		Winner:     g.Winner,
		Draw:       g.IsDraw(),
		Status:     g.Status,
		Difficulty: g.Difficulty,
		Moves:      g.Moves,
	}
	if !g.IsOver() {
		resp.Next = g.CurrentTurn
	}
	return resp
}
