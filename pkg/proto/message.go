package proto

import (
	"ctchen222/Tic-Tac-Toe-AI/internal/bot"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
)

// Message types
const (
	TypeMove       = "move"
	TypeRestart    = "restart"
	TypeAssignment = "assignment"
	TypeUpdate     = "update"
	TypeError      = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string `json:"type" validate:"required,oneof=move restart"`
	Position []int  `json:"position,omitempty" validate:"required_if=Type move,omitempty,len=2,dive,min=0,max=2"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type    string        `json:"type" validate:"required"`
	Reason  string        `json:"reason,omitempty"`
	GameID  string        `json:"gameId,omitempty"`
	Board   [][]game.Cell `json:"board,omitempty"`
	Next    game.Cell     `json:"next,omitempty"`
	Winner  game.Cell     `json:"winner,omitempty"`
	Draw    bool          `json:"draw,omitempty"`
	BotMove []int         `json:"botMove,omitempty"`
	Bot     *bot.Stats    `json:"bot,omitempty"`
}

// PlayerAssignmentMessage informs the player of their mark and the bot's difficulty.
type PlayerAssignmentMessage struct {
	Type       string    `json:"type"`
	GameID     string    `json:"gameId"`
	Mark       game.Cell `json:"mark"`
	Difficulty string    `json:"difficulty"`
}
