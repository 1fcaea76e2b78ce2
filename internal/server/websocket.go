package server

import (
	"context"
	"ctchen222/Tic-Tac-Toe-AI/internal/api/controller"
	"ctchen222/Tic-Tac-Toe-AI/internal/api/models"
	"ctchen222/Tic-Tac-Toe-AI/internal/api/response"
	"ctchen222/Tic-Tac-Toe-AI/internal/api/service"
	"ctchen222/Tic-Tac-Toe-AI/internal/bot"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"ctchen222/Tic-Tac-Toe-AI/internal/validator"
	"ctchen222/Tic-Tac-Toe-AI/pkg/proto"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Connection is the part of a websocket connection a session needs.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// handleWebSocket upgrades the connection and plays games against the bot
// over it until the client goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	difficulty := c.DefaultQuery("difficulty", "easy")
	if _, err := bot.ParseDifficulty(difficulty); err != nil {
		span.SetStatus(codes.Error, "Invalid difficulty")
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.String("game.difficulty", difficulty))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	sess := &session{conn: conn, gameService: s.gameService, difficulty: difficulty}
	sess.run(ctx)
}

// session is one client playing consecutive games.
type session struct {
	conn        Connection
	gameService service.GameService
	difficulty  string

	gameID string
	token  string
}

func (s *session) run(ctx context.Context) {
	defer func() {
		s.conn.Close()
		s.abandon(ctx)
	}()

	if err := s.start(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to start websocket game", "error", err)
		return
	}

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			slog.DebugContext(ctx, "websocket closed", "game.id", s.gameID, "error", err)
			return
		}
		if err := s.handleMessage(ctx, raw); err != nil {
			slog.WarnContext(ctx, "failed to write to websocket", "game.id", s.gameID, "error", err)
			return
		}
	}
}

// start creates a new game and tells the client about it.
func (s *session) start(ctx context.Context) error {
	resp, err := s.gameService.Create(ctx, s.difficulty)
	if err != nil {
		return err
	}
	s.gameID, s.token = resp.ID, resp.Token

	if err := s.send(proto.PlayerAssignmentMessage{
		Type:       proto.TypeAssignment,
		GameID:     resp.ID,
		Mark:       game.Human,
		Difficulty: resp.Difficulty,
	}); err != nil {
		return err
	}
	return s.send(updateMessage(resp))
}

// handleMessage answers one client message. Only transport errors are
// returned; game errors are reported to the client.
func (s *session) handleMessage(ctx context.Context, raw []byte) error {
	var msg proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return s.sendError(fmt.Sprintf("malformed message: %v", err))
	}
	if err := validator.GetValidator().Struct(msg); err != nil {
		return s.sendError(validator.Describe(err))
	}

	switch msg.Type {
	case proto.TypeMove:
		resp, err := s.gameService.Play(ctx, s.gameID, s.token, msg.Position[0], msg.Position[1])
		if err != nil {
			if controller.StatusFor(err) == http.StatusInternalServerError {
				slog.ErrorContext(ctx, "websocket move failed", "game.id", s.gameID, "error", err)
				return s.sendError("internal error")
			}
			return s.sendError(err.Error())
		}
		return s.send(updateMessage(resp))

	case proto.TypeRestart:
		s.abandon(ctx)
		if err := s.start(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to restart websocket game", "error", err)
			return s.sendError("internal error")
		}
	}
	return nil
}

// abandon deletes the current game, if any.
func (s *session) abandon(ctx context.Context) {
	if s.gameID == "" {
		return
	}
	if err := s.gameService.Delete(ctx, s.gameID, s.token); err != nil {
		slog.WarnContext(ctx, "failed to delete abandoned game", "game.id", s.gameID, "error", err)
	}
	s.gameID, s.token = "", ""
}

func (s *session) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *session) sendError(reason string) error {
	return s.send(proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason})
}

func updateMessage(resp *models.GameResponse) proto.ServerToClientMessage {
	msg := proto.ServerToClientMessage{
		Type:   proto.TypeUpdate,
		GameID: resp.ID,
		Board:  resp.Board,
		Next:   resp.Next,
		Winner: resp.Winner,
		Draw:   resp.Draw,
		Bot:    resp.Bot,
	}
	if resp.BotMove != nil {
		msg.BotMove = []int{resp.BotMove.X, resp.BotMove.Y}
	}
	return msg
}
