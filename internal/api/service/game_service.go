package service

import (
	"context"
	"ctchen222/Tic-Tac-Toe-AI/internal/api/models"
	"ctchen222/Tic-Tac-Toe-AI/internal/bot"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"ctchen222/Tic-Tac-Toe-AI/internal/repository"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("service.game")

// ErrInvalidDifficulty wraps difficulty parse failures.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// GameService defines the game use cases exposed over HTTP and WebSocket.
type GameService interface {
	Create(ctx context.Context, difficulty string) (*models.GameResponse, error)
	Get(ctx context.Context, id string) (*models.GameResponse, error)
	Play(ctx context.Context, id, token string, x, y int) (*models.GameResponse, error)
	Delete(ctx context.Context, id, token string) error
}

// BotFactory builds the computer player for one move.
type BotFactory func(bot.Difficulty) *bot.Ai

// NewBotFactory returns a BotFactory playing Medium with the given
// probability of optimal play.
func NewBotFactory(mediumOptimalProbability float64) BotFactory {
	return func(d bot.Difficulty) *bot.Ai {
		if d == bot.Medium {
			return bot.New(d, bot.WithOptimalProbability(mediumOptimalProbability))
		}
		return bot.New(d)
	}
}

type gameService struct {
	gameRepo repository.GameRepository
	newBot   BotFactory
	tokens   *tokenIssuer
	newID    func() string

	// locks serialises moves on the same game within this process.
	locks sync.Map
}

// NewGameService creates a new GameService.
func NewGameService(gameRepo repository.GameRepository, newBot BotFactory, jwtSecret string) GameService {
	return &gameService{
		gameRepo: gameRepo,
		newBot:   newBot,
		tokens:   &tokenIssuer{secret: []byte(jwtSecret), now: time.Now},
		newID:    uuid.NewString,
	}
}

// Create starts a new game with the human to move.
func (s *gameService) Create(ctx context.Context, difficulty string) (*models.GameResponse, error) {
	ctx, span := tracer.Start(ctx, "GameService.Create", trace.WithAttributes(
		attribute.String("game.difficulty", difficulty),
	))
	defer span.End()

	d, err := bot.ParseDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDifficulty, err)
	}

	g := game.NewGame(s.newID(), d.String())
	span.SetAttributes(attribute.String("game.id", g.ID))

	if err := s.gameRepo.Create(ctx, g); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create game")
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	token, err := s.tokens.issue(g.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue token")
		return nil, err
	}

	slog.InfoContext(ctx, "Game created", "game.id", g.ID, "game.difficulty", g.Difficulty)
	resp := models.NewGameResponse(g)
	resp.Token = token
	return resp, nil
}

// Get returns the current state of a game.
func (s *gameService) Get(ctx context.Context, id string) (*models.GameResponse, error) {
	ctx, span := tracer.Start(ctx, "GameService.Get", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	g, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return models.NewGameResponse(g), nil
}

// Play applies the human move at (x, y) and, if the game goes on, the bot's
// reply.
func (s *gameService) Play(ctx context.Context, id, token string, x, y int) (*models.GameResponse, error) {
	ctx, span := tracer.Start(ctx, "GameService.Play", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.Int("move.x", x),
		attribute.Int("move.y", y),
	))
	defer span.End()

	if err := s.tokens.verify(token, id); err != nil {
		span.SetStatus(codes.Error, "Invalid token")
		return nil, err
	}

	unlock := s.lock(id)
	defer unlock()

	g, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := g.Move(game.Human, x, y); err != nil {
		slog.WarnContext(ctx, "invalid move from player", "game.id", id, "x", x, "y", y, "error", err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.SetStatus(codes.Error, "Invalid move")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("move.valid", true))

	var (
		botMove  *game.Coord
		botStats *bot.Stats
	)
	if !g.IsOver() {
		move, stats, err := s.botMove(ctx, g)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Bot failed to move")
			return nil, err
		}
		botMove, botStats = &move, &stats
	}

	if err := s.gameRepo.Save(ctx, g); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save game")
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	if g.IsOver() {
		slog.InfoContext(ctx, "Game finished", "game.id", id, "winner", string(g.Winner), "draw", g.IsDraw())
	}

	resp := models.NewGameResponse(g)
	resp.BotMove = botMove
	resp.Bot = botStats
	return resp, nil
}

func (s *gameService) botMove(ctx context.Context, g *game.Game) (game.Coord, bot.Stats, error) {
	d, err := bot.ParseDifficulty(g.Difficulty)
	if err != nil {
		return game.Coord{}, bot.Stats{}, fmt.Errorf("stored game %s: %w", g.ID, err)
	}

	ai := s.newBot(d)
	move, err := ai.MakeMove(ctx, &g.Board)
	if err != nil {
		// The game was checked to be running, so this is a broken invariant.
		return game.Coord{}, bot.Stats{}, fmt.Errorf("bot move in game %s: %w", g.ID, err)
	}
	g.Sync()
	return move, ai.Stats(), nil
}

// Delete abandons a game.
func (s *gameService) Delete(ctx context.Context, id, token string) error {
	ctx, span := tracer.Start(ctx, "GameService.Delete", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	if err := s.tokens.verify(token, id); err != nil {
		return err
	}
	if err := s.gameRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.locks.Delete(id)
	slog.InfoContext(ctx, "Game deleted", "game.id", id)
	return nil
}

func (s *gameService) lock(id string) func() {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
