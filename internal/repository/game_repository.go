package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

//go:generate mockgen -source=game_repository.go -destination=mock_repository.go -package=repository

var tracer = otel.Tracer("repository.game")

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameRepository stores games that are still being played. Entries expire
// after the configured TTL; nothing is kept once a game is abandoned.
type GameRepository interface {
	Create(ctx context.Context, g *game.Game) error
	FindByID(ctx context.Context, id string) (*game.Game, error)
	Save(ctx context.Context, g *game.Game) error
	Delete(ctx context.Context, id string) error
}

type redisGameRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGameRepository creates a new Redis-based GameRepository.
func NewGameRepository(rdb *redis.Client, ttl time.Duration) GameRepository {
	return &redisGameRepository{rdb: rdb, ttl: ttl}
}

func gameKey(id string) string {
	return fmt.Sprintf("game:%s", id)
}

// Create stores a new game, failing if the id is taken.
func (r *redisGameRepository) Create(ctx context.Context, g *game.Game) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Create")
	defer span.End()

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	ok, err := r.rdb.SetNX(ctx, gameKey(g.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create game in redis: %w", err)
	}
	if !ok {
		return ErrGameExists
	}
	return nil
}

// FindByID retrieves the current game state from Redis.
func (r *redisGameRepository) FindByID(ctx context.Context, id string) (*game.Game, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID")
	defer span.End()

	data, err := r.rdb.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game from redis: %w", err)
	}

	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &g, nil
}

// Save overwrites an existing game and refreshes its TTL.
func (r *redisGameRepository) Save(ctx context.Context, g *game.Game) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Save")
	defer span.End()

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	ok, err := r.rdb.SetXX(ctx, gameKey(g.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save game in redis: %w", err)
	}
	if !ok {
		return ErrGameNotFound
	}
	return nil
}

// Delete removes a game. Deleting an unknown game is not an error.
func (r *redisGameRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Delete")
	defer span.End()

	if err := r.rdb.Del(ctx, gameKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete game from redis: %w", err)
	}
	return nil
}
