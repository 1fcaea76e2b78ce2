package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// testGameRepository exercises the behaviour every GameRepository shares.
func testGameRepository(t *testing.T, repo GameRepository) {
	ctx := context.Background()

	t.Run("Create and find", func(t *testing.T) {
		g := game.NewGame("create-1", "hard")
		require.NoError(t, repo.Create(ctx, g))

		got, err := repo.FindByID(ctx, "create-1")
		require.NoError(t, err)
		assert.Equal(t, g, got)
	})

	t.Run("Create twice", func(t *testing.T) {
		g := game.NewGame("create-2", "easy")
		require.NoError(t, repo.Create(ctx, g))
		assert.ErrorIs(t, repo.Create(ctx, g), ErrGameExists)
	})

	t.Run("Find unknown", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("Save keeps the board", func(t *testing.T) {
		g := game.NewGame("save-1", "medium")
		require.NoError(t, repo.Create(ctx, g))
		require.NoError(t, g.Move(game.X, 1, 1))
		require.NoError(t, repo.Save(ctx, g))

		got, err := repo.FindByID(ctx, "save-1")
		require.NoError(t, err)
		assert.Equal(t, game.X, got.Board.Get(1, 1))
		assert.Equal(t, game.O, got.CurrentTurn)
		assert.Equal(t, 1, got.Moves)
	})

	t.Run("Save unknown", func(t *testing.T) {
		assert.ErrorIs(t, repo.Save(ctx, game.NewGame("save-missing", "easy")), ErrGameNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		g := game.NewGame("delete-1", "easy")
		require.NoError(t, repo.Create(ctx, g))
		require.NoError(t, repo.Delete(ctx, "delete-1"))
		_, err := repo.FindByID(ctx, "delete-1")
		assert.ErrorIs(t, err, ErrGameNotFound)
		assert.NoError(t, repo.Delete(ctx, "delete-1"))
	})
}

func TestMemoryGameRepository(t *testing.T) {
	testGameRepository(t, NewMemoryGameRepository(time.Hour))
}

func TestMemoryGameRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryGameRepository(time.Minute).(*memoryGameRepository)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Create(ctx, game.NewGame("g", "easy")))

	now = now.Add(59 * time.Second)
	_, err := repo.FindByID(ctx, "g")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = repo.FindByID(ctx, "g")
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.NoError(t, repo.Create(ctx, game.NewGame("g", "easy")), "expired id can be reused")
}

func TestRedisGameRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })

	testGameRepository(t, NewGameRepository(rdb, time.Hour))

	ttl, err := rdb.TTL(ctx, gameKey("create-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "games must expire")
}
