package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"sync"
	"time"
)

type memoryEntry struct {
	game      game.Game
	expiresAt time.Time
}

type memoryGameRepository struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	games map[string]memoryEntry
}

// NewMemoryGameRepository creates a GameRepository kept in process memory,
// used when no Redis server is configured.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGameRepository{
		ttl:   ttl,
		now:   time.Now,
		games: make(map[string]memoryEntry),
	}
}

func (r *memoryGameRepository) Create(_ context.Context, g *game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lookup(g.ID); ok {
		return ErrGameExists
	}
	r.games[g.ID] = memoryEntry{game: *g, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *memoryGameRepository) FindByID(_ context.Context, id string) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookup(id)
	if !ok {
		return nil, ErrGameNotFound
	}
	g := e.game
	return &g, nil
}

func (r *memoryGameRepository) Save(_ context.Context, g *game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lookup(g.ID); !ok {
		return ErrGameNotFound
	}
	r.games[g.ID] = memoryEntry{game: *g, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *memoryGameRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.games, id)
	return nil
}

// lookup returns a live entry, dropping it if it has expired. r.mu must be held.
func (r *memoryGameRepository) lookup(id string) (memoryEntry, bool) {
	e, ok := r.games[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.games, id)
		return memoryEntry{}, false
	}
	return e, true
}
