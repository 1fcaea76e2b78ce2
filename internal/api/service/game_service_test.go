package service

import (
	"context"
	"ctchen222/Tic-Tac-Toe-AI/internal/bot"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"ctchen222/Tic-Tac-Toe-AI/internal/repository"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

func newTestService(t *testing.T, repo repository.GameRepository) *gameService {
	t.Helper()
	s := NewGameService(repo, NewBotFactory(0.5), testSecret).(*gameService)
	s.newID = func() string { return "game-1" }
	return s
}

// seedGame stores a running game with the given board, X to move.
func seedGame(t *testing.T, repo repository.GameRepository, id string, board game.Board, difficulty string) {
	t.Helper()
	g := game.NewGame(id, difficulty)
	g.Board = board
	g.Sync()
	require.NoError(t, repo.Create(context.Background(), g))
}

func TestGameService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockGameRepository(ctrl)
	s := newTestService(t, repo)

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *game.Game) error {
			assert.Equal(t, "game-1", g.ID)
			assert.Equal(t, "hard", g.Difficulty)
			assert.Equal(t, game.X, g.CurrentTurn)
			return nil
		})

	resp, err := s.Create(context.Background(), "Hard")
	require.NoError(t, err)
	assert.Equal(t, "game-1", resp.ID)
	assert.Equal(t, game.X, resp.Next)
	assert.Equal(t, game.StatusInProgress, resp.Status)
	assert.NotEmpty(t, resp.Token)
	assert.NoError(t, s.tokens.verify(resp.Token, "game-1"))
}

func TestGameService_CreateInvalidDifficulty(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newTestService(t, repository.NewMockGameRepository(ctrl))

	_, err := s.Create(context.Background(), "impossible")
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestGameService_CreateRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockGameRepository(ctrl)
	s := newTestService(t, repo)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrGameExists)

	_, err := s.Create(context.Background(), "easy")
	assert.ErrorIs(t, err, repository.ErrGameExists)
}

func TestGameService_PlayRejectsTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newTestService(t, repository.NewMockGameRepository(ctrl))

	other, err := s.tokens.issue("game-2")
	require.NoError(t, err)

	forged := &tokenIssuer{secret: []byte("other-secret"), now: time.Now}
	forgedToken, err := forged.issue("game-1")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing":    "",
		"garbage":    "not-a-jwt",
		"other game": other,
		"forged":     forgedToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Play(context.Background(), "game-1", token, 0, 0)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestGameService_PlayExpiredToken(t *testing.T) {
	s := newTestService(t, repository.NewMemoryGameRepository(time.Hour))
	token, err := s.tokens.issue("game-1")
	require.NoError(t, err)

	s.tokens.now = func() time.Time { return time.Now().Add(tokenLifetime + time.Minute) }
	_, err = s.Play(context.Background(), "game-1", token, 0, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGameService_PlayBotReplies(t *testing.T) {
	repo := repository.NewMemoryGameRepository(time.Hour)
	s := newTestService(t, repo)

	created, err := s.Create(context.Background(), "hard")
	require.NoError(t, err)

	resp, err := s.Play(context.Background(), created.ID, created.Token, 1, 1)
	require.NoError(t, err)

	require.NotNil(t, resp.BotMove)
	require.NotNil(t, resp.Bot)
	assert.Equal(t, game.Coord{X: 0, Y: 0}, *resp.BotMove, "first equally scored corner")
	assert.False(t, resp.Bot.Randomized)
	assert.Equal(t, "hard", resp.Bot.Difficulty)
	assert.Equal(t, game.X, resp.Board[1][1])
	assert.Equal(t, game.O, resp.Board[0][0])
	assert.Equal(t, game.X, resp.Next)
	assert.Equal(t, 2, resp.Moves)

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, game.O, stored.Board.Get(0, 0))
}

func TestGameService_PlayBotWins(t *testing.T) {
	repo := repository.NewMemoryGameRepository(time.Hour)
	s := newTestService(t, repo)
	// o o _
	// x x _
	// _ _ _
	seedGame(t, repo, "game-1", game.Board{game.O, game.O, game.Free, game.X, game.X, game.Free, game.Free, game.Free, game.Free}, "hard")
	token, err := s.tokens.issue("game-1")
	require.NoError(t, err)

	// The human fails to block the top row.
	resp, err := s.Play(context.Background(), "game-1", token, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, game.O, resp.Winner)
	assert.Equal(t, game.StatusFinished, resp.Status)
	assert.Equal(t, game.Coord{X: 2, Y: 0}, *resp.BotMove)
	assert.Empty(t, resp.Next)
}

func TestGameService_PlayHumanWins(t *testing.T) {
	repo := repository.NewMemoryGameRepository(time.Hour)
	s := newTestService(t, repo)
	// x x _
	// o o _
	// _ _ _
	seedGame(t, repo, "game-1", game.Board{game.X, game.X, game.Free, game.O, game.O, game.Free, game.Free, game.Free, game.Free}, "easy")
	token, err := s.tokens.issue("game-1")
	require.NoError(t, err)

	resp, err := s.Play(context.Background(), "game-1", token, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, game.X, resp.Winner)
	assert.Nil(t, resp.BotMove)
	assert.Nil(t, resp.Bot)

	_, err = s.Play(context.Background(), "game-1", token, 2, 2)
	assert.ErrorIs(t, err, game.ErrGameOver)
}

func TestGameService_PlayDraw(t *testing.T) {
	repo := repository.NewMemoryGameRepository(time.Hour)
	s := newTestService(t, repo)
	// x o x
	// x o o
	// o x _
	seedGame(t, repo, "game-1", game.Board{game.X, game.O, game.X, game.X, game.O, game.O, game.O, game.X, game.Free}, "hard")
	token, err := s.tokens.issue("game-1")
	require.NoError(t, err)

	resp, err := s.Play(context.Background(), "game-1", token, 2, 2)
	require.NoError(t, err)
	assert.True(t, resp.Draw)
	assert.Equal(t, game.StatusFinished, resp.Status)
	assert.Nil(t, resp.BotMove)
}

func TestGameService_PlayInvalidMoves(t *testing.T) {
	repo := repository.NewMemoryGameRepository(time.Hour)
	s := newTestService(t, repo)
	seedGame(t, repo, "game-1", game.Board{game.X, game.O, game.Free, game.Free, game.Free, game.Free, game.Free, game.Free, game.Free}, "easy")
	token, err := s.tokens.issue("game-1")
	require.NoError(t, err)

	_, err = s.Play(context.Background(), "game-1", token, 0, 0)
	assert.ErrorIs(t, err, game.ErrIllegalMove)

	_, err = s.Play(context.Background(), "game-1", token, 3, 0)
	assert.ErrorIs(t, err, game.ErrOutOfBounds)

	stored, err := repo.FindByID(context.Background(), "game-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Moves, "rejected moves are not stored")
}

func TestGameService_PlayUnknownGame(t *testing.T) {
	s := newTestService(t, repository.NewMemoryGameRepository(time.Hour))
	token, err := s.tokens.issue("missing")
	require.NoError(t, err)

	_, err = s.Play(context.Background(), "missing", token, 0, 0)
	assert.ErrorIs(t, err, repository.ErrGameNotFound)
}

func TestGameService_PlaySaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockGameRepository(ctrl)
	s := newTestService(t, repo)
	token, err := s.tokens.issue("game-1")
	require.NoError(t, err)

	saveErr := errors.New("connection reset")
	repo.EXPECT().FindByID(gomock.Any(), "game-1").Return(game.NewGame("game-1", "easy"), nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)

	_, err = s.Play(context.Background(), "game-1", token, 0, 0)
	assert.ErrorIs(t, err, saveErr)
}

func TestGameService_Delete(t *testing.T) {
	repo := repository.NewMemoryGameRepository(time.Hour)
	s := newTestService(t, repo)

	created, err := s.Create(context.Background(), "medium")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(context.Background(), created.ID, "bad"), ErrUnauthorized)
	require.NoError(t, s.Delete(context.Background(), created.ID, created.Token))

	_, err = s.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, repository.ErrGameNotFound)
}

func TestNewBotFactory(t *testing.T) {
	newBot := NewBotFactory(1)
	ai := newBot(bot.Medium)
	assert.Equal(t, bot.Medium, ai.Difficulty())

	// With probability one, medium always searches.
	b := game.Board{game.Free, game.Free, game.O, game.X, game.O, game.X, game.Free, game.O, game.Free}
	move, err := ai.MakeMove(context.Background(), &b)
	require.NoError(t, err)
	assert.Equal(t, game.Coord{X: 1, Y: 0}, move)
	assert.False(t, ai.Stats().Randomized)
}
