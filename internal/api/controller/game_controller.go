package controller

import (
	"ctchen222/Tic-Tac-Toe-AI/internal/api/models"
	"ctchen222/Tic-Tac-Toe-AI/internal/api/response"
	"ctchen222/Tic-Tac-Toe-AI/internal/api/service"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"ctchen222/Tic-Tac-Toe-AI/internal/repository"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GameController handles game-related HTTP requests.
type GameController struct {
	gameService service.GameService
}

// NewGameController creates a new GameController.
func NewGameController(gameService service.GameService) *GameController {
	return &GameController{
		gameService: gameService,
	}
}

// Create handles POST /api/games.
func (gc *GameController) Create(c *gin.Context) {
	var req models.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.Create(c.Request.Context(), req.Difficulty)
	if err != nil {
		gc.fail(c, err)
		return
	}

	response.SuccessResponseWithCode(c, http.StatusCreated, resp)
}

// Get handles GET /api/games/:id.
func (gc *GameController) Get(c *gin.Context) {
	resp, err := gc.gameService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}

// Move handles POST /api/games/:id/moves.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.Play(c.Request.Context(), c.Param("id"), bearerToken(c), *req.X, *req.Y)
	if err != nil {
		gc.fail(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}

// Delete handles DELETE /api/games/:id.
func (gc *GameController) Delete(c *gin.Context) {
	if err := gc.gameService.Delete(c.Request.Context(), c.Param("id"), bearerToken(c)); err != nil {
		gc.fail(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"message": "Game deleted"})
}

// fail maps service errors to HTTP status codes.
func (gc *GameController) fail(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		response.ErrorResponse(c, code, "internal error")
		return
	}
	response.ErrorResponse(c, code, err.Error())
}

// StatusFor returns the HTTP status code for a service error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidDifficulty), errors.Is(err, game.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrIllegalMove), errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func bearerToken(c *gin.Context) string {
	return strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
}
