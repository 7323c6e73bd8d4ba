package controller

import (
	"net/http"

	"ctchen222/tictactoe-local/internal/api/models"
	"ctchen222/tictactoe-local/internal/api/response"
	"ctchen222/tictactoe-local/internal/api/service"

	"github.com/gin-gonic/gin"
)

// GameController handles game HTTP requests.
type GameController struct {
	gameService service.GameService
}

// NewGameController creates a new GameController.
func NewGameController(gameService service.GameService) *GameController {
	return &GameController{
		gameService: gameService,
	}
}

// Start begins a new game, replacing any running one.
func (gc *GameController) Start(c *gin.Context) {
	var req models.StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	st, err := gc.gameService.Start(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, st)
}

// State returns the running game.
func (gc *GameController) State(c *gin.Context) {
	st, err := gc.gameService.State(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, st)
}

// Move places a mark for a human player.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	st, err := gc.gameService.Move(c.Request.Context(), req.Player, *req.Row, *req.Col)
	if err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, st)
}

// Restart starts the running game over.
func (gc *GameController) Restart(c *gin.Context) {
	st, err := gc.gameService.Restart(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, st)
}

// End closes the running game.
func (gc *GameController) End(c *gin.Context) {
	if err := gc.gameService.End(c.Request.Context()); err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Game ended"})
}
