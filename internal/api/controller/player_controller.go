package controller

import (
	"net/http"

	"ctchen222/tictactoe-local/internal/api/models"
	"ctchen222/tictactoe-local/internal/api/response"
	"ctchen222/tictactoe-local/internal/api/service"
	"ctchen222/tictactoe-local/internal/repository"

	"github.com/gin-gonic/gin"
)

// PlayerController handles player management HTTP requests.
type PlayerController struct {
	playerService service.PlayerService
}

// NewPlayerController creates a new PlayerController.
func NewPlayerController(playerService service.PlayerService) *PlayerController {
	return &PlayerController{
		playerService: playerService,
	}
}

// List returns every stored record.
func (pc *PlayerController) List(c *gin.Context) {
	records, err := pc.playerService.ListPlayers(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"players": records})
}

// Standings returns the non-reserved records sorted by name.
func (pc *PlayerController) Standings(c *gin.Context) {
	records, err := pc.playerService.Standings(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"players": records})
}

// Selectable returns the names that can be picked for a game.
func (pc *PlayerController) Selectable(c *gin.Context) {
	names, err := pc.playerService.Selectable(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"names": names})
}

// Add handles the add player endpoint.
func (pc *PlayerController) Add(c *gin.Context) {
	var req models.AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := pc.playerService.AddPlayer(c.Request.Context(), req.Name)
	if err != nil {
		errorResponse(c, err)
		return
	}

	switch {
	case result.Added:
		response.SuccessResponse(c, result)
	case result.Message == repository.MsgPlayerExists:
		response.ErrorResponse(c, http.StatusConflict, result.Message)
	default:
		response.ErrorResponse(c, http.StatusBadRequest, result.Message)
	}
}

// Delete removes one player.
func (pc *PlayerController) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := pc.playerService.DeletePlayer(c.Request.Context(), name); err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Player deleted successfully"})
}

// DeleteAll removes every non-reserved player.
func (pc *PlayerController) DeleteAll(c *gin.Context) {
	if err := pc.playerService.DeleteAllPlayers(c.Request.Context()); err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "All players deleted"})
}

// Reset zeroes every player's stats.
func (pc *PlayerController) Reset(c *gin.Context) {
	if err := pc.playerService.ResetStats(c.Request.Context()); err != nil {
		errorResponse(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Stats reset"})
}
