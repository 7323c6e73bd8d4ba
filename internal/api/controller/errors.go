package controller

import (
	"errors"
	"net/http"

	"ctchen222/tictactoe-local/internal/api/response"
	"ctchen222/tictactoe-local/internal/api/service"
	"ctchen222/tictactoe-local/internal/game"
	"ctchen222/tictactoe-local/internal/repository"
	"ctchen222/tictactoe-local/internal/session"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		return http.StatusConflict
	case errors.Is(err, repository.ErrPlayerNotFound),
		errors.Is(err, service.ErrUnknownPlayer),
		errors.Is(err, service.ErrNoActiveGame):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrReservedPlayer):
		return http.StatusForbidden
	case errors.Is(err, session.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(c *gin.Context, err error) {
	response.ErrorResponse(c, statusFor(err), err.Error())
}
