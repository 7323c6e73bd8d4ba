package models

// AddPlayerRequest defines the structure for adding a player.
type AddPlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

// StartGameRequest defines the structure for starting a new game.
// Player two is ignored in single player mode.
type StartGameRequest struct {
	Mode       string `json:"mode" binding:"required,oneof=single_player multi_player"`
	PlayerOne  string `json:"playerOne" binding:"required"`
	PlayerTwo  string `json:"playerTwo" binding:"required_if=Mode multi_player"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// MoveRequest defines the structure for placing a mark. Row and Col are
// pointers so that 0 passes the required check.
type MoveRequest struct {
	Player string `json:"player" binding:"required"`
	Row    *int   `json:"row" binding:"required"`
	Col    *int   `json:"col" binding:"required"`
}
