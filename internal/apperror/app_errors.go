package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrInvalidBoard      = errors.New("invalid board")
	ErrInvalidDepthLimit = errors.New("depth limit must be positive")
	ErrGameNotFound      = errors.New("game not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNoActiveGame      = errors.New("player has no active game")
	ErrBotTurnFailed     = errors.New("bot failed to make a turn, restart the game")
)
