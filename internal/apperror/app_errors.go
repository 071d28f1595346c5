package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrUnknownGame      = errors.New("unknown game")
	ErrUnknownAction    = errors.New("unknown action")
	ErrNoSession        = errors.New("no active session")
	ErrNotFound         = errors.New("not found")
)
