package service

import "errors"

// Rejections. None of these reach clients; the relay drops the action and
// logs at debug level.
var (
	ErrIllegalSelection = errors.New("illegal selection")
	ErrOutOfTurn        = errors.New("out of turn")
	ErrInvalidMove      = errors.New("invalid move")
	ErrUnexpectedAction = errors.New("unexpected action")
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameExists    = errors.New("game already exists")
	ErrTooManyGames  = errors.New("game limit reached")
	ErrAddrInUse     = errors.New("address already connected")
	ErrSessionClosed = errors.New("session closed")
)
