package core

import "errors"

var (
	// ErrMarketNotFound the market was never created
	ErrMarketNotFound = errors.New("market not found")
	// ErrPositionNotFound a position expected to exist is missing; this is
	// an ordering bug in the handler, not a recoverable condition
	ErrPositionNotFound = errors.New("position not found")
	// ErrTokenNotFound token entity missing
	ErrTokenNotFound = errors.New("token not found")
	// ErrUnknownInteraction interaction kind outside the known set
	ErrUnknownInteraction = errors.New("unknown interaction kind")
)
