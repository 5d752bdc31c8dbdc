package game

import (
	"errors"
)

var (
	// ErrIllegalAction marks a recoverable rule violation: the action is
	// rejected, nothing is mutated, and the gate keeps waiting.
	ErrIllegalAction = errors.New("illegal action")

	// ErrIllegalState marks a caller programming error. It is fatal for
	// the operation that raised it.
	ErrIllegalState = errors.New("illegal state")

	// ErrActionTimeout is returned when the configured per-wait timeout
	// elapses before the player supplies an action.
	ErrActionTimeout = errors.New("timed out waiting for player action")
)
