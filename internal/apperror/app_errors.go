package apperror

import "errors"

// Errors surfaced to the offending client as an explicit error event.
// Every other invalid command degrades to a silent no-op; see the
// coordinator's Outcome type.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrGameInProgress  = errors.New("game is already in progress")
	ErrAlreadyInRoom   = errors.New("connection already belongs to a room")
	ErrUnknownCategory = errors.New("unknown question category")
)
