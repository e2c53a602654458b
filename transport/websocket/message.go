package websocket

import (
	"encoding/json"
	"errors"

	"github.com/mathemix/trivia-backend/internal/apperror"
)

// Message is the wire envelope in both directions: a named event plus an
// event-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type createRoomPayload struct {
	Nickname string `json:"nickname"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Nickname string `json:"nickname"`
}

type startGamePayload struct {
	RoomCode string `json:"roomCode"`
	Category string `json:"category"`
}

type nextRoundPayload struct {
	RoomCode string `json:"roomCode"`
}

type submitAnswerPayload struct {
	RoomCode string `json:"roomCode"`
	Answer   string `json:"answer"`
}

// clientMessage maps a surfaced coordinator error to the text shown to
// the offending sender.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return "Room not found. Check the code and try again."
	case errors.Is(err, apperror.ErrGameInProgress):
		return "Game is already in progress. Cannot join."
	case errors.Is(err, apperror.ErrAlreadyInRoom):
		return "You are already in a room."
	case errors.Is(err, apperror.ErrUnknownCategory):
		return "Unknown category. Check the category name and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
