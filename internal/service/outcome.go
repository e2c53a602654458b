package service

import "github.com/mathemix/trivia-backend/internal/entity"

// Events emitted to clients. Names are part of the wire contract.
const (
	EventRoomCreated       = "roomCreated"
	EventJoinedRoom        = "joinedRoom"
	EventUpdatePlayers     = "updatePlayers"
	EventNewQuestion       = "newQuestion"
	EventUpdateLeaderboard = "updateLeaderboard"
	EventRevealAnswer      = "revealAnswer"
	EventAnswerResult      = "answerResult"
	EventError             = "error"
)

// Notification is one outbound event addressed to an explicit set of
// connections. The transport only writes; recipient resolution happens
// in the coordinator, which owns the membership state.
type Notification struct {
	Event         string
	ConnectionIDs []string
	Payload       any
}

// Outcome is the result of one inbound event. Ignored marks the
// deliberate silent no-op branch: the command was dropped without state
// change and without acknowledgment. Clients rely on that silence.
type Outcome struct {
	Ignored       bool
	Notifications []Notification
}

func ignored() *Outcome {
	return &Outcome{Ignored: true}
}

func (that *Outcome) notify(event string, payload any, connectionIDs ...string) {
	that.Notifications = append(that.Notifications, Notification{
		Event:         event,
		ConnectionIDs: connectionIDs,
		Payload:       payload,
	})
}

// RoomPayload accompanies roomCreated and joinedRoom.
type RoomPayload struct {
	RoomCode string          `json:"roomCode"`
	Players  []entity.Player `json:"players"`
}

// QuestionPayload accompanies newQuestion. The answer itself never
// leaves the server before the reveal.
type QuestionPayload struct {
	Definition   string `json:"definition"`
	AnswerLength int    `json:"answerLength"`
	AnswerMask   string `json:"answerMask"`
}

// AnswerResultPayload accompanies answerResult, sent to the submitter only.
type AnswerResultPayload struct {
	Correct    bool `json:"correct"`
	ScoreAdded int  `json:"scoreAdded"`
}

// snapshotPlayers copies player values so a notification payload stays
// stable while the transport marshals it outside the coordinator lock.
func snapshotPlayers(players []*entity.Player) []entity.Player {
	snapshot := make([]entity.Player, 0, len(players))
	for _, player := range players {
		snapshot = append(snapshot, *player)
	}

	return snapshot
}

// connectionIDs lists member connections, optionally excluding one.
func connectionIDs(players []*entity.Player, except string) []string {
	ids := make([]string, 0, len(players))
	for _, player := range players {
		if player.ConnectionID == except {
			continue
		}
		ids = append(ids, player.ConnectionID)
	}

	return ids
}
