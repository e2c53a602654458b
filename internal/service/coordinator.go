package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/mathemix/trivia-backend/internal/apperror"
	"github.com/mathemix/trivia-backend/internal/entity"
)

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 5
)

type roomRepo interface {
	Create(room *entity.Room) error
	GetByCode(code string) (*entity.Room, error)
	DeleteByCode(code string)

	CodeTaken(code string) bool
	BindConnection(connectionID, code string)
	UnbindConnection(connectionID string)
	CodeByConnection(connectionID string) (string, bool)
}

type questionProvider interface {
	GetRandom(ctx context.Context, category string) (*entity.Question, error)
}

// RoomCoordinator owns every live room and processes every inbound
// client event. A single mutex serializes the handlers, so each event
// runs to completion against the room table before the next one starts.
type RoomCoordinator struct {
	logger    *slog.Logger
	rooms     roomRepo
	questions questionProvider

	mu  sync.Mutex
	now func() time.Time
}

func NewRoomCoordinator(logger *slog.Logger, rooms roomRepo, questions questionProvider) *RoomCoordinator {
	return &RoomCoordinator{
		logger:    logger.With("component", "coordinator"),
		rooms:     rooms,
		questions: questions,
		now:       time.Now,
	}
}

// CreateRoom allocates a unique code and opens a lobby with the creating
// connection as sole player and host.
func (that *RoomCoordinator) CreateRoom(_ context.Context, connectionID, nickname string) (*Outcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "CreateRoom")

	if _, ok := that.rooms.CodeByConnection(connectionID); ok {
		return nil, apperror.ErrAlreadyInRoom
	}

	code := that.generateRoomCode()

	room := entity.NewRoom(code, entity.NewPlayer(connectionID, nickname))
	if err := that.rooms.Create(room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	that.rooms.BindConnection(connectionID, code)

	outcome := &Outcome{}
	outcome.notify(EventRoomCreated, RoomPayload{
		RoomCode: code,
		Players:  snapshotPlayers(room.Players),
	}, connectionID)

	log.Info("room created", "roomCode", code, "nickname", nickname)

	return outcome, nil
}

// JoinRoom adds the connection to an existing lobby. Unknown codes and
// already-started games are surfaced to the joiner as explicit errors.
func (that *RoomCoordinator) JoinRoom(_ context.Context, connectionID, roomCode, nickname string) (*Outcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "JoinRoom")

	if _, ok := that.rooms.CodeByConnection(connectionID); ok {
		return nil, apperror.ErrAlreadyInRoom
	}

	code := normalizeCode(roomCode)

	room, err := that.rooms.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", code, err)
	}

	if room.Started {
		return nil, apperror.ErrGameInProgress
	}

	player := entity.NewPlayer(connectionID, nickname)
	room.AddPlayer(player)
	that.rooms.BindConnection(connectionID, code)

	players := snapshotPlayers(room.Players)

	outcome := &Outcome{}
	outcome.notify(EventJoinedRoom, RoomPayload{RoomCode: code, Players: players}, connectionID)
	outcome.notify(EventUpdatePlayers, players, connectionIDs(room.Players, connectionID)...)

	log.Info("player joined", "roomCode", code, "nickname", nickname)

	return outcome, nil
}

// StartGame begins the first round. Only the host may invoke it; any
// other sender is ignored without acknowledgment. An unknown category is
// the one start failure surfaced back to the host.
func (that *RoomCoordinator) StartGame(ctx context.Context, connectionID, roomCode, category string) (*Outcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "StartGame")

	room, err := that.rooms.GetByCode(normalizeCode(roomCode))
	if err != nil {
		return ignored(), nil
	}

	if !room.IsHost(connectionID) {
		return ignored(), nil
	}

	question, err := that.questions.GetRandom(ctx, category)
	if errors.Is(err, apperror.ErrUnknownCategory) {
		return nil, err
	}

	if err != nil {
		return nil, fmt.Errorf("failed to draw question: %w", err)
	}

	room.Started = true
	room.Category = category
	room.BeginRound(question, that.now())

	members := connectionIDs(room.Players, "")

	outcome := &Outcome{}
	outcome.notify(EventNewQuestion, QuestionPayload{
		Definition:   question.Definition,
		AnswerLength: question.AnswerLength(),
		AnswerMask:   question.Mask(),
	}, members...)
	outcome.notify(EventUpdateLeaderboard, snapshotPlayers(room.Players), members...)

	log.Info("game started", "roomCode", room.Code, "category", category)

	return outcome, nil
}

// NextRound draws a fresh question from the room's current category and
// clears any previously revealed answer client-side. Host only.
func (that *RoomCoordinator) NextRound(ctx context.Context, connectionID, roomCode string) (*Outcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "NextRound")

	room, err := that.rooms.GetByCode(normalizeCode(roomCode))
	if err != nil {
		return ignored(), nil
	}

	if !room.IsHost(connectionID) {
		return ignored(), nil
	}

	question, err := that.questions.GetRandom(ctx, room.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to draw question: %w", err)
	}

	room.BeginRound(question, that.now())

	members := connectionIDs(room.Players, "")

	outcome := &Outcome{}
	outcome.notify(EventNewQuestion, QuestionPayload{
		Definition:   question.Definition,
		AnswerLength: question.AnswerLength(),
		AnswerMask:   question.Mask(),
	}, members...)
	outcome.notify(EventRevealAnswer, nil, members...)

	log.Info("next round", "roomCode", room.Code)

	return outcome, nil
}

// SubmitAnswer grades a submission. Each player gets at most one
// submission per round; repeats, unknown rooms, unknown players and
// submissions outside a round are all dropped silently. Once the last
// unanswered player submits, the answer is revealed to the whole room.
func (that *RoomCoordinator) SubmitAnswer(_ context.Context, connectionID, roomCode, answer string) (*Outcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "SubmitAnswer")

	room, err := that.rooms.GetByCode(normalizeCode(roomCode))
	if err != nil {
		return ignored(), nil
	}

	if room.CurrentQuestion == nil || room.HasAnswered(connectionID) {
		return ignored(), nil
	}

	player, ok := room.PlayerByConnection(connectionID)
	if !ok {
		return ignored(), nil
	}

	room.MarkAnswered(connectionID)

	outcome := &Outcome{}

	if room.CurrentQuestion.Grade(answer) {
		added := entity.RoundScore(that.now().Sub(room.RoundStartedAt))
		player.Score += added
		outcome.notify(EventAnswerResult, AnswerResultPayload{Correct: true, ScoreAdded: added}, connectionID)
	} else {
		outcome.notify(EventAnswerResult, AnswerResultPayload{Correct: false}, connectionID)
	}

	members := connectionIDs(room.Players, "")
	outcome.notify(EventUpdateLeaderboard, snapshotPlayers(room.Players), members...)

	if room.AllAnswered() {
		outcome.notify(EventRevealAnswer, room.CurrentQuestion.CanonicalAnswer(), members...)
	}

	log.Info("answer submitted", "roomCode", room.Code, "nickname", player.Nickname)

	return outcome, nil
}

// Disconnect is driven by transport-level connection loss. The departed
// player is removed from their room; when the host leaves, the earliest
// remaining joiner is promoted. The last player leaving removes the room.
func (that *RoomCoordinator) Disconnect(_ context.Context, connectionID string) (*Outcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Disconnect")

	code, ok := that.rooms.CodeByConnection(connectionID)
	if !ok {
		return ignored(), nil
	}

	that.rooms.UnbindConnection(connectionID)

	room, err := that.rooms.GetByCode(code)
	if err != nil {
		log.Warn("connection bound to a missing room", "roomCode", code)
		return ignored(), nil
	}

	removed, hostChanged := room.RemovePlayer(connectionID)
	if !removed {
		return ignored(), nil
	}

	if room.IsEmpty() {
		that.rooms.DeleteByCode(code)
		log.Info("room removed", "roomCode", code)

		return &Outcome{}, nil
	}

	players := snapshotPlayers(room.Players)
	members := connectionIDs(room.Players, "")

	outcome := &Outcome{}
	outcome.notify(EventUpdatePlayers, players, members...)

	if hostChanged {
		outcome.notify(EventUpdatePlayers, players, members...)
		log.Info("host reassigned", "roomCode", code, "host", room.HostConnectionID)
	}

	log.Info("player disconnected", "roomCode", code)

	return outcome, nil
}

func (that *RoomCoordinator) generateRoomCode() string {
	for {
		buf := make([]byte, roomCodeLength)
		for i := range buf {
			buf[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
		}

		code := string(buf)
		if !that.rooms.CodeTaken(code) {
			return code
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
