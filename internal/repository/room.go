package repository

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mathemix/trivia-backend/internal/apperror"
	"github.com/mathemix/trivia-backend/internal/entity"
)

var ErrRoomExists = errors.New("room already exists")

// RoomRepository is the owned, process-lifetime store of live rooms.
// Alongside the code index it keeps a connection index, so membership is
// enforced structurally: a connection belongs to at most one room and
// disconnect cleanup is a direct lookup instead of a scan over all rooms.
type RoomRepository interface {
	Create(room *entity.Room) error
	GetByCode(code string) (*entity.Room, error)
	DeleteByCode(code string)

	CodeTaken(code string) bool
	BindConnection(connectionID, code string)
	UnbindConnection(connectionID string)
	CodeByConnection(connectionID string) (string, bool)
}

type roomStore struct {
	mu          sync.RWMutex
	rooms       map[string]*entity.Room
	connections map[string]string
}

func NewRoomRepository() RoomRepository {
	return &roomStore{
		rooms:       make(map[string]*entity.Room),
		connections: make(map[string]string),
	}
}

func (that *roomStore) Create(room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[room.Code]; ok {
		return fmt.Errorf("room %s: %w", room.Code, ErrRoomExists)
	}

	that.rooms[room.Code] = room

	return nil
}

func (that *roomStore) GetByCode(code string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

func (that *roomStore) DeleteByCode(code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, code)
}

func (that *roomStore) CodeTaken(code string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.rooms[code]

	return ok
}

func (that *roomStore) BindConnection(connectionID, code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connections[connectionID] = code
}

func (that *roomStore) UnbindConnection(connectionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.connections, connectionID)
}

func (that *roomStore) CodeByConnection(connectionID string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	code, ok := that.connections[connectionID]

	return code, ok
}
