package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathemix/trivia-backend/internal/apperror"
	"github.com/mathemix/trivia-backend/internal/entity"
)

func TestRoomRepository_CreateAndGet(t *testing.T) {
	t.Run("Create stores a room retrievable by code", func(t *testing.T) {
		// Given: an empty store and a fresh room
		repo := NewRoomRepository()
		room := entity.NewRoom("AB12C", entity.NewPlayer("c1", "alice"))

		// When: the room is created
		err := repo.Create(room)

		// Then: it can be fetched by code and the code is marked taken
		require.NoError(t, err)
		got, err := repo.GetByCode("AB12C")
		require.NoError(t, err)
		assert.Equal(t, room, got)
		assert.True(t, repo.CodeTaken("AB12C"))
	})

	t.Run("Create rejects a duplicate code", func(t *testing.T) {
		// Given: a store already holding a room
		repo := NewRoomRepository()
		require.NoError(t, repo.Create(entity.NewRoom("AB12C", entity.NewPlayer("c1", "alice"))))

		// When: creating another room with the same code
		err := repo.Create(entity.NewRoom("AB12C", entity.NewPlayer("c2", "bob")))

		// Then: the duplicate is rejected
		require.ErrorIs(t, err, ErrRoomExists)
	})

	t.Run("GetByCode reports a missing room", func(t *testing.T) {
		// Given: an empty store
		repo := NewRoomRepository()

		// When: fetching an unknown code
		_, err := repo.GetByCode("ZZZZZ")

		// Then: the domain not-found error is returned
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestRoomRepository_DeleteByCode(t *testing.T) {
	// Given: a store holding a room
	repo := NewRoomRepository()
	require.NoError(t, repo.Create(entity.NewRoom("AB12C", entity.NewPlayer("c1", "alice"))))

	// When: the room is deleted
	repo.DeleteByCode("AB12C")

	// Then: the code is free again
	assert.False(t, repo.CodeTaken("AB12C"))
	_, err := repo.GetByCode("AB12C")
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)
}

func TestRoomRepository_ConnectionIndex(t *testing.T) {
	t.Run("Bound connections resolve to their room code", func(t *testing.T) {
		// Given: a store with a bound connection
		repo := NewRoomRepository()
		repo.BindConnection("c1", "AB12C")

		// When: looking the connection up
		code, ok := repo.CodeByConnection("c1")

		// Then: the room code is returned
		require.True(t, ok)
		assert.Equal(t, "AB12C", code)
	})

	t.Run("Unbinding removes the mapping", func(t *testing.T) {
		// Given: a bound connection
		repo := NewRoomRepository()
		repo.BindConnection("c1", "AB12C")

		// When: the connection is unbound
		repo.UnbindConnection("c1")

		// Then: the lookup misses
		_, ok := repo.CodeByConnection("c1")
		assert.False(t, ok)
	})

	t.Run("Unknown connections miss", func(t *testing.T) {
		// Given: an empty store
		repo := NewRoomRepository()

		// When/Then: looking up a never-bound connection misses
		_, ok := repo.CodeByConnection("ghost")
		assert.False(t, ok)
	})
}
