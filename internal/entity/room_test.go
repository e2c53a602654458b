package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_RemovePlayer(t *testing.T) {
	t.Run("Removing the host promotes the earliest joiner", func(t *testing.T) {
		// Given: a room with three players in join order
		room := NewRoom("ABCDE", NewPlayer("c1", "alice"))
		room.AddPlayer(NewPlayer("c2", "bob"))
		room.AddPlayer(NewPlayer("c3", "carol"))

		// When: the host disconnects
		removed, hostChanged := room.RemovePlayer("c1")

		// Then: the first remaining joiner becomes host
		require.True(t, removed)
		assert.True(t, hostChanged)
		assert.Equal(t, "c2", room.HostConnectionID)
		assert.Len(t, room.Players, 2)
	})

	t.Run("Removing a non-host keeps the host", func(t *testing.T) {
		// Given: a room with two players
		room := NewRoom("ABCDE", NewPlayer("c1", "alice"))
		room.AddPlayer(NewPlayer("c2", "bob"))

		// When: the non-host disconnects
		removed, hostChanged := room.RemovePlayer("c2")

		// Then: the host is unchanged
		require.True(t, removed)
		assert.False(t, hostChanged)
		assert.Equal(t, "c1", room.HostConnectionID)
	})

	t.Run("Removing an unknown connection is reported", func(t *testing.T) {
		// Given: a room with one player
		room := NewRoom("ABCDE", NewPlayer("c1", "alice"))

		// When: removing a connection that never joined
		removed, hostChanged := room.RemovePlayer("nope")

		// Then: nothing changes
		assert.False(t, removed)
		assert.False(t, hostChanged)
		assert.Len(t, room.Players, 1)
	})

	t.Run("Removing the last player empties the room", func(t *testing.T) {
		// Given: a room with a single player
		room := NewRoom("ABCDE", NewPlayer("c1", "alice"))

		// When: that player disconnects
		removed, hostChanged := room.RemovePlayer("c1")

		// Then: the room is empty and no promotion happened
		require.True(t, removed)
		assert.False(t, hostChanged)
		assert.True(t, room.IsEmpty())
	})
}

func TestRoom_Rounds(t *testing.T) {
	t.Run("BeginRound resets the submission set", func(t *testing.T) {
		// Given: a room mid-round with one submission recorded
		room := NewRoom("ABCDE", NewPlayer("c1", "alice"))
		room.AddPlayer(NewPlayer("c2", "bob"))
		room.BeginRound(&Question{Definition: "d", Answer: "A"}, time.Now())
		room.MarkAnswered("c1")
		require.True(t, room.HasAnswered("c1"))

		// When: the next round begins
		room.BeginRound(&Question{Definition: "d2", Answer: "B"}, time.Now())

		// Then: no submissions remain
		assert.False(t, room.HasAnswered("c1"))
		assert.False(t, room.AllAnswered())
	})

	t.Run("AllAnswered fires once every member has submitted", func(t *testing.T) {
		// Given: a two-player room in a round
		room := NewRoom("ABCDE", NewPlayer("c1", "alice"))
		room.AddPlayer(NewPlayer("c2", "bob"))
		room.BeginRound(&Question{Answer: "A"}, time.Now())

		// When/Then: the set completes only with the second submission
		room.MarkAnswered("c1")
		assert.False(t, room.AllAnswered())
		room.MarkAnswered("c2")
		assert.True(t, room.AllAnswered())
	})

	t.Run("A leaver's submission is dropped with the player", func(t *testing.T) {
		// Given: a two-player room where one player answered
		room := NewRoom("ABCDE", NewPlayer("c1", "alice"))
		room.AddPlayer(NewPlayer("c2", "bob"))
		room.BeginRound(&Question{Answer: "A"}, time.Now())
		room.MarkAnswered("c2")

		// When: the answered player disconnects
		room.RemovePlayer("c2")

		// Then: the remaining player still has to answer
		assert.False(t, room.AllAnswered())
	})
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{name: "instant answer earns full score", elapsed: 0, want: 100},
		{name: "one second costs two points", elapsed: time.Second, want: 98},
		{name: "forty five seconds hits the floor exactly", elapsed: 45 * time.Second, want: 10},
		{name: "fifty seconds is floored at the minimum", elapsed: 50 * time.Second, want: 10},
		{name: "arbitrarily late still earns the floor", elapsed: time.Hour, want: 10},
		{name: "fractional seconds floor downward", elapsed: 1500 * time.Millisecond, want: 97},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundScore(tt.elapsed))
		})
	}
}
