package entity

import (
	"math"
	"time"
)

const (
	// DefaultCategory is assigned to a freshly created room until the
	// host picks one at game start.
	DefaultCategory = "Number & Algebra"

	minRoundScore  = 10
	baseRoundScore = 100
)

// Room is one isolated game session. All mutation goes through the
// coordinator, which serializes access; the type itself carries no locks.
type Room struct {
	Code             string    `json:"code"`
	HostConnectionID string    `json:"host"`
	Category         string    `json:"category"`
	Players          []*Player `json:"players"`
	Started          bool      `json:"started"`
	CurrentQuestion  *Question `json:"-"`
	RoundStartedAt   time.Time `json:"-"`

	answered map[string]struct{}
}

// NewRoom creates a lobby with the given player as sole member and host.
func NewRoom(code string, host *Player) *Room {
	return &Room{
		Code:             code,
		HostConnectionID: host.ConnectionID,
		Category:         DefaultCategory,
		Players:          []*Player{host},
		answered:         make(map[string]struct{}),
	}
}

// AddPlayer appends a player; join order is preserved for host promotion.
func (that *Room) AddPlayer(player *Player) {
	that.Players = append(that.Players, player)
}

// PlayerByConnection finds the member with the given connection id.
func (that *Room) PlayerByConnection(connectionID string) (*Player, bool) {
	for _, player := range that.Players {
		if player.ConnectionID == connectionID {
			return player, true
		}
	}

	return nil, false
}

// RemovePlayer drops the member with the given connection id. When the
// host leaves and members remain, the earliest joiner becomes host; the
// second return value reports that promotion.
func (that *Room) RemovePlayer(connectionID string) (removed, hostChanged bool) {
	for i, player := range that.Players {
		if player.ConnectionID != connectionID {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)
		removed = true
		break
	}

	if !removed {
		return false, false
	}

	delete(that.answered, connectionID)

	if that.HostConnectionID == connectionID && len(that.Players) > 0 {
		that.HostConnectionID = that.Players[0].ConnectionID
		hostChanged = true
	}

	return removed, hostChanged
}

// IsEmpty reports whether the last member has left.
func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

// IsHost reports whether the given connection is the current host.
func (that *Room) IsHost(connectionID string) bool {
	return that.HostConnectionID == connectionID
}

// BeginRound installs a new current question, stamps the round start and
// resets the per-round submission set.
func (that *Room) BeginRound(question *Question, startedAt time.Time) {
	that.CurrentQuestion = question
	that.RoundStartedAt = startedAt
	that.answered = make(map[string]struct{})
}

// HasAnswered reports whether the connection already submitted this round.
func (that *Room) HasAnswered(connectionID string) bool {
	_, ok := that.answered[connectionID]
	return ok
}

// MarkAnswered records a submission for this round.
func (that *Room) MarkAnswered(connectionID string) {
	that.answered[connectionID] = struct{}{}
}

// AllAnswered reports whether every current member has submitted.
func (that *Room) AllAnswered() bool {
	return len(that.answered) == len(that.Players)
}

// RoundScore computes the reward for a correct answer after the given
// time: 100 at zero elapsed, minus two points per second, floored at 10.
// There is no deadline; a late answer still earns the floor.
func RoundScore(elapsed time.Duration) int {
	score := baseRoundScore - int(math.Floor(elapsed.Seconds()*2))
	if score < minRoundScore {
		return minRoundScore
	}

	return score
}
