package entity

// Player is one connected member of a room. ConnectionID is the
// transport-assigned identifier and lives only as long as the connection.
type Player struct {
	ConnectionID string `json:"id"`
	Nickname     string `json:"nickname"`
	Score        int    `json:"score"`
}

func NewPlayer(connectionID, nickname string) *Player {
	return &Player{
		ConnectionID: connectionID,
		Nickname:     nickname,
	}
}
