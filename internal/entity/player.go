package entity

import "strings"

const BotPlayerPrefix = "bot-"

type Player struct {
	ID     string `json:"id"`
	Mark   string `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

// NewBotPlayer - returns the computer opponent seated in the given game.
func NewBotPlayer(gameID string) *Player {
	return &Player{
		ID:     BotPlayerPrefix + gameID,
		Mark:   PlayerO,
		GameID: gameID,
	}
}

func (that *Player) IsBot() bool {
	return strings.HasPrefix(that.ID, BotPlayerPrefix)
}
