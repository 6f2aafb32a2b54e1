package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	// PlayerX is the human side and always moves first, PlayerO is the bot.
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""

	BoardSize = 9
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Board - row-major 3x3 grid, cells 0..8 left-to-right, top-to-bottom.
type Board [BoardSize]string

type Game struct {
	ID         string    `json:"id"`
	Board      Board     `json:"board"`
	Winner     string    `json:"winner"`
	Status     string    `json:"status"`
	Turn       string    `json:"player_turn"`
	Generation int       `json:"generation"`
	Players    []*Player `json:"players,omitempty"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Board:  Board{},
		Turn:   PlayerX,
		Status: StatusOngoing,
	}
}

// Reset - replaces the board with a fresh one and starts a new generation,
// so that work scheduled against the previous board can be recognized as stale.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Winner = ""
	that.Status = StatusOngoing
	that.Generation++
}

// ApplyOutcome - syncs Winner, Status and Turn with an outcome computed from the board.
func (that *Game) ApplyOutcome(outcome string) {
	switch outcome {
	// one player wins
	case PlayerX, PlayerO:
		that.Winner = outcome
		that.Status = StatusFinished
		that.Turn = ""
	// tie
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	// game continue
	default:
		that.Winner = ""
		that.Status = StatusOngoing
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn == PlayerO
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Human - returns the human participant, nil if the game has none seated.
func (that *Game) Human() *Player {
	for _, player := range that.Players {
		if !player.IsBot() {
			return player
		}
	}
	return nil
}

// Clone - deep copy, so callers never share a board with the controller.
func (that *Game) Clone() *Game {
	clone := *that
	clone.Players = make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		p := *player
		clone.Players = append(clone.Players, &p)
	}
	return &clone
}
