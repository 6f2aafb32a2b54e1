package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

func TestNewGame(t *testing.T) {
	// When: creating a new game
	game := NewGame("123")

	// Then: the human moves first on an empty board
	require.Equal(t, &Game{
		ID:     "123",
		Board:  Board{},
		Turn:   PlayerX,
		Status: StatusOngoing,
	}, game)
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}

		assert.True(t, game.IsFinished())
		assert.False(t, game.IsOngoing())
	})

	t.Run("IsBotTurn only while ongoing", func(t *testing.T) {
		// Given: an ongoing game on O's turn
		game := &Game{Status: StatusOngoing, Turn: PlayerO}

		// Then: it is the bot's turn
		assert.True(t, game.IsBotTurn())

		// When: the game finishes
		game.Status = StatusFinished

		// Then: it is no longer the bot's turn
		assert.False(t, game.IsBotTurn())
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.NoError(t, game.ConfirmOngoingState())
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}

		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		game := &Game{Status: "unknown"}

		err := game.ConfirmOngoingState()

		require.ErrorIs(t, err, ErrUnknownGameStatus)
		assert.Contains(t, err.Error(), "unknown game status")
	})
}

func TestGame_ApplyOutcome(t *testing.T) {
	t.Run("Win finishes the game", func(t *testing.T) {
		game := &Game{Status: StatusOngoing, Turn: PlayerO}

		game.ApplyOutcome(PlayerX)

		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, PlayerX, game.Winner)
		assert.Equal(t, EmptyCell, game.Turn)
	})

	t.Run("Tie finishes the game", func(t *testing.T) {
		game := &Game{Status: StatusOngoing, Turn: PlayerX}

		game.ApplyOutcome(PlayerTie)

		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, PlayerTie, game.Winner)
		assert.Equal(t, EmptyCell, game.Turn)
	})

	t.Run("No outcome keeps the game going", func(t *testing.T) {
		game := &Game{Status: StatusOngoing, Turn: PlayerO}

		game.ApplyOutcome("")

		assert.Equal(t, StatusOngoing, game.Status)
		assert.Empty(t, game.Winner)
		assert.Equal(t, PlayerO, game.Turn)
	})
}

func TestGame_Reset(t *testing.T) {
	// Given: a finished game
	game := &Game{
		ID:         "123",
		Board:      Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, "", "", "", ""},
		Winner:     PlayerX,
		Status:     StatusFinished,
		Generation: 3,
		Players:    []*Player{{ID: "p1", Mark: PlayerX, GameID: "123"}},
	}

	// When: resetting it
	game.Reset()

	// Then: the board is fresh, X moves first and the generation advances
	assert.Equal(t, Board{}, game.Board)
	assert.Equal(t, PlayerX, game.Turn)
	assert.Empty(t, game.Winner)
	assert.Equal(t, StatusOngoing, game.Status)
	assert.Equal(t, 4, game.Generation)
	assert.Len(t, game.Players, 1)
}

func TestGame_Clone(t *testing.T) {
	// Given: a game with a seated human and bot
	game := NewGame("123")
	game.Players = []*Player{{ID: "p1", Mark: PlayerX, GameID: "123"}, NewBotPlayer("123")}

	// When: cloning and mutating the clone
	clone := game.Clone()
	clone.Board[0] = PlayerX
	clone.Players[0].Mark = ""

	// Then: the original is untouched
	assert.Equal(t, EmptyCell, game.Board[0])
	assert.Equal(t, PlayerX, game.Players[0].Mark)
}

func TestGame_Human(t *testing.T) {
	t.Run("Finds the human among players", func(t *testing.T) {
		human := &Player{ID: "p1", Mark: PlayerX}
		game := &Game{Players: []*Player{NewBotPlayer("g1"), human}}

		assert.Same(t, human, game.Human())
	})

	t.Run("Returns nil without a human", func(t *testing.T) {
		game := &Game{Players: []*Player{NewBotPlayer("g1")}}

		assert.Nil(t, game.Human())
	})
}

func TestPlayer_IsBot(t *testing.T) {
	assert.True(t, NewBotPlayer("g1").IsBot())
	assert.Equal(t, PlayerO, NewBotPlayer("g1").Mark)
	assert.False(t, (&Player{ID: "0b6d3c4e"}).IsBot())
}
