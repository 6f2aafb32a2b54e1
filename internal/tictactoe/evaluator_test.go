package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

const (
	x = "X"
	o = "O"
	e = ""
)

func TestEvaluateOutcome(t *testing.T) {
	tests := []struct {
		name  string
		board []string
		want  Outcome
	}{
		{
			name:  "Empty board has no winner yet",
			board: []string{e, e, e, e, e, e, e, e, e},
			want:  OutcomeNone,
		},
		{
			name:  "Partial board has no winner yet",
			board: []string{x, o, e, e, x, e, e, e, o},
			want:  OutcomeNone,
		},
		{
			name:  "X wins on the first row",
			board: []string{x, x, x, o, o, e, e, e, e},
			want:  OutcomeXWins,
		},
		{
			name:  "O wins on the middle column",
			board: []string{x, o, e, x, o, e, e, o, x},
			want:  OutcomeOWins,
		},
		{
			name:  "X wins on the main diagonal",
			board: []string{x, o, e, e, x, o, e, e, x},
			want:  OutcomeXWins,
		},
		{
			name:  "O wins on the anti-diagonal",
			board: []string{x, x, o, e, o, e, o, x, e},
			want:  OutcomeOWins,
		},
		{
			name:  "Full board without a line is a draw",
			board: []string{x, o, x, x, o, o, o, x, x},
			want:  OutcomeDraw,
		},
		{
			name:  "Full board with a line is a win, not a draw",
			board: []string{x, x, x, o, o, x, o, x, o},
			want:  OutcomeXWins,
		},
		{
			name:  "Two complete lines resolve to the first row found",
			board: []string{o, o, o, x, x, x, e, e, e},
			want:  OutcomeOWins,
		},
		{
			name:  "Two complete columns resolve to the first column found",
			board: []string{e, x, o, e, x, o, e, x, o},
			want:  OutcomeXWins,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: evaluating the board
			got, err := EvaluateOutcome(tt.board)

			// Then: the expected outcome is returned
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateOutcome_ConflictingLinesAreDeterministic(t *testing.T) {
	// Given: an unreachable board where X owns row 6-7-8 and O owns row 0-1-2
	board := []string{o, o, o, e, e, e, x, x, x}

	// When: evaluating it several times
	for range 5 {
		got, err := EvaluateOutcome(board)

		// Then: the first line in row order always wins
		require.NoError(t, err)
		assert.Equal(t, OutcomeOWins, got)
	}
}

func TestEvaluateOutcome_DoesNotMutateInput(t *testing.T) {
	// Given: a board and a copy of it
	board := []string{x, o, e, e, x, e, e, e, o}
	snapshot := append([]string(nil), board...)

	// When: evaluating it twice
	first, err := EvaluateOutcome(board)
	require.NoError(t, err)
	second, err := EvaluateOutcome(board)
	require.NoError(t, err)

	// Then: results agree and the board is unchanged
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, board)
}

func TestEvaluateOutcome_InvalidBoard(t *testing.T) {
	t.Run("Too few cells", func(t *testing.T) {
		// When: evaluating an 8-cell board
		_, err := EvaluateOutcome([]string{e, e, e, e, e, e, e, e})

		// Then: ErrInvalidBoard is returned
		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})

	t.Run("Too many cells", func(t *testing.T) {
		// When: evaluating a 10-cell board
		_, err := EvaluateOutcome([]string{e, e, e, e, e, e, e, e, e, e})

		// Then: ErrInvalidBoard is returned
		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})

	t.Run("Unknown marker", func(t *testing.T) {
		// When: a cell holds something other than X, O or empty
		_, err := EvaluateOutcome([]string{x, "Z", e, e, e, e, e, e, e})

		// Then: ErrInvalidBoard is returned and names the cell
		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
		assert.Contains(t, err.Error(), "cell 1")
	})

	t.Run("Nil board", func(t *testing.T) {
		// When: evaluating a nil board
		_, err := EvaluateOutcome(nil)

		// Then: ErrInvalidBoard is returned
		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})
}

func TestIsBoardFull(t *testing.T) {
	t.Run("Empty board is not full", func(t *testing.T) {
		full, err := IsBoardFull([]string{e, e, e, e, e, e, e, e, e})
		require.NoError(t, err)
		assert.False(t, full)
	})

	t.Run("Board with one empty cell is not full", func(t *testing.T) {
		full, err := IsBoardFull([]string{x, o, x, x, o, o, o, x, e})
		require.NoError(t, err)
		assert.False(t, full)
	})

	t.Run("Occupied board is full", func(t *testing.T) {
		full, err := IsBoardFull([]string{x, o, x, x, o, o, o, x, x})
		require.NoError(t, err)
		assert.True(t, full)
	})

	t.Run("Invalid board", func(t *testing.T) {
		_, err := IsBoardFull([]string{x})
		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})
}
