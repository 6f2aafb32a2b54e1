package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

// Outcome - result of a board: no winner yet, X wins, O wins or draw.
type Outcome string

const (
	OutcomeNone  Outcome = ""
	OutcomeXWins Outcome = entity.PlayerX
	OutcomeOWins Outcome = entity.PlayerO
	OutcomeDraw  Outcome = entity.PlayerTie
)

// Lines - rows, then columns, then diagonals. The order decides which marker
// is reported when more than one line is complete.
var Lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// EvaluateOutcome - determines the outcome of the given board. The board is not modified.
func EvaluateOutcome(board []string) (Outcome, error) {
	cells, err := toBoard(board)
	if err != nil {
		return OutcomeNone, err
	}

	return evaluate(&cells), nil
}

// IsBoardFull - reports whether every cell is occupied.
func IsBoardFull(board []string) (bool, error) {
	cells, err := toBoard(board)
	if err != nil {
		return false, err
	}

	return isFull(&cells), nil
}

func evaluate(board *entity.Board) Outcome {
	if winner := lineWinner(board); winner != entity.EmptyCell {
		return Outcome(winner)
	}

	if isFull(board) {
		return OutcomeDraw
	}

	return OutcomeNone
}

func lineWinner(board *entity.Board) string {
	for _, line := range Lines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

func isFull(board *entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// toBoard - validates the raw cells and copies them into a fixed-size board.
func toBoard(raw []string) (entity.Board, error) {
	var board entity.Board

	if len(raw) != entity.BoardSize {
		return board, fmt.Errorf("%w: expected %d cells, got %d", apperror.ErrInvalidBoard, entity.BoardSize, len(raw))
	}

	for i, cell := range raw {
		switch cell {
		case entity.EmptyCell, entity.PlayerX, entity.PlayerO:
			board[i] = cell
		default:
			return board, fmt.Errorf("%w: cell %d holds %q", apperror.ErrInvalidBoard, i, cell)
		}
	}

	return board, nil
}
