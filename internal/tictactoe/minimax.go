package tictactoe

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const (
	// NoMove is returned by SelectBestMove when the board has no empty cell.
	NoMove = -1

	// DefaultDepthLimit matches the strength the game shipped with.
	DefaultDepthLimit = 2

	ComputerMark = entity.PlayerO
	HumanMark    = entity.PlayerX

	winScore = 10
)

// SelectBestMove - picks the cell for the computer's marker using a minimax
// search cut off at depthLimit. Ties go to the lowest index. The caller's
// board is left untouched; the caller places the marker itself.
//
// Calls are safe to run concurrently as long as nobody mutates the passed
// slice while a selection is in flight.
func SelectBestMove(board []string, depthLimit int) (int, error) {
	if depthLimit < 1 {
		return NoMove, fmt.Errorf("%w: got %d", apperror.ErrInvalidDepthLimit, depthLimit)
	}

	cells, err := toBoard(board)
	if err != nil {
		return NoMove, err
	}

	move, _ := bestMove(&cells, depthLimit)

	return move, nil
}

// MinimaxScore - scores the board from the computer's point of view.
// Computer wins score 10-depth, human wins depth-10, and full boards or
// positions at the depth limit score 0.
func MinimaxScore(board []string, depth int, maximizing bool, depthLimit int) (int, error) {
	cells, err := toBoard(board)
	if err != nil {
		return 0, err
	}

	return minimax(&cells, depth, maximizing, depthLimit), nil
}

func bestMove(board *entity.Board, depthLimit int) (int, int) {
	move, best := NoMove, math.MinInt

	for i := range board {
		if board[i] != entity.EmptyCell {
			continue
		}

		board[i] = ComputerMark
		score := minimax(board, 0, false, depthLimit)
		board[i] = entity.EmptyCell

		if score > best {
			move, best = i, score
		}
	}

	return move, best
}

// minimax - a horizon cutoff scores the same as a real draw.
func minimax(board *entity.Board, depth int, maximizing bool, depthLimit int) int {
	switch winner := lineWinner(board); {
	case winner == ComputerMark:
		return winScore - depth
	case winner == HumanMark:
		return depth - winScore
	case depth == depthLimit || isFull(board):
		return 0
	}

	mark, best := HumanMark, math.MaxInt
	if maximizing {
		mark, best = ComputerMark, math.MinInt
	}

	for i := range board {
		if board[i] != entity.EmptyCell {
			continue
		}

		board[i] = mark
		score := minimax(board, depth+1, !maximizing, depthLimit)
		board[i] = entity.EmptyCell

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}
