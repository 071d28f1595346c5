package tictactoe

import (
	"math"

	"golang.org/x/exp/rand"
)

// mediumAccuracy - share of medium-difficulty turns that play the searched move.
const mediumAccuracy = 0.7

const winScore = 10

// search depth for boards where the exhaustive search is out of reach
var heuristicDepth = map[int]int{
	4: 4,
	5: 3,
}

// ChooseBotMove picks the bot's cell for the given difficulty. It reports false when the board is full.
func ChooseBotMove(cells []string, size int, difficulty Difficulty, botMark string, rng *rand.Rand) (int, bool) {
	empty := emptyCells(cells)
	if len(empty) == 0 {
		return -1, false
	}

	switch difficulty {
	case Easy:
		return empty[rng.Intn(len(empty))], true
	case Medium:
		if rng.Float64() >= mediumAccuracy {
			return empty[rng.Intn(len(empty))], true
		}
	}

	return BestMove(cells, size, botMark), true
}

// BestMove runs the exhaustive minimax on 3x3 boards and a depth-limited alpha-beta search on larger ones.
func BestMove(cells []string, size int, botMark string) int {
	board := append([]string(nil), cells...)
	patterns := GenerateWinPatterns(size)

	if size != MinSize {
		return heuristicMove(board, patterns, botMark, heuristicDepth[size])
	}

	bestScore := math.MinInt
	bestMove := -1

	for _, cell := range emptyCells(board) {
		board[cell] = botMark
		score := minimax(board, patterns, 0, false, botMark)
		board[cell] = EmptyCell

		if score > bestScore {
			bestScore = score
			bestMove = cell
		}
	}

	return bestMove
}

// Minimax scores a 3x3 position for botMark: a bot win is worth 10-depth, a loss depth-10, a draw 0.
func Minimax(cells []string, depth int, maximizing bool, botMark string) int {
	board := append([]string(nil), cells...)
	return minimax(board, GenerateWinPatterns(MinSize), depth, maximizing, botMark)
}

func minimax(board []string, patterns [][]int, depth int, maximizing bool, botMark string) int {
	switch CheckWinner(board, patterns) {
	case botMark:
		return winScore - depth
	case opponent(botMark):
		return depth - winScore
	}

	if isFull(board) {
		return 0
	}

	mark := botMark
	best := math.MinInt
	if !maximizing {
		mark = opponent(botMark)
		best = math.MaxInt
	}

	for _, cell := range emptyCells(board) {
		board[cell] = mark
		score := minimax(board, patterns, depth+1, !maximizing, botMark)
		board[cell] = EmptyCell

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}

const heuristicWin = 1_000_000

func heuristicMove(board []string, patterns [][]int, botMark string, depth int) int {
	empty := emptyCells(board)

	// an immediate win or block beats anything the evaluation could find
	for _, mark := range []string{botMark, opponent(botMark)} {
		for _, cell := range empty {
			board[cell] = mark
			won := CheckWinner(board, patterns) == mark
			board[cell] = EmptyCell
			if won {
				return cell
			}
		}
	}

	bestScore := math.MinInt
	bestMove := empty[0]
	alpha, beta := math.MinInt, math.MaxInt

	for _, cell := range empty {
		board[cell] = botMark
		score := alphaBeta(board, patterns, depth-1, 1, alpha, beta, false, botMark)
		board[cell] = EmptyCell

		if score > bestScore {
			bestScore = score
			bestMove = cell
		}
		alpha = max(alpha, bestScore)
	}

	return bestMove
}

func alphaBeta(board []string, patterns [][]int, depth, ply, alpha, beta int, maximizing bool, botMark string) int {
	switch CheckWinner(board, patterns) {
	case botMark:
		return heuristicWin - ply
	case opponent(botMark):
		return ply - heuristicWin
	}

	if isFull(board) {
		return 0
	}

	if depth == 0 {
		return evaluateLines(board, patterns, botMark)
	}

	if maximizing {
		best := math.MinInt
		for _, cell := range emptyCells(board) {
			board[cell] = botMark
			best = max(best, alphaBeta(board, patterns, depth-1, ply+1, alpha, beta, false, botMark))
			board[cell] = EmptyCell

			alpha = max(alpha, best)
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	for _, cell := range emptyCells(board) {
		board[cell] = opponent(botMark)
		best = min(best, alphaBeta(board, patterns, depth-1, ply+1, alpha, beta, true, botMark))
		board[cell] = EmptyCell

		beta = min(beta, best)
		if alpha >= beta {
			break
		}
	}
	return best
}

// evaluateLines rewards lines still open to one side, 10^k for k own marks in the line.
func evaluateLines(board []string, patterns [][]int, botMark string) int {
	score := 0

	for _, pattern := range patterns {
		own, other := 0, 0
		for _, idx := range pattern {
			switch board[idx] {
			case botMark:
				own++
			case EmptyCell:
			default:
				other++
			}
		}

		switch {
		case own > 0 && other == 0:
			score += pow10(own)
		case other > 0 && own == 0:
			score -= pow10(other)
		}
	}

	return score
}

func pow10(n int) int {
	result := 1
	for range n {
		result *= 10
	}
	return result
}
