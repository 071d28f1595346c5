package game2048

import (
	"math"
	"math/bits"
)

type Weights struct {
	Score        float64
	Empty        float64
	Monotonicity float64
	Smoothness   float64
}

var DefaultWeights = Weights{
	Score:        10,
	Empty:        100,
	Monotonicity: 50,
	Smoothness:   30,
}

// noMoveScore - score of a direction that leaves the grid unchanged.
const noMoveScore = -1

// BestMove simulates every direction one ply ahead and returns the best scoring one.
// A direction that changes the grid always wins over one that does not, whatever the scores.
// Ties keep the first direction in Directions. It reports false when no direction changes the grid.
func BestMove(values [][]int, weights Weights) (Direction, float64, bool) {
	noID := func() int { return 0 }

	best := Direction("")
	bestScore := math.Inf(-1)

	for _, dir := range Directions {
		trial := fromValues(values, noID)

		moved, gained := trial.sweep(dir, noID)
		if !moved {
			continue
		}

		if score := Evaluate(trial.values(), gained, weights); score > bestScore {
			best = dir
			bestScore = score
		}
	}

	if best == "" {
		return Directions[0], noMoveScore, false
	}

	return best, bestScore, true
}

// Evaluate scores a grid reached by a move that gained the given points.
func Evaluate(values [][]int, gained int, weights Weights) float64 {
	return weights.Score*float64(gained) +
		weights.Empty*float64(countEmpty(values)) +
		weights.Monotonicity*float64(Monotonicity(values)) +
		weights.Smoothness*Smoothness(values)
}

func countEmpty(values [][]int) int {
	count := 0
	for _, row := range values {
		for _, value := range row {
			if value == 0 {
				count++
			}
		}
	}
	return count
}

// Monotonicity sums, over every row and column, the larger of its non-decreasing and non-increasing adjacent pair counts.
func Monotonicity(values [][]int) int {
	size := len(values)
	total := 0

	for i := range size {
		rowUp, rowDown, colUp, colDown := 0, 0, 0, 0
		for k := 0; k+1 < size; k++ {
			a, b := values[i][k], values[i][k+1]
			if a <= b {
				rowUp++
			}
			if a >= b {
				rowDown++
			}

			a, b = values[k][i], values[k+1][i]
			if a <= b {
				colUp++
			}
			if a >= b {
				colDown++
			}
		}
		total += max(rowUp, rowDown) + max(colUp, colDown)
	}

	return total
}

// Smoothness is the negated sum of log2 differences between each tile and its right and bottom neighbours.
func Smoothness(values [][]int) float64 {
	size := len(values)
	total := 0

	for r := range size {
		for c := range size {
			value := values[r][c]
			if value == 0 {
				continue
			}

			if c+1 < size && values[r][c+1] != 0 {
				total += absInt(log2(value) - log2(values[r][c+1]))
			}
			if r+1 < size && values[r+1][c] != 0 {
				total += absInt(log2(value) - log2(values[r+1][c]))
			}
		}
	}

	return -float64(total)
}

func log2(value int) int {
	return bits.Len(uint(value)) - 1
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
