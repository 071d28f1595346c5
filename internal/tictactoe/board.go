package tictactoe

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

const (
	MinSize = 3
	MaxSize = 5
)

// GenerateWinPatterns returns the rows, the columns and both diagonals of a size x size board.
func GenerateWinPatterns(size int) [][]int {
	patterns := make([][]int, 0, 2*size+2)

	for row := range size {
		line := make([]int, size)
		for col := range size {
			line[col] = row*size + col
		}
		patterns = append(patterns, line)
	}

	for col := range size {
		line := make([]int, size)
		for row := range size {
			line[row] = row*size + col
		}
		patterns = append(patterns, line)
	}

	diag := make([]int, size)
	anti := make([]int, size)
	for i := range size {
		diag[i] = i*size + i
		anti[i] = i*size + (size - 1 - i)
	}

	return append(patterns, diag, anti)
}

// CheckWinner - the mark owning a complete line, or EmptyCell.
func CheckWinner(cells []string, patterns [][]int) string {
	line := winningLine(cells, patterns)
	if line == nil {
		return EmptyCell
	}
	return cells[line[0]]
}

func winningLine(cells []string, patterns [][]int) []int {
	for _, pattern := range patterns {
		first := cells[pattern[0]]
		if first == EmptyCell {
			continue
		}

		complete := true
		for _, idx := range pattern[1:] {
			if cells[idx] != first {
				complete = false
				break
			}
		}

		if complete {
			return pattern
		}
	}

	return nil
}

func isFull(cells []string) bool {
	for _, cell := range cells {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

func emptyCells(cells []string) []int {
	empty := make([]int, 0, len(cells))
	for i, cell := range cells {
		if cell == EmptyCell {
			empty = append(empty, i)
		}
	}
	return empty
}

func opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
