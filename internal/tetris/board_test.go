package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillRow(board *Board, y int, except ...int) {
	skip := map[int]bool{}
	for _, x := range except {
		skip[x] = true
	}
	for x := range Width {
		if !skip[x] {
			board[y][x] = I
		}
	}
}

func TestRotations(t *testing.T) {
	expected := map[PieceType]int{I: 2, O: 1, T: 4, S: 2, Z: 2, J: 4, L: 4}

	for kind, count := range expected {
		require.Equal(t, count, Rotations(kind), "piece %s", kind)

		for rotation := range count {
			cells := Piece{Type: kind, Rotation: rotation}.Cells()
			assert.Len(t, cells, 4, "piece %s rotation %d", kind, rotation)
		}
	}
}

func TestBoard_IsValidPosition(t *testing.T) {
	var board Board
	board[19][0] = T

	t.Run("Inside the empty board", func(t *testing.T) {
		assert.True(t, board.IsValidPosition(Piece{Type: O, X: 4, Y: 0}))
	})

	t.Run("Rejects walls and floor", func(t *testing.T) {
		assert.False(t, board.IsValidPosition(Piece{Type: O, X: -1, Y: 0}))
		assert.False(t, board.IsValidPosition(Piece{Type: O, X: 9, Y: 0}))
		assert.False(t, board.IsValidPosition(Piece{Type: O, X: 4, Y: 19}))
	})

	t.Run("Rejects overlap with a locked cell", func(t *testing.T) {
		assert.False(t, board.IsValidPosition(Piece{Type: O, X: 0, Y: 18}))
		assert.True(t, board.IsValidPosition(Piece{Type: O, X: 1, Y: 18}))
	})

	t.Run("Allows cells above the board", func(t *testing.T) {
		assert.True(t, board.IsValidPosition(Piece{Type: I, Rotation: 1, X: 0, Y: -3}))
	})
}

func TestBoard_ClearLines(t *testing.T) {
	// Given: rows 3 and 7 full and a marker in the partial rows around them
	var board Board
	fillRow(&board, 3)
	fillRow(&board, 7)
	board[2][0] = T
	board[5][1] = S
	board[10][2] = Z

	// When: clearing lines
	cleared := board.ClearLines()

	// Then: both rows are removed and the rows above shift down by the rows cleared below them
	assert.Equal(t, []int{3, 7}, cleared)
	assert.Equal(t, T, board[4][0])
	assert.Equal(t, S, board[6][1])
	assert.Equal(t, Z, board[10][2])
	assert.Equal(t, [Width]PieceType{}, board[0])
	assert.Equal(t, [Width]PieceType{}, board[1])

	for y := range Height {
		assert.False(t, board.rowFull(y))
	}
}

func TestBoard_Metrics(t *testing.T) {
	// Given: column 0 with a hole under its top cell and column 1 two high
	var board Board
	board[17][0] = T
	board[19][0] = T
	board[18][1] = T
	board[19][1] = T

	heights := board.ColumnHeights()

	assert.Equal(t, 3, heights[0])
	assert.Equal(t, 2, heights[1])
	assert.Equal(t, 1, board.Holes())
	assert.Equal(t, 1+2, Bumpiness(heights))
	assert.Equal(t, 3, MaxHeight(heights))
}
