package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestChooseBotMove(t *testing.T) {
	t.Run("Takes the win over the block", func(t *testing.T) {
		// Given: X threatens the top row and O threatens the middle row
		cells := []string{"X", "X", "", "O", "O", "", "", "", ""}

		// When: the hard bot plays O
		cell, ok := ChooseBotMove(cells, 3, Hard, PlayerO, rand.New(rand.NewSource(1)))

		// Then: it completes its own row
		require.True(t, ok)
		assert.Equal(t, 5, cell)
	})

	t.Run("Blocks when it cannot win", func(t *testing.T) {
		cells := []string{"X", "X", "", "", "O", "", "", "", ""}

		cell, ok := ChooseBotMove(cells, 3, Hard, PlayerO, rand.New(rand.NewSource(1)))

		require.True(t, ok)
		assert.Equal(t, 2, cell)
	})

	t.Run("Easy picks only empty cells", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		cells := []string{"X", "O", "X", "", "O", "", "X", "", "O"}

		for range 100 {
			cell, ok := ChooseBotMove(cells, 3, Easy, PlayerO, rng)
			require.True(t, ok)
			assert.Contains(t, []int{3, 5, 7}, cell)
		}
	})

	t.Run("Full board", func(t *testing.T) {
		cells := []string{"X", "O", "X", "X", "O", "O", "O", "X", "X"}

		_, ok := ChooseBotMove(cells, 3, Hard, PlayerO, rand.New(rand.NewSource(1)))

		assert.False(t, ok)
	})

	t.Run("Larger boards win and block", func(t *testing.T) {
		// Given: O has three of four cells in column 0 of a 4x4 board
		cells := make([]string, 16)
		cells[0], cells[4], cells[8] = PlayerO, PlayerO, PlayerO
		cells[1], cells[2], cells[6] = PlayerX, PlayerX, PlayerX

		// Then: the bot finishes the column
		cell, ok := ChooseBotMove(cells, 4, Hard, PlayerO, rand.New(rand.NewSource(1)))
		require.True(t, ok)
		assert.Equal(t, 12, cell)

		// Given: X threatens the top row of a 5x5 board
		cells = make([]string, 25)
		for _, idx := range []int{0, 1, 2, 3} {
			cells[idx] = PlayerX
		}
		cells[12], cells[6] = PlayerO, PlayerO

		// Then: the bot blocks it
		cell, ok = ChooseBotMove(cells, 5, Hard, PlayerO, rand.New(rand.NewSource(1)))
		require.True(t, ok)
		assert.Equal(t, 4, cell)
	})
}

func TestMinimax(t *testing.T) {
	// Given: O can win right now
	cells := []string{"X", "X", "", "O", "O", "O", "", "", "X"}

	// Then: a bot win at depth 0 scores 10 and an X win scores depth-10
	assert.Equal(t, 10, Minimax(cells, 0, false, PlayerO))
	assert.Equal(t, -7, Minimax([]string{"X", "X", "X", "O", "O", "", "", "", ""}, 3, true, PlayerO))
	assert.Equal(t, 0, Minimax([]string{"X", "O", "X", "X", "O", "O", "O", "X", "X"}, 0, true, PlayerO))
}

// playAll explores every reply of the opponent while the bot answers with BestMove.
func playAll(t *testing.T, board []string, turn, botMark string) {
	t.Helper()

	patterns := GenerateWinPatterns(3)
	if winner := CheckWinner(board, patterns); winner != EmptyCell {
		require.Equal(t, botMark, winner, "bot lost on %v", board)
		return
	}
	if isFull(board) {
		return
	}

	if turn == botMark {
		cell := BestMove(board, 3, botMark)
		board[cell] = botMark
		playAll(t, board, opponent(turn), botMark)
		board[cell] = EmptyCell
		return
	}

	for _, cell := range emptyCells(board) {
		board[cell] = turn
		playAll(t, board, opponent(turn), botMark)
		board[cell] = EmptyCell
	}
}

func TestBestMove_NeverLoses(t *testing.T) {
	t.Run("Bot moves first", func(t *testing.T) {
		playAll(t, make([]string, 9), PlayerO, PlayerO)
	})

	t.Run("Bot moves second", func(t *testing.T) {
		playAll(t, make([]string, 9), PlayerX, PlayerO)
	})
}
