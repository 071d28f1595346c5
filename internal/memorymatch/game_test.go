package memorymatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()

	game, err := NewGame(opts, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	return game
}

// pairOf returns the index of the other card with the same value.
func pairOf(cards []Card, index int) int {
	for i, card := range cards {
		if i != index && card.Value == cards[index].Value {
			return i
		}
	}
	return -1
}

// mismatchOf returns the index of a card with a different value.
func mismatchOf(cards []Card, index int) int {
	for i, card := range cards {
		if card.Value != cards[index].Value {
			return i
		}
	}
	return -1
}

func TestGenerateCards(t *testing.T) {
	for _, difficulty := range []int{4, 6, 8} {
		for _, theme := range Themes() {
			// When: dealing a deck for the difficulty
			cards, err := GenerateCards(Pairs(difficulty), theme, rand.New(rand.NewSource(3)))
			require.NoError(t, err)

			// Then: every value appears exactly twice and ids are sequential
			require.Len(t, cards, difficulty*difficulty)

			counts := map[string]int{}
			for i, card := range cards {
				assert.Equal(t, i, card.ID)
				counts[card.Value]++
			}
			assert.Len(t, counts, Pairs(difficulty))
			for value, count := range counts {
				assert.Equal(t, 2, count, "value %s", value)
			}
		}
	}

	t.Run("Unknown theme", func(t *testing.T) {
		_, err := GenerateCards(8, "cars", rand.New(rand.NewSource(1)))
		require.ErrorIs(t, err, ErrUnknownTheme)
	})
}

func TestNewGame(t *testing.T) {
	game := newTestGame(t, Options{Difficulty: 6, Theme: Space, Mode: Speed})

	assert.Len(t, game.Cards(), 36)
	assert.Equal(t, 150*time.Second, game.TimeLeft())
	assert.Equal(t, StatusActive, game.Status())

	_, err := NewGame(Options{Difficulty: 5}, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestGame_Flip(t *testing.T) {
	t.Run("Matching pair", func(t *testing.T) {
		// Given: a fresh game
		game := newTestGame(t, Options{})
		other := pairOf(game.Cards(), 0)

		// When: flipping both cards of a pair and resolving
		require.True(t, game.Flip(0))
		assert.False(t, game.AwaitingResolve())
		require.True(t, game.Flip(other))
		require.True(t, game.AwaitingResolve())

		result, ok := game.Resolve()

		// Then: both cards stay matched and one move is counted
		require.True(t, ok)
		assert.True(t, result.Matched)
		assert.True(t, game.Cards()[0].Matched)
		assert.True(t, game.Cards()[other].Matched)
		assert.Equal(t, 1, game.Moves())
		assert.Equal(t, 1, game.Matches())
	})

	t.Run("Mismatch turns cards back", func(t *testing.T) {
		game := newTestGame(t, Options{})
		other := mismatchOf(game.Cards(), 0)

		require.True(t, game.Flip(0))
		require.True(t, game.Flip(other))
		result, ok := game.Resolve()

		require.True(t, ok)
		assert.False(t, result.Matched)
		assert.False(t, game.Cards()[0].Flipped)
		assert.False(t, game.Cards()[other].Flipped)
		assert.Equal(t, 1, game.Moves())
		assert.Zero(t, game.Matches())
	})

	t.Run("Ignored flips", func(t *testing.T) {
		// Given: two cards face up
		game := newTestGame(t, Options{})
		other := mismatchOf(game.Cards(), 0)
		third := pairOf(game.Cards(), 0)
		require.True(t, game.Flip(0))

		// Then: the same card cannot be flipped twice
		assert.False(t, game.Flip(0))
		assert.False(t, game.Flip(-1))
		assert.False(t, game.Flip(len(game.Cards())))

		// Then: no third card while a pair waits
		require.True(t, game.Flip(other))
		assert.False(t, game.Flip(third))
		assert.Equal(t, 1, game.Moves())
	})

	t.Run("Matching every pair wins", func(t *testing.T) {
		game := newTestGame(t, Options{})
		cards := game.Cards()

		done := map[int]bool{}
		for i := range cards {
			if done[i] {
				continue
			}
			other := pairOf(cards, i)
			done[i], done[other] = true, true

			require.True(t, game.Flip(i))
			require.True(t, game.Flip(other))
			_, ok := game.Resolve()
			require.True(t, ok)
		}

		assert.Equal(t, StatusWon, game.Status())
		assert.Equal(t, 8, game.Moves())
		assert.False(t, game.Flip(0))
	})
}

func TestGame_Tick(t *testing.T) {
	t.Run("Speed mode runs out", func(t *testing.T) {
		// Given: a speed game on the smallest grid
		game := newTestGame(t, Options{Difficulty: 4, Mode: Speed})

		// When: the whole minute passes
		for range 59 {
			require.False(t, game.Tick())
		}

		// Then: the last tick loses the game
		assert.True(t, game.Tick())
		assert.Equal(t, StatusLost, game.Status())
		assert.Zero(t, game.TimeLeft())
		assert.False(t, game.Flip(0))
	})

	t.Run("Relaxed mode only counts time", func(t *testing.T) {
		game := newTestGame(t, Options{})

		for range 300 {
			require.False(t, game.Tick())
		}

		assert.Equal(t, 300*time.Second, game.Elapsed())
		assert.Equal(t, StatusActive, game.Status())
	})
}
