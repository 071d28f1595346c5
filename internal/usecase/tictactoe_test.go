package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/tictactoe"
)

func playCells(ctx context.Context, t *testing.T, controller *TicTacToeController, cells ...int) TicTacToeSnapshot {
	t.Helper()

	var result any
	for _, cell := range cells {
		var err error
		result, err = controller.Handle(ctx, ActionMove, args(t, cellArgs{Cell: cell}))
		require.NoError(t, err)
	}

	return result.(TicTacToeSnapshot)
}

func countMarks(board []string, mark string) int {
	count := 0
	for _, cell := range board {
		if cell == mark {
			count++
		}
	}
	return count
}

func TestTicTacToeController(t *testing.T) {
	ctx := context.Background()

	t.Run("Finished game updates scores and statistics", func(t *testing.T) {
		// Given: a pvp session
		deps := testDeps(t, testTiming())
		controller := NewTicTacToeController(deps, (&recorder{}).publish)
		_, err := controller.Start(ctx, nil)
		require.NoError(t, err)

		// When: X completes the top row
		snapshot := playCells(ctx, t, controller, 0, 3, 1, 4, 2)

		// Then: the win is counted and persisted
		assert.Equal(t, tictactoe.PlayerX, snapshot.State.Winner)
		assert.Equal(t, entity.TicTacToeScores{X: 1}, snapshot.Scores)
		assert.Equal(t, entity.TicTacToeScores{X: 1}, deps.Stats.TicTacToeScores.Load(ctx))
		assert.Equal(t, 1, deps.Stats.TicTacToe.Load(ctx).GamesPlayed)

		_, err = controller.Handle(ctx, ActionMove, args(t, cellArgs{Cell: 5}))
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Reset scores", func(t *testing.T) {
		deps := testDeps(t, testTiming())
		controller := NewTicTacToeController(deps, (&recorder{}).publish)
		_, err := controller.Start(ctx, nil)
		require.NoError(t, err)
		playCells(ctx, t, controller, 0, 3, 1, 4, 2)

		result, err := controller.Handle(ctx, ActionResetScores, nil)

		require.NoError(t, err)
		assert.Equal(t, entity.TicTacToeScores{}, result.(TicTacToeSnapshot).Scores)
		assert.Equal(t, entity.TicTacToeScores{}, deps.Stats.TicTacToeScores.Load(ctx))
	})

	t.Run("Bot answers after a delay", func(t *testing.T) {
		// Given: a session against the hard bot
		timing := testTiming()
		timing.BotDelayMin = 50 * time.Millisecond
		timing.BotDelayMax = 60 * time.Millisecond
		rec := &recorder{}
		controller := NewTicTacToeController(testDeps(t, timing), rec.publish)
		_, err := controller.Start(ctx, args(t, TicTacToeOptions{Mode: tictactoe.ModePvB, Difficulty: tictactoe.Hard}))
		require.NoError(t, err)

		// When: the human takes the center
		snapshot := playCells(ctx, t, controller, 4)

		// Then: the bot is thinking, then answers and is published
		assert.True(t, snapshot.Thinking)
		_, err = controller.Handle(ctx, ActionMove, args(t, cellArgs{Cell: 0}))
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)

		require.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, tick)

		published := rec.last().(TicTacToeSnapshot)
		assert.Equal(t, 1, countMarks(published.State.Board, tictactoe.PlayerO))
		assert.Equal(t, tictactoe.PlayerX, published.State.Turn)
		assert.False(t, published.Thinking)
		require.NotNil(t, published.LastBot)
		assert.Contains(t, []int{0, 2, 6, 8}, *published.LastBot)
	})

	t.Run("Bot opens when it plays X", func(t *testing.T) {
		rec := &recorder{}
		controller := NewTicTacToeController(testDeps(t, testTiming()), rec.publish)

		result, err := controller.Start(ctx, args(t, TicTacToeOptions{
			Mode: tictactoe.ModePvB, Difficulty: tictactoe.Easy, BotMark: tictactoe.PlayerX,
		}))
		require.NoError(t, err)
		assert.True(t, result.(TicTacToeSnapshot).Thinking)

		require.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, tick)
		assert.Equal(t, 1, countMarks(rec.last().(TicTacToeSnapshot).State.Board, tictactoe.PlayerX))
	})

	t.Run("Bot results are kept per difficulty", func(t *testing.T) {
		// Given: a session against the hard bot
		deps := testDeps(t, testTiming())
		rec := &recorder{}
		controller := NewTicTacToeController(deps, rec.publish)
		_, err := controller.Start(ctx, args(t, TicTacToeOptions{Mode: tictactoe.ModePvB, Difficulty: tictactoe.Hard}))
		require.NoError(t, err)

		// When: the human always takes the first empty cell
		for {
			snapshot := controller.Snapshot().(TicTacToeSnapshot)
			if snapshot.State.IsFinished() {
				break
			}
			if snapshot.Thinking {
				time.Sleep(tick)
				continue
			}
			cell := firstEmpty(snapshot.State.Board)
			_, err = controller.Handle(ctx, ActionMove, args(t, cellArgs{Cell: cell}))
			require.NoError(t, err)
		}

		// Then: the hard bot never loses and the result is recorded
		stats := deps.Stats.TicTacToe.Load(ctx)
		record := stats.BotByDifficulty[string(tictactoe.Hard)]
		assert.Equal(t, 1, stats.GamesPlayed)
		assert.Zero(t, record.Wins)
		assert.Equal(t, 1, record.Losses+record.Draws)
	})

	t.Run("Tournament plays rounds until a champion", func(t *testing.T) {
		// Given: a best-of-3 pvp tournament
		deps := testDeps(t, testTiming())
		rec := &recorder{}
		controller := NewTicTacToeController(deps, rec.publish)
		_, err := controller.Start(ctx, args(t, TicTacToeOptions{Rounds: 3}))
		require.NoError(t, err)

		// When: X wins the first round
		snapshot := playCells(ctx, t, controller, 0, 3, 1, 4, 2)
		require.Equal(t, 1, snapshot.Tournament.Wins[tictactoe.PlayerX])
		require.Empty(t, snapshot.Champion)

		// Then: the next round starts by itself
		require.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, tick)
		next := rec.last().(TicTacToeSnapshot)
		assert.Equal(t, tictactoe.StatusOngoing, next.State.Status)
		assert.Equal(t, 0, countMarks(next.State.Board, tictactoe.PlayerX))

		// When: X wins again
		snapshot = playCells(ctx, t, controller, 0, 3, 1, 4, 2)

		// Then: X is champion and no further round is scheduled
		assert.Equal(t, tictactoe.PlayerX, snapshot.Champion)
		assert.Equal(t, 1, deps.Stats.TicTacToe.Load(ctx).TournamentsWon[tictactoe.PlayerX])
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, 1, rec.count())
	})

	t.Run("Turn timer forfeits the turn", func(t *testing.T) {
		// Given: a pvp session with a short turn timer
		timing := testTiming()
		timing.TurnTimeout = 10 * time.Millisecond
		rec := &recorder{}
		controller := NewTicTacToeController(testDeps(t, timing), rec.publish)
		_, err := controller.Start(ctx, nil)
		require.NoError(t, err)

		// Then: X loses the turn without a mark placed
		require.Eventually(t, func() bool { return rec.count() >= 1 }, waitFor, tick)
		controller.Stop()

		first := func() TicTacToeSnapshot {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			return rec.snapshots[0].(TicTacToeSnapshot)
		}()
		assert.Equal(t, tictactoe.PlayerO, first.State.Turn)
		assert.Equal(t, 0, countMarks(first.State.Board, tictactoe.PlayerX))
	})

	t.Run("Rejects bad options", func(t *testing.T) {
		controller := NewTicTacToeController(testDeps(t, testTiming()), (&recorder{}).publish)

		_, err := controller.Start(ctx, args(t, TicTacToeOptions{Size: 7}))

		require.ErrorIs(t, err, tictactoe.ErrInvalidSize)
	})

	t.Run("Bad options leave the running tournament alone", func(t *testing.T) {
		// Given: a tournament waiting to start its second round
		timing := testTiming()
		timing.TournamentNextDelay = 30 * time.Millisecond
		rec := &recorder{}
		controller := NewTicTacToeController(testDeps(t, timing), rec.publish)
		t.Cleanup(controller.Stop)
		_, err := controller.Start(ctx, args(t, TicTacToeOptions{Rounds: 3}))
		require.NoError(t, err)
		playCells(ctx, t, controller, 0, 3, 1, 4, 2)

		// When: a new session is asked for with a bad size
		_, err = controller.Start(ctx, args(t, TicTacToeOptions{Size: 7}))
		require.ErrorIs(t, err, tictactoe.ErrInvalidSize)

		// Then: the tournament and its pending round survive
		snapshot := controller.Snapshot().(TicTacToeSnapshot)
		require.NotNil(t, snapshot.Tournament)
		assert.Equal(t, 1, snapshot.Tournament.Wins[tictactoe.PlayerX])

		require.Eventually(t, func() bool { return rec.count() == 1 }, waitFor, tick)
		next := rec.last().(TicTacToeSnapshot)
		assert.Equal(t, tictactoe.StatusOngoing, next.State.Status)
		assert.Len(t, next.State.Board, 9)
	})
}

func firstEmpty(board []string) int {
	for i, cell := range board {
		if cell == tictactoe.EmptyCell {
			return i
		}
	}
	return -1
}
