package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/tetris"
)

func startTetris(ctx context.Context, t *testing.T, deps Dependencies, rec *recorder) (*TetrisController, TetrisSnapshot) {
	t.Helper()

	controller := NewTetrisController(deps, rec.publish)
	result, err := controller.Start(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(controller.Stop)

	return controller, result.(TetrisSnapshot)
}

func TestTetrisController(t *testing.T) {
	ctx := context.Background()

	t.Run("Hard drop scores and locks the piece", func(t *testing.T) {
		// Given: a fresh game
		controller, started := startTetris(ctx, t, testDeps(t, testTiming()), &recorder{})

		// When: dropping the falling piece
		result, err := controller.Handle(ctx, ActionDrop, nil)
		require.NoError(t, err)

		// Then: two points per row are scored and the next piece falls
		snapshot := result.(TetrisSnapshot)
		assert.Positive(t, snapshot.Score)
		assert.Zero(t, snapshot.Score%2)
		require.NotNil(t, snapshot.LastLock)
		assert.False(t, snapshot.LastLock.GameOver)
		assert.Equal(t, started.Next, snapshot.Piece.Type)
	})

	t.Run("Hold swaps once per piece", func(t *testing.T) {
		controller, started := startTetris(ctx, t, testDeps(t, testTiming()), &recorder{})

		result, err := controller.Handle(ctx, ActionHold, nil)
		require.NoError(t, err)

		snapshot := result.(TetrisSnapshot)
		assert.Equal(t, started.Piece.Type, snapshot.Held)
		assert.False(t, snapshot.CanHold)

		result, err = controller.Handle(ctx, ActionHold, nil)
		require.NoError(t, err)
		assert.Equal(t, snapshot.Piece, result.(TetrisSnapshot).Piece)
	})

	t.Run("Pause freezes the piece until resumed", func(t *testing.T) {
		// Given: a paused game
		controller, started := startTetris(ctx, t, testDeps(t, testTiming()), &recorder{})
		result, err := controller.Handle(ctx, ActionPause, nil)
		require.NoError(t, err)
		assert.Equal(t, tetris.StatusPaused, result.(TetrisSnapshot).Status)

		// When: trying to move and drop
		_, err = controller.Handle(ctx, ActionLeft, nil)
		require.NoError(t, err)
		result, err = controller.Handle(ctx, ActionDrop, nil)
		require.NoError(t, err)

		// Then: nothing moved
		assert.Equal(t, started.Piece, result.(TetrisSnapshot).Piece)
		assert.Zero(t, result.(TetrisSnapshot).Score)
		assert.False(t, controller.gravity.Active())

		_, err = controller.Handle(ctx, ActionAutoplay, nil)
		require.ErrorIs(t, err, ErrBusy)

		// When: resuming
		result, err = controller.Handle(ctx, ActionResume, nil)
		require.NoError(t, err)

		// Then: the game runs again
		assert.Equal(t, tetris.StatusActive, result.(TetrisSnapshot).Status)
		assert.True(t, controller.gravity.Active())
	})

	t.Run("Game over records statistics", func(t *testing.T) {
		// Given: a game where every piece is dropped where it spawns
		deps := testDeps(t, testTiming())
		controller, _ := startTetris(ctx, t, deps, &recorder{})

		// When: the stack reaches the top
		var err error
		for range 200 {
			if _, err = controller.Handle(ctx, ActionDrop, nil); err != nil {
				break
			}
		}

		// Then: further actions are refused and the game is saved once
		require.ErrorIs(t, err, apperror.ErrGameFinished)

		snapshot := controller.Snapshot().(TetrisSnapshot)
		assert.Equal(t, tetris.StatusGameOver, snapshot.Status)
		require.NotNil(t, snapshot.Stats)
		assert.Equal(t, 1, snapshot.Stats.GamesPlayed)
		assert.Equal(t, snapshot.Score, snapshot.Stats.BestScore)
		assert.Equal(t, 1, deps.Stats.Tetris.Load(ctx).GamesPlayed)
		assert.False(t, controller.gravity.Active())

		_, err = controller.Handle(ctx, ActionSuggest, nil)
		require.NoError(t, err)
	})

	t.Run("Game over through hold records statistics", func(t *testing.T) {
		// Given: the falling piece sits below the top rows, which are filled but for one column
		deps := testDeps(t, testTiming())
		controller, _ := startTetris(ctx, t, deps, &recorder{})
		for range 5 {
			_, err := controller.Handle(ctx, ActionDown, nil)
			require.NoError(t, err)
		}

		var board tetris.Board
		for y := range 2 {
			for x := 1; x < tetris.Width; x++ {
				board[y][x] = tetris.I
			}
		}
		controller.mu.Lock()
		controller.game.Load(board)
		controller.mu.Unlock()

		// When: holding brings in a piece that cannot spawn
		result, err := controller.Handle(ctx, ActionHold, nil)
		require.NoError(t, err)

		// Then: the game is over, saved once and gravity stops
		snapshot := result.(TetrisSnapshot)
		assert.Equal(t, tetris.StatusGameOver, snapshot.Status)
		require.NotNil(t, snapshot.Stats)
		assert.Equal(t, 1, snapshot.Stats.GamesPlayed)
		assert.Equal(t, 1, deps.Stats.Tetris.Load(ctx).GamesPlayed)
		assert.False(t, controller.gravity.Active())
		assert.False(t, controller.autoplay.Active())

		_, err = controller.Handle(ctx, ActionHold, nil)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Autoplay clears lines", func(t *testing.T) {
		// Given: a fresh game
		rec := &recorder{}
		controller, _ := startTetris(ctx, t, testDeps(t, testTiming()), rec)

		// When: autoplay runs
		_, err := controller.Handle(ctx, ActionAutoplay, nil)
		require.NoError(t, err)

		// Then: lines are cleared along the way
		require.Eventually(t, func() bool {
			return controller.Snapshot().(TetrisSnapshot).Lines >= 1
		}, waitFor, tick)

		result, err := controller.Handle(ctx, ActionStopAutoplay, nil)
		require.NoError(t, err)
		assert.False(t, result.(TetrisSnapshot).Autoplay)
		assert.NotNil(t, result.(TetrisSnapshot).Execution)
	})

	t.Run("New game cancels autoplay", func(t *testing.T) {
		rec := &recorder{}
		controller, _ := startTetris(ctx, t, testDeps(t, testTiming()), rec)
		_, err := controller.Handle(ctx, ActionAutoplay, nil)
		require.NoError(t, err)
		require.Eventually(t, func() bool { return rec.count() >= 1 }, waitFor, tick)

		result, err := controller.Start(ctx, nil)
		require.NoError(t, err)

		snapshot := result.(TetrisSnapshot)
		assert.False(t, snapshot.Autoplay)
		assert.Zero(t, snapshot.Score)

		published := rec.count()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, published, rec.count())
	})

	t.Run("Suggest proposes a placement", func(t *testing.T) {
		controller, _ := startTetris(ctx, t, testDeps(t, testTiming()), &recorder{})

		result, err := controller.Handle(ctx, ActionSuggest, nil)

		require.NoError(t, err)
		require.NotNil(t, result.(TetrisSnapshot).Suggestion)
	})
}
