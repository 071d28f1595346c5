package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/testing/suite"
)

// exerciseRepository runs the same contract against every implementation.
func exerciseRepository(ctx context.Context, t *testing.T, repo StatisticsRepository) {
	t.Helper()

	t.Run("Load_NotFound", func(t *testing.T) {
		// When: loading a key that was never written
		_, err := repo.Load(ctx, "missing")

		// Then: ErrNotFound should be returned
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Save_Then_Load", func(t *testing.T) {
		// Given: saved scores
		err := repo.Save(ctx, entity.KeyTicTacToeScores, `{"X":1,"O":0,"draw":0}`)
		require.NoError(t, err)

		// When: loading them back
		value, err := repo.Load(ctx, entity.KeyTicTacToeScores)

		// Then: the stored string should be returned unchanged
		require.NoError(t, err)
		assert.Equal(t, `{"X":1,"O":0,"draw":0}`, value)
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		// Given: a best score saved twice
		require.NoError(t, repo.Save(ctx, entity.KeyGuessBestScore, "9"))
		require.NoError(t, repo.Save(ctx, entity.KeyGuessBestScore, "6"))

		// When: loading
		value, err := repo.Load(ctx, entity.KeyGuessBestScore)

		// Then: the last value wins
		require.NoError(t, err)
		assert.Equal(t, "6", value)
	})

	t.Run("Delete", func(t *testing.T) {
		// Given: a stored key
		require.NoError(t, repo.Save(ctx, entity.KeyTetrisStats, "{}"))

		// When: deleting it twice
		require.NoError(t, repo.Delete(ctx, entity.KeyTetrisStats))
		err := repo.Delete(ctx, entity.KeyTetrisStats)

		// Then: the second delete reports ErrNotFound and the key is gone
		require.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = repo.Load(ctx, entity.KeyTetrisStats)
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestMemoryStatistics(t *testing.T) {
	exerciseRepository(context.Background(), t, NewMemoryStatistics())
}

func TestSQLiteStatistics(t *testing.T) {
	ctx, st := suite.NewSQLite(t)

	exerciseRepository(ctx, t, NewSQLiteStatistics(st.SQLite.Connection))
}

func TestRedisStatistics(t *testing.T) {
	ctx, st := suite.NewRedis(t)

	exerciseRepository(ctx, t, NewRedisStatistics(st.Redis))
}
