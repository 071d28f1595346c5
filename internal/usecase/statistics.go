package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/stats"
)

type statisticsRepo interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
}

// Statistics groups the persisted statistics of every game.
type Statistics struct {
	GuessBest       *stats.Store[int]
	TicTacToeScores *stats.Store[entity.TicTacToeScores]
	TicTacToe       *stats.Store[entity.TicTacToeStats]
	Game2048        *stats.Store[entity.Game2048Stats]
	Tetris          *stats.Store[entity.TetrisStats]
	MemoryMatch     *stats.Store[entity.MemoryStats]
}

func NewStatistics(logger *slog.Logger, repo statisticsRepo) *Statistics {
	return &Statistics{
		GuessBest:       stats.New(logger, repo, entity.KeyGuessBestScore, func() int { return 0 }),
		TicTacToeScores: stats.New(logger, repo, entity.KeyTicTacToeScores, func() entity.TicTacToeScores { return entity.TicTacToeScores{} }),
		TicTacToe:       stats.New(logger, repo, entity.KeyTicTacToeStats, entity.NewTicTacToeStats),
		Game2048:        stats.New(logger, repo, entity.KeyGame2048Stats, entity.NewGame2048Stats),
		Tetris:          stats.New(logger, repo, entity.KeyTetrisStats, func() entity.TetrisStats { return entity.TetrisStats{} }),
		MemoryMatch:     stats.New(logger, repo, entity.KeyMemoryStats, entity.NewMemoryStats),
	}
}

type GuessStatistics struct {
	BestScore int `json:"bestScore"`
}

type TicTacToeStatistics struct {
	Scores entity.TicTacToeScores `json:"scores"`
	Stats  entity.TicTacToeStats  `json:"stats"`
}

// ForGame returns the persisted statistics of a game.
func (that *Statistics) ForGame(ctx context.Context, game string) (any, error) {
	switch game {
	case entity.GameNumberGuess:
		return GuessStatistics{BestScore: that.GuessBest.Load(ctx)}, nil
	case entity.GameTicTacToe:
		return TicTacToeStatistics{
			Scores: that.TicTacToeScores.Load(ctx),
			Stats:  that.TicTacToe.Load(ctx),
		}, nil
	case entity.Game2048:
		return that.Game2048.Load(ctx), nil
	case entity.GameTetris:
		return that.Tetris.Load(ctx), nil
	case entity.GameMemoryMatch:
		return that.MemoryMatch.Load(ctx), nil
	}

	return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownGame, game)
}
