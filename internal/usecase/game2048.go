package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/game2048"
	"github.com/rocketscienceinc/arcade-backend/internal/schedule"
)

const (
	ActionUndo         = "undo"
	ActionSuggest      = "suggest"
	ActionAutoplay     = "autoplay"
	ActionStopAutoplay = "stop-autoplay"
)

type Game2048Options struct {
	Size int `json:"size"`
}

type Game2048Snapshot struct {
	Game       string               `json:"game"`
	Tiles      [][]*game2048.Tile   `json:"tiles"`
	Score      int                  `json:"score"`
	Moves      int                  `json:"moves"`
	Won        bool                 `json:"won"`
	GameOver   bool                 `json:"gameOver"`
	CanUndo    bool                 `json:"canUndo"`
	Autoplay   bool                 `json:"autoplay"`
	Suggestion game2048.Direction   `json:"suggestion,omitempty"`
	Last       *game2048.MoveResult `json:"last,omitempty"`
	Unlocked   []int                `json:"unlocked,omitempty"`
	Stats      entity.Game2048Stats `json:"stats"`
}

type directionArgs struct {
	Direction game2048.Direction `json:"direction"`
}

type Game2048Controller struct {
	logger  *slog.Logger
	deps    Dependencies
	publish Publish

	mu         sync.Mutex
	game       *game2048.Game
	stats      entity.Game2048Stats
	last       *game2048.MoveResult
	unlocked   []int
	suggestion game2048.Direction
	autoplay   schedule.Slot
}

func NewGame2048Controller(deps Dependencies, publish Publish) *Game2048Controller {
	return &Game2048Controller{
		logger:  deps.Logger.With("component", "controller", "game", entity.Game2048),
		deps:    deps,
		publish: publish,
	}
}

func (that *Game2048Controller) Game() string {
	return entity.Game2048
}

func (that *Game2048Controller) weights() game2048.Weights {
	w := that.deps.Weights.G2048
	return game2048.Weights{
		Score:        w.Score,
		Empty:        w.Empty,
		Monotonicity: w.Monotonicity,
		Smoothness:   w.Smoothness,
	}
}

func (that *Game2048Controller) Start(ctx context.Context, raw json.RawMessage) (any, error) {
	opts, err := decodeArgs[Game2048Options](raw)
	if err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.autoplay.Cancel()

	game, err := game2048.NewGame(opts.Size, that.deps.newRand())
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.game = game
	that.last = nil
	that.unlocked = nil
	that.suggestion = ""

	stats, err := that.deps.Stats.Game2048.Update(ctx, func(stats *entity.Game2048Stats) {
		stats.GamesPlayed++
	})
	if err != nil {
		that.logger.With("method", "Start").Error("failed to save statistics", "error", err)
	}
	that.stats = stats

	return that.snapshot(), nil
}

func (that *Game2048Controller) Handle(ctx context.Context, action string, args json.RawMessage) (any, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil, apperror.ErrGameIsNotStarted
	}

	switch action {
	case ActionMove:
		input, err := decodeArgs[directionArgs](args)
		if err != nil {
			return nil, err
		}

		if err = that.move(ctx, input.Direction); err != nil {
			return nil, err
		}
	case ActionUndo:
		if !that.game.Undo() {
			return nil, fmt.Errorf("%w: nothing to undo", ErrInvalidArgs)
		}
		that.last = nil
	case ActionSuggest:
		that.suggestion = ""
		if dir, _, ok := game2048.BestMove(that.game.Values(), that.weights()); ok {
			that.suggestion = dir
		}
	case ActionAutoplay:
		if that.game.IsGameOver() {
			return nil, apperror.ErrGameFinished
		}
		if !that.autoplay.Active() {
			that.autoplay.Repeat(that.deps.Timing.AutoplayInterval, that.autoStep)
		}
	case ActionStopAutoplay:
		that.autoplay.Cancel()
	default:
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownAction, action)
	}

	return that.snapshot(), nil
}

func (that *Game2048Controller) autoStep(ctx context.Context) (time.Duration, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "autoStep")

	if ctx.Err() != nil {
		log.Debug("dropped stale autoplay step")
		return 0, false
	}

	dir, _, ok := game2048.BestMove(that.game.Values(), that.weights())
	if !ok {
		return 0, false
	}

	if err := that.move(context.WithoutCancel(ctx), dir); err != nil {
		log.Error("autoplay move failed", "error", err)
		return 0, false
	}

	if !that.last.Moved {
		log.Warn("autoplay move changed nothing", "direction", dir)
		return 0, false
	}

	done := that.game.IsGameOver()
	snapshot := that.snapshot()
	snapshot.Autoplay = !done
	that.publish(snapshot)

	return that.deps.Timing.AutoplayInterval, !done
}

func (that *Game2048Controller) move(ctx context.Context, dir game2048.Direction) error {
	result, err := that.game.Move(dir)
	if err != nil {
		return fmt.Errorf("failed to move: %w", err)
	}

	that.last = &result
	that.suggestion = ""
	if !result.Moved {
		return nil
	}

	that.record(ctx, result)

	return nil
}

func (that *Game2048Controller) record(ctx context.Context, result game2048.MoveResult) {
	log := that.logger.With("method", "record")

	score, tile := that.game.Score(), that.game.MaxTile()
	var unlocked []int

	stats, err := that.deps.Stats.Game2048.Update(ctx, func(stats *entity.Game2048Stats) {
		stats.TotalMoves++
		stats.BestScore = max(stats.BestScore, score)
		stats.BestTile = max(stats.BestTile, tile)
		if result.Won {
			stats.GamesWon++
		}
		for _, threshold := range result.Unlocked {
			if stats.Unlock(threshold) {
				unlocked = append(unlocked, threshold)
			}
		}
	})
	if err != nil {
		log.Error("failed to save statistics", "error", err)
	}

	that.stats = stats
	that.unlocked = unlocked

	if result.Won {
		log.Info("2048 reached", "score", score)
	}
	if result.GameOver {
		log.Info("game over", "score", score, "tile", tile)
	}
}

func (that *Game2048Controller) Snapshot() any {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil
	}

	return that.snapshot()
}

func (that *Game2048Controller) snapshot() Game2048Snapshot {
	return Game2048Snapshot{
		Game:       entity.Game2048,
		Tiles:      that.game.Tiles(),
		Score:      that.game.Score(),
		Moves:      that.game.Moves(),
		Won:        that.game.HasWon(),
		GameOver:   that.game.IsGameOver(),
		CanUndo:    that.game.CanUndo(),
		Autoplay:   that.autoplay.Active(),
		Suggestion: that.suggestion,
		Last:       that.last,
		Unlocked:   that.unlocked,
		Stats:      that.stats,
	}
}

func (that *Game2048Controller) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.autoplay.Cancel()
}
