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
	"github.com/rocketscienceinc/arcade-backend/internal/schedule"
	"github.com/rocketscienceinc/arcade-backend/internal/tetris"
)

const (
	ActionLeft   = "left"
	ActionRight  = "right"
	ActionDown   = "down"
	ActionRotate = "rotate"
	ActionDrop   = "drop"
	ActionHold   = "hold"
	ActionPause  = "pause"
	ActionResume = "resume"
)

type TetrisSnapshot struct {
	Game       string              `json:"game"`
	Board      tetris.Board        `json:"board"`
	Piece      tetris.Piece        `json:"piece"`
	GhostY     int                 `json:"ghostY"`
	Next       tetris.PieceType    `json:"next"`
	Held       tetris.PieceType    `json:"held,omitempty"`
	CanHold    bool                `json:"canHold"`
	Score      int                 `json:"score"`
	Lines      int                 `json:"lines"`
	Level      int                 `json:"level"`
	IntervalMS int64               `json:"intervalMs"`
	Status     tetris.Status       `json:"status"`
	Autoplay   bool                `json:"autoplay"`
	Suggestion *tetris.Placement   `json:"suggestion,omitempty"`
	LastLock   *tetris.LockResult  `json:"lastLock,omitempty"`
	Execution  *tetris.Execution   `json:"execution,omitempty"`
	Stats      *entity.TetrisStats `json:"stats,omitempty"`
}

type TetrisController struct {
	logger  *slog.Logger
	deps    Dependencies
	publish Publish

	mu         sync.Mutex
	game       *tetris.Game
	tetrises   int
	suggestion *tetris.Placement
	lastLock   *tetris.LockResult
	execution  *tetris.Execution
	final      *entity.TetrisStats

	gravity  schedule.Slot
	autoplay schedule.Slot
}

func NewTetrisController(deps Dependencies, publish Publish) *TetrisController {
	return &TetrisController{
		logger:  deps.Logger.With("component", "controller", "game", entity.GameTetris),
		deps:    deps,
		publish: publish,
	}
}

func (that *TetrisController) Game() string {
	return entity.GameTetris
}

func (that *TetrisController) weights() tetris.Weights {
	w := that.deps.Weights.Tetris
	return tetris.Weights{
		Lines:     w.Lines,
		Holes:     w.Holes,
		Bumpiness: w.Bumpiness,
		Height:    w.Height,
	}
}

func (that *TetrisController) Start(_ context.Context, _ json.RawMessage) (any, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.gravity.Cancel()
	that.autoplay.Cancel()

	that.game = tetris.NewGame(that.deps.newRand())
	that.tetrises = 0
	that.suggestion = nil
	that.lastLock = nil
	that.execution = nil
	that.final = nil

	that.startGravity()

	that.logger.With("method", "Start").Debug("session started")

	return that.snapshot(), nil
}

func (that *TetrisController) startGravity() {
	that.gravity.Repeat(that.game.DropInterval(), that.fall)
}

// fall is one gravity step; the next one is due after the interval of the level reached.
func (that *TetrisController) fall(ctx context.Context) (time.Duration, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if ctx.Err() != nil {
		that.logger.With("method", "fall").Debug("dropped stale gravity tick")
		return 0, false
	}

	locked, result := that.game.Tick()
	if locked {
		that.afterLock(context.WithoutCancel(ctx), result)
	}

	that.publish(that.snapshot())

	return that.game.DropInterval(), !that.game.IsGameOver()
}

func (that *TetrisController) Handle(ctx context.Context, action string, args json.RawMessage) (any, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil, apperror.ErrGameIsNotStarted
	}

	if that.game.IsGameOver() && action != ActionSuggest {
		return nil, apperror.ErrGameFinished
	}

	ok := true
	switch action {
	case ActionLeft:
		ok = that.game.MoveLeft()
	case ActionRight:
		ok = that.game.MoveRight()
	case ActionDown:
		ok = that.game.MoveDown()
	case ActionRotate:
		ok = that.game.Rotate()
	case ActionDrop:
		if that.game.IsPaused() {
			ok = false
			break
		}
		_, result := that.game.HardDrop()
		that.afterLock(ctx, result)
	case ActionHold:
		if ok = that.game.Hold(); ok && that.game.IsGameOver() {
			that.gravity.Cancel()
			that.autoplay.Cancel()
			that.recordGame(ctx)
		}
	case ActionPause:
		if ok = that.game.Pause(); ok {
			that.gravity.Cancel()
			that.autoplay.Cancel()
		}
	case ActionResume:
		if ok = that.game.Resume(); ok {
			that.startGravity()
		}
	case ActionSuggest:
		placement, found := that.game.Suggest(that.weights())
		if found {
			that.suggestion = &placement
		}
	case ActionAutoplay:
		if that.game.IsPaused() {
			return nil, fmt.Errorf("%w: game is paused", ErrBusy)
		}
		if !that.autoplay.Active() {
			that.autoplay.Repeat(that.deps.Timing.AutoplayInterval, that.autoStep)
		}
	case ActionStopAutoplay:
		that.autoplay.Cancel()
	default:
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownAction, action)
	}

	if !ok {
		that.logger.With("method", "Handle").Debug("move rejected", "action", action)
	}

	return that.snapshot(), nil
}

// autoStep plays the best placement of the falling piece.
func (that *TetrisController) autoStep(ctx context.Context) (time.Duration, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "autoStep")

	if ctx.Err() != nil {
		log.Debug("dropped stale autoplay step")
		return 0, false
	}

	placement, found := that.game.Suggest(that.weights())
	if !found {
		return 0, false
	}

	execution := that.game.Execute(placement)
	if !execution.Reached {
		log.Debug("placement drifted", "planned", placement, "landed", execution.Landed)
	}
	that.execution = &execution
	that.afterLock(context.WithoutCancel(ctx), execution.Lock)

	done := that.game.IsGameOver()
	snapshot := that.snapshot()
	snapshot.Autoplay = !done
	that.publish(snapshot)

	return that.deps.Timing.AutoplayInterval, !done
}

func (that *TetrisController) afterLock(ctx context.Context, result tetris.LockResult) {
	that.lastLock = &result
	that.suggestion = nil

	if len(result.Cleared) == 4 {
		that.tetrises++
	}

	if result.LevelUp {
		// restart gravity at the new speed
		that.startGravity()
	}

	if result.GameOver {
		that.gravity.Cancel()
		that.autoplay.Cancel()
		that.recordGame(ctx)
	}
}

func (that *TetrisController) recordGame(ctx context.Context) {
	log := that.logger.With("method", "recordGame")

	score, lines, level := that.game.Score(), that.game.Lines(), that.game.Level()
	log.Info("game over", "score", score, "lines", lines, "level", level)

	stats, err := that.deps.Stats.Tetris.Update(ctx, func(stats *entity.TetrisStats) {
		stats.GamesPlayed++
		stats.BestScore = max(stats.BestScore, score)
		stats.BestLines = max(stats.BestLines, lines)
		stats.BestLevel = max(stats.BestLevel, level)
		stats.TotalLines += lines
		stats.Tetrises += that.tetrises
	})
	if err != nil {
		log.Error("failed to save statistics", "error", err)
	}

	that.final = &stats
}

func (that *TetrisController) Snapshot() any {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil
	}

	return that.snapshot()
}

func (that *TetrisController) snapshot() TetrisSnapshot {
	return TetrisSnapshot{
		Game:       entity.GameTetris,
		Board:      that.game.Board(),
		Piece:      that.game.Current(),
		GhostY:     that.game.GhostY(),
		Next:       that.game.Next(),
		Held:       that.game.Held(),
		CanHold:    that.game.CanHold(),
		Score:      that.game.Score(),
		Lines:      that.game.Lines(),
		Level:      that.game.Level(),
		IntervalMS: that.game.DropInterval().Milliseconds(),
		Status:     that.game.Status(),
		Autoplay:   that.autoplay.Active(),
		Suggestion: that.suggestion,
		LastLock:   that.lastLock,
		Execution:  that.execution,
		Stats:      that.final,
	}
}

func (that *TetrisController) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.gravity.Cancel()
	that.autoplay.Cancel()
}
