package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/memorymatch"
	"github.com/rocketscienceinc/arcade-backend/internal/schedule"
)

const ActionFlip = "flip"

type MemoryMatchOptions struct {
	Difficulty int               `json:"difficulty"`
	Theme      memorymatch.Theme `json:"theme"`
	Mode       memorymatch.Mode  `json:"mode"`
}

type MemoryMatchSnapshot struct {
	Game       string                     `json:"game"`
	Cards      []memorymatch.Card         `json:"cards"`
	Difficulty int                        `json:"difficulty"`
	Theme      memorymatch.Theme          `json:"theme"`
	Mode       memorymatch.Mode           `json:"mode"`
	Moves      int                        `json:"moves"`
	Matches    int                        `json:"matches"`
	Pairs      int                        `json:"pairs"`
	Status     memorymatch.Status         `json:"status"`
	Elapsed    int                        `json:"elapsedSeconds"`
	TimeLeft   int                        `json:"timeLeftSeconds,omitempty"`
	Resolving  bool                       `json:"resolving"`
	Last       *memorymatch.ResolveResult `json:"last,omitempty"`
	Stats      entity.MemoryStats         `json:"stats"`
}

type indexArgs struct {
	Index int `json:"index"`
}

type MemoryMatchController struct {
	logger  *slog.Logger
	deps    Dependencies
	publish Publish

	mu     sync.Mutex
	game   *memorymatch.Game
	last   *memorymatch.ResolveResult
	stats  entity.MemoryStats
	reveal schedule.Slot
	clock  schedule.Slot
}

func NewMemoryMatchController(deps Dependencies, publish Publish) *MemoryMatchController {
	return &MemoryMatchController{
		logger:  deps.Logger.With("component", "controller", "game", entity.GameMemoryMatch),
		deps:    deps,
		publish: publish,
	}
}

func (that *MemoryMatchController) Game() string {
	return entity.GameMemoryMatch
}

func (that *MemoryMatchController) Start(ctx context.Context, raw json.RawMessage) (any, error) {
	opts, err := decodeArgs[MemoryMatchOptions](raw)
	if err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := memorymatch.NewGame(memorymatch.Options{
		Difficulty: opts.Difficulty,
		Theme:      opts.Theme,
		Mode:       opts.Mode,
	}, that.deps.newRand())
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.reveal.Cancel()
	that.clock.Cancel()

	that.game = game
	that.last = nil

	stats, err := that.deps.Stats.MemoryMatch.Update(ctx, func(stats *entity.MemoryStats) {
		stats.GamesPlayed++
	})
	if err != nil {
		that.logger.With("method", "Start").Error("failed to save statistics", "error", err)
	}
	that.stats = stats

	that.clock.Repeat(that.deps.Timing.CountdownTick, that.tick)

	return that.snapshot(), nil
}

func (that *MemoryMatchController) Handle(_ context.Context, action string, args json.RawMessage) (any, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil, apperror.ErrGameIsNotStarted
	}

	if action != ActionFlip {
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownAction, action)
	}

	if !that.game.IsActive() {
		return nil, apperror.ErrGameFinished
	}

	input, err := decodeArgs[indexArgs](args)
	if err != nil {
		return nil, err
	}

	if !that.game.Flip(input.Index) {
		return nil, fmt.Errorf("%w: card %d cannot be flipped now", ErrInvalidArgs, input.Index)
	}

	if that.game.AwaitingResolve() {
		that.reveal.After(that.deps.Timing.MatchRevealDelay, that.resolve)
	}

	return that.snapshot(), nil
}

func (that *MemoryMatchController) resolve(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "resolve")

	if ctx.Err() != nil {
		log.Debug("dropped stale reveal")
		return
	}

	result, ok := that.game.Resolve()
	if !ok {
		return
	}
	that.last = &result

	if result.Won {
		that.clock.Cancel()
		that.recordWin(context.WithoutCancel(ctx))
	}

	that.publish(that.snapshot())
}

// tick advances the game clock once per period until the game ends.
func (that *MemoryMatchController) tick(ctx context.Context) (time.Duration, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if ctx.Err() != nil {
		that.logger.With("method", "tick").Debug("dropped stale clock tick")
		return 0, false
	}

	if that.game.Tick() {
		that.logger.With("method", "tick").Info("time is up", "matches", that.game.Matches())
	}

	that.publish(that.snapshot())

	return that.deps.Timing.CountdownTick, that.game.IsActive()
}

func (that *MemoryMatchController) recordWin(ctx context.Context) {
	log := that.logger.With("method", "recordWin")

	moves, seconds := that.game.Moves(), int(that.game.Elapsed().Seconds())
	log.Info("all pairs matched", "moves", moves, "seconds", seconds)

	stats, err := that.deps.Stats.MemoryMatch.Update(ctx, func(stats *entity.MemoryStats) {
		stats.RecordWin(strconv.Itoa(that.game.Difficulty()), moves, seconds)
	})
	if err != nil {
		log.Error("failed to save statistics", "error", err)
	}
	that.stats = stats
}

func (that *MemoryMatchController) Snapshot() any {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil
	}

	return that.snapshot()
}

// snapshot hides the values of face-down cards.
func (that *MemoryMatchController) snapshot() MemoryMatchSnapshot {
	cards := that.game.Cards()
	for i := range cards {
		if !cards[i].Flipped && !cards[i].Matched {
			cards[i].Value = ""
		}
	}

	return MemoryMatchSnapshot{
		Game:       entity.GameMemoryMatch,
		Cards:      cards,
		Difficulty: that.game.Difficulty(),
		Theme:      that.game.Theme(),
		Mode:       that.game.Mode(),
		Moves:      that.game.Moves(),
		Matches:    that.game.Matches(),
		Pairs:      memorymatch.Pairs(that.game.Difficulty()),
		Status:     that.game.Status(),
		Elapsed:    int(that.game.Elapsed().Seconds()),
		TimeLeft:   int(that.game.TimeLeft().Seconds()),
		Resolving:  that.game.AwaitingResolve(),
		Last:       that.last,
		Stats:      that.stats,
	}
}

func (that *MemoryMatchController) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.reveal.Cancel()
	that.clock.Cancel()
}
