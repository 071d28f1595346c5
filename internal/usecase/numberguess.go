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
	"github.com/rocketscienceinc/arcade-backend/internal/numberguess"
	"github.com/rocketscienceinc/arcade-backend/internal/schedule"
)

const (
	ActionGuess         = "guess"
	ActionHint          = "hint"
	ActionAutoSolve     = "auto-solve"
	ActionStopAutoSolve = "stop-auto-solve"
	ActionToggleRange   = "toggle-range"
)

type GuessSnapshot struct {
	Game        string              `json:"game"`
	Attempts    int                 `json:"attempts"`
	Min         int                 `json:"min"`
	Max         int                 `json:"max"`
	ShowRange   bool                `json:"showRange"`
	AutoSolving bool                `json:"autoSolving"`
	Finished    bool                `json:"finished"`
	Target      int                 `json:"target,omitempty"`
	Last        *numberguess.Result `json:"last,omitempty"`
	Hint        *numberguess.Hint   `json:"hint,omitempty"`
	BestScore   int                 `json:"bestScore"`
	NewBest     bool                `json:"newBest"`
}

type guessArgs struct {
	Value int `json:"value"`
}

type NumberGuessController struct {
	logger  *slog.Logger
	deps    Dependencies
	publish Publish

	mu        sync.Mutex
	game      *numberguess.Game
	last      *numberguess.Result
	hint      *numberguess.Hint
	showRange bool
	best      int
	newBest   bool
	solver    schedule.Slot
}

func NewNumberGuessController(deps Dependencies, publish Publish) *NumberGuessController {
	return &NumberGuessController{
		logger:  deps.Logger.With("component", "controller", "game", entity.GameNumberGuess),
		deps:    deps,
		publish: publish,
	}
}

func (that *NumberGuessController) Game() string {
	return entity.GameNumberGuess
}

func (that *NumberGuessController) Start(ctx context.Context, _ json.RawMessage) (any, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.solver.Cancel()

	that.game = numberguess.NewGame(that.deps.newRand())
	that.last = nil
	that.hint = nil
	that.showRange = true
	that.newBest = false
	that.best = that.deps.Stats.GuessBest.Load(ctx)

	that.logger.With("method", "Start").Debug("session started")

	return that.snapshot(), nil
}

func (that *NumberGuessController) Handle(ctx context.Context, action string, args json.RawMessage) (any, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil, apperror.ErrGameIsNotStarted
	}

	switch action {
	case ActionGuess:
		if that.solver.Active() {
			return nil, fmt.Errorf("%w: auto-solve is running", ErrBusy)
		}

		input, err := decodeArgs[guessArgs](args)
		if err != nil {
			return nil, err
		}

		if err = that.guess(ctx, input.Value); err != nil {
			return nil, err
		}
	case ActionHint:
		hint, err := that.game.Hint()
		if err != nil {
			return nil, fmt.Errorf("failed to give hint: %w", err)
		}
		that.hint = &hint
	case ActionAutoSolve:
		if that.game.IsFinished() {
			return nil, apperror.ErrGameFinished
		}
		if that.solver.Active() {
			return nil, fmt.Errorf("%w: auto-solve is running", ErrBusy)
		}
		that.solver.Repeat(that.deps.Timing.GuessStepDelay, that.solveStep)
	case ActionStopAutoSolve:
		that.solver.Cancel()
	case ActionToggleRange:
		that.showRange = !that.showRange
	default:
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownAction, action)
	}

	return that.snapshot(), nil
}

// solveStep submits the binary search guess, then waits the pause and the step delay before the next one.
func (that *NumberGuessController) solveStep(ctx context.Context) (time.Duration, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if ctx.Err() != nil {
		that.logger.With("method", "solveStep").Debug("dropped stale step")
		return 0, false
	}

	if err := that.guess(context.WithoutCancel(ctx), that.game.SolverGuess()); err != nil {
		that.logger.With("method", "solveStep").Error("solver guess failed", "error", err)
		return 0, false
	}

	done := that.game.IsFinished()
	snapshot := that.snapshot()
	// the slot is still running this step, so the flag is cleared by hand
	snapshot.AutoSolving = !done

	that.publish(snapshot)

	return that.deps.Timing.GuessPause + that.deps.Timing.GuessStepDelay, !done
}

func (that *NumberGuessController) guess(ctx context.Context, value int) error {
	result, err := that.game.Guess(value)
	if err != nil {
		return fmt.Errorf("failed to guess: %w", err)
	}

	that.last = &result
	that.hint = nil

	if result.Outcome == numberguess.Correct {
		that.recordBest(ctx, result.Attempts)
	}

	return nil
}

func (that *NumberGuessController) recordBest(ctx context.Context, attempts int) {
	log := that.logger.With("method", "recordBest")

	log.Info("number guessed", "attempts", attempts)

	improved := false
	best, err := that.deps.Stats.GuessBest.Update(ctx, func(best *int) {
		if *best == 0 || attempts < *best {
			*best = attempts
			improved = true
		}
	})
	if err != nil {
		log.Error("failed to save best score", "error", err)
	}

	that.best = best
	that.newBest = improved
}

func (that *NumberGuessController) Snapshot() any {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil
	}

	return that.snapshot()
}

func (that *NumberGuessController) snapshot() GuessSnapshot {
	lo, hi := that.game.Range()

	snapshot := GuessSnapshot{
		Game:        entity.GameNumberGuess,
		Attempts:    that.game.Attempts(),
		Min:         lo,
		Max:         hi,
		ShowRange:   that.showRange,
		AutoSolving: that.solver.Active(),
		Finished:    that.game.IsFinished(),
		Last:        that.last,
		Hint:        that.hint,
		BestScore:   that.best,
		NewBest:     that.newBest,
	}

	if target, ok := that.game.Target(); ok {
		snapshot.Target = target
	}

	return snapshot
}

func (that *NumberGuessController) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.solver.Cancel()
}
