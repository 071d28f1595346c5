package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/schedule"
	"github.com/rocketscienceinc/arcade-backend/internal/tictactoe"
)

const (
	ActionMove        = "move"
	ActionResetScores = "reset-scores"
)

type TicTacToeOptions struct {
	Size       int                  `json:"size"`
	Mode       tictactoe.Mode       `json:"mode"`
	Difficulty tictactoe.Difficulty `json:"difficulty"`
	BotMark    string               `json:"botMark"`
	// Rounds > 1 plays a best-of-Rounds tournament.
	Rounds int `json:"rounds"`
}

type TicTacToeSnapshot struct {
	Game       string                 `json:"game"`
	State      *tictactoe.Game        `json:"state"`
	Thinking   bool                   `json:"thinking"`
	Scores     entity.TicTacToeScores `json:"scores"`
	Tournament *tictactoe.Tournament  `json:"tournament,omitempty"`
	Champion   string                 `json:"champion,omitempty"`
	LastBot    *int                   `json:"lastBotCell,omitempty"`
}

type cellArgs struct {
	Cell int `json:"cell"`
}

type TicTacToeController struct {
	logger  *slog.Logger
	deps    Dependencies
	publish Publish

	mu         sync.Mutex
	rng        *rand.Rand
	opts       TicTacToeOptions
	game       *tictactoe.Game
	tournament *tictactoe.Tournament
	scores     entity.TicTacToeScores
	lastBot    *int

	bot       schedule.Slot
	turnTimer schedule.Slot
	nextRound schedule.Slot
}

func NewTicTacToeController(deps Dependencies, publish Publish) *TicTacToeController {
	return &TicTacToeController{
		logger:  deps.Logger.With("component", "controller", "game", entity.GameTicTacToe),
		deps:    deps,
		publish: publish,
		rng:     deps.newRand(),
	}
}

func (that *TicTacToeController) Game() string {
	return entity.GameTicTacToe
}

func (that *TicTacToeController) Start(ctx context.Context, raw json.RawMessage) (any, error) {
	opts, err := decodeArgs[TicTacToeOptions](raw)
	if err != nil {
		return nil, err
	}

	// options are checked before the running session is touched
	game, err := newTicTacToeGame(opts)
	if err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelAll()

	that.tournament = nil
	if opts.Rounds > 1 {
		that.tournament = tictactoe.NewTournament(opts.Rounds)
	}
	that.opts = opts

	that.beginRound(game)

	that.scores = that.deps.Stats.TicTacToeScores.Load(ctx)

	that.logger.With("method", "Start").Debug("session started",
		"size", that.game.Size, "mode", that.game.Mode, "rounds", opts.Rounds)

	return that.snapshot(), nil
}

func newTicTacToeGame(opts TicTacToeOptions) (*tictactoe.Game, error) {
	game, err := tictactoe.NewGame(uuid.NewString(), tictactoe.Options{
		Size:       opts.Size,
		Mode:       opts.Mode,
		Difficulty: opts.Difficulty,
		BotMark:    opts.BotMark,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

func (that *TicTacToeController) beginRound(game *tictactoe.Game) {
	game.Start()
	that.game = game
	that.lastBot = nil

	that.scheduleTurn()
}

func (that *TicTacToeController) Handle(ctx context.Context, action string, args json.RawMessage) (any, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch action {
	case ActionMove:
		if that.game == nil {
			return nil, apperror.ErrGameIsNotStarted
		}

		input, err := decodeArgs[cellArgs](args)
		if err != nil {
			return nil, err
		}

		if err = that.game.MakeTurn(input.Cell); err != nil {
			return nil, fmt.Errorf("failed to make turn: %w", err)
		}

		that.afterTurn(ctx)
	case ActionResetScores:
		scores, err := that.deps.Stats.TicTacToeScores.Reset(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to reset scores: %w", err)
		}
		that.scores = scores
	default:
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownAction, action)
	}

	if that.game == nil {
		return nil, nil
	}

	return that.snapshot(), nil
}

// afterTurn settles a finished game or schedules whatever the next turn needs.
func (that *TicTacToeController) afterTurn(ctx context.Context) {
	that.turnTimer.Cancel()

	if !that.game.IsFinished() {
		that.scheduleTurn()
		return
	}

	that.recordResult(ctx)

	if that.tournament == nil {
		return
	}

	that.tournament.Record(that.game.Winner)
	if !that.tournament.Over() {
		that.nextRound.After(that.deps.Timing.TournamentNextDelay, that.startNextRound)
		return
	}

	champion := that.tournament.Champion()
	that.logger.With("method", "afterTurn").Info("tournament finished", "champion", champion)

	if _, err := that.deps.Stats.TicTacToe.Update(ctx, func(stats *entity.TicTacToeStats) {
		stats.RecordTournament(champion)
	}); err != nil {
		that.logger.With("method", "afterTurn").Error("failed to save tournament", "error", err)
	}
}

func (that *TicTacToeController) scheduleTurn() {
	if that.game.IsBotTurn() {
		delay := schedule.Jitter(that.rng, that.deps.Timing.BotDelayMin, that.deps.Timing.BotDelayMax)
		that.bot.After(delay, that.botTurn)
		return
	}

	if that.deps.Timing.TurnTimeout > 0 {
		that.turnTimer.After(that.deps.Timing.TurnTimeout, that.forfeit)
	}
}

func (that *TicTacToeController) botTurn(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "botTurn")

	if ctx.Err() != nil {
		log.Debug("dropped stale bot turn")
		return
	}

	cell, err := that.game.BotTurn(that.rng)
	if err != nil {
		log.Error("bot failed to make turn", "error", err)
		return
	}
	that.lastBot = &cell

	that.afterTurn(context.WithoutCancel(ctx))
	that.publish(that.snapshot())
}

func (that *TicTacToeController) forfeit(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "forfeit")

	if ctx.Err() != nil {
		log.Debug("dropped stale turn timer")
		return
	}

	if err := that.game.ForfeitTurn(); err != nil {
		log.Error("failed to forfeit turn", "error", err)
		return
	}

	log.Debug("turn forfeited")

	that.afterTurn(context.WithoutCancel(ctx))
	that.publish(that.snapshot())
}

func (that *TicTacToeController) startNextRound(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "startNextRound")

	if ctx.Err() != nil {
		log.Debug("dropped stale round start")
		return
	}

	game, err := newTicTacToeGame(that.opts)
	if err != nil {
		log.Error("failed to start next round", "error", err)
		return
	}
	that.beginRound(game)

	that.publish(that.snapshot())
}

func (that *TicTacToeController) recordResult(ctx context.Context) {
	log := that.logger.With("method", "recordResult")

	winner := that.game.Winner
	log.Info("game finished", "winner", winner)

	scores, err := that.deps.Stats.TicTacToeScores.Update(ctx, func(scores *entity.TicTacToeScores) {
		switch winner {
		case tictactoe.PlayerX:
			scores.X++
		case tictactoe.PlayerO:
			scores.O++
		default:
			scores.Draw++
		}
	})
	if err != nil {
		log.Error("failed to save scores", "error", err)
	}
	that.scores = scores

	_, err = that.deps.Stats.TicTacToe.Update(ctx, func(stats *entity.TicTacToeStats) {
		stats.GamesPlayed++

		if that.game.Mode != tictactoe.ModePvB {
			return
		}

		result := "draw"
		switch winner {
		case that.game.BotMark:
			result = "loss"
		case tictactoe.PlayerX, tictactoe.PlayerO:
			result = "win"
		}
		stats.RecordBotGame(string(that.game.Difficulty), result)
	})
	if err != nil {
		log.Error("failed to save statistics", "error", err)
	}
}

func (that *TicTacToeController) Snapshot() any {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil
	}

	return that.snapshot()
}

func (that *TicTacToeController) snapshot() TicTacToeSnapshot {
	state := *that.game
	state.Board = append([]string(nil), that.game.Board...)

	snapshot := TicTacToeSnapshot{
		Game:     entity.GameTicTacToe,
		State:    &state,
		Thinking: that.game.IsBotTurn(),
		Scores:   that.scores,
		LastBot:  that.lastBot,
	}

	if that.tournament != nil {
		tournament := *that.tournament
		tournament.Wins = map[string]int{
			tictactoe.PlayerX: that.tournament.Wins[tictactoe.PlayerX],
			tictactoe.PlayerO: that.tournament.Wins[tictactoe.PlayerO],
		}
		snapshot.Tournament = &tournament
		snapshot.Champion = that.tournament.Champion()
	}

	return snapshot
}

func (that *TicTacToeController) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelAll()
}

func (that *TicTacToeController) cancelAll() {
	that.bot.Cancel()
	that.turnTimer.Cancel()
	that.nextRound.Cancel()
}
