package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/arcade-backend/internal/config"
)

var (
	ErrInvalidArgs = errors.New("invalid arguments")
	ErrBusy        = errors.New("game is busy")
)

// Controller drives one game session and owns the tasks it schedules.
type Controller interface {
	Game() string
	Start(ctx context.Context, opts json.RawMessage) (any, error)
	Handle(ctx context.Context, action string, args json.RawMessage) (any, error)
	Snapshot() any
	Stop()
}

// Publish delivers a snapshot produced outside of a request, e.g. by a timer.
type Publish func(snapshot any)

type Dependencies struct {
	Logger  *slog.Logger
	Timing  config.Timing
	Weights config.Weights
	Stats   *Statistics
	// Seed returns the seed of a new session's random source.
	Seed func() uint64
}

func (that Dependencies) newRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	if that.Seed != nil {
		seed = that.Seed()
	}

	return rand.New(rand.NewSource(seed))
}

// decodeArgs - empty arguments decode to the zero value.
func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}

	if err := json.Unmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}

	return args, nil
}
