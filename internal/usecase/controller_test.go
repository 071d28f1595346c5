package usecase

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/arcade-backend/internal/config"
	"github.com/rocketscienceinc/arcade-backend/internal/repository"
)

const (
	waitFor = 5 * time.Second
	tick    = 5 * time.Millisecond
)

func testTiming() config.Timing {
	return config.Timing{
		BotDelayMin:         time.Millisecond,
		BotDelayMax:         2 * time.Millisecond,
		TournamentNextDelay: 5 * time.Millisecond,
		GuessStepDelay:      time.Millisecond,
		GuessPause:          time.Millisecond,
		MatchRevealDelay:    5 * time.Millisecond,
		AutoplayInterval:    time.Millisecond,
		CountdownTick:       time.Hour,
	}
}

func testDeps(t *testing.T, timing config.Timing) Dependencies {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return Dependencies{
		Logger:  logger,
		Timing:  timing,
		Weights: config.Default().Weights,
		Stats:   NewStatistics(logger, repository.NewMemoryStatistics()),
		Seed:    func() uint64 { return 17 },
	}
}

// recorder collects published snapshots.
type recorder struct {
	mu        sync.Mutex
	snapshots []any
}

func (that *recorder) publish(snapshot any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.snapshots = append(that.snapshots, snapshot)
}

func (that *recorder) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.snapshots)
}

func (that *recorder) last() any {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.snapshots) == 0 {
		return nil
	}
	return that.snapshots[len(that.snapshots)-1]
}

func args(t *testing.T, value any) json.RawMessage {
	t.Helper()

	raw, err := json.Marshal(value)
	require.NoError(t, err)

	return raw
}

func TestDecodeArgs(t *testing.T) {
	value, err := decodeArgs[cellArgs](nil)
	require.NoError(t, err)
	require.Zero(t, value.Cell)

	value, err = decodeArgs[cellArgs](json.RawMessage(`{"cell": 4}`))
	require.NoError(t, err)
	require.Equal(t, 4, value.Cell)

	_, err = decodeArgs[cellArgs](json.RawMessage(`{"cell": "four"}`))
	require.ErrorIs(t, err, ErrInvalidArgs)
}
