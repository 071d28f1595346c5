package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	// When: building the config from defaults
	conf := Default()

	// Then: the documented defaults should be applied
	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, StorageMemory, conf.Storage.Driver)
	assert.Equal(t, 500*time.Millisecond, conf.Timing.BotDelayMin)
	assert.Equal(t, 1500*time.Millisecond, conf.Timing.BotDelayMax)
	assert.InDelta(t, 100.0, conf.Weights.G2048.Empty, 0)
	assert.Equal(t, 1000, conf.Weights.Tetris.Lines)
	assert.Equal(t, "localhost:6379", conf.Storage.Redis.GetRedisAddr())
}

func TestMustLoad(t *testing.T) {
	t.Run("Reads values from yaml file", func(t *testing.T) {
		// Given: a config file overriding some values
		path := filepath.Join(t.TempDir(), "config.yml")
		content := []byte("log-level: debug\nstorage:\n  driver: sqlite\n  sqlite-path: /tmp/x.db\ntiming:\n  guess-pause: 10ms\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))

		// When: loading it
		conf := MustLoad(path)

		// Then: overrides and defaults should both be present
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, StorageSQLite, conf.Storage.Driver)
		assert.Equal(t, "/tmp/x.db", conf.Storage.SQLitePath)
		assert.Equal(t, 10*time.Millisecond, conf.Timing.GuessPause)
		assert.Equal(t, 1000*time.Millisecond, conf.Timing.GuessStepDelay)
	})

	t.Run("Panics on missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
