// Package suite provides the backing stores repository tests run against.
package suite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/arcade-backend/internal/repository/storage"
)

const (
	containerTTL = 120
	readyTimeout = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Redis  *redis.Client
	SQLite *storage.Storage
}

func newSuite(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	t.Cleanup(cancel)

	return ctx, &Suite{
		T:      t,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewSQLite opens an initialised database file in the test's temp dir.
func NewSQLite(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, s := newSuite(t)

	db, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "statistics.db"))
	if err != nil {
		t.Fatalf("could not open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = db.Init(ctx); err != nil {
		t.Fatalf("could not init sqlite: %v", err)
	}

	s.SQLite = db

	return ctx, s
}

// NewRedis runs a throwaway redis container; the test is skipped without docker.
func NewRedis(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, s := newSuite(t)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	})

	// docker kills the container even if cleanup never runs
	_ = resource.Expire(containerTTL)

	pool.MaxWait = readyTimeout

	addr := resource.GetHostPort(redisPort)
	if err = pool.Retry(func() error {
		client, err := storage.NewRedisStorage(ctx, addr)
		if err != nil {
			return err
		}
		s.Redis = client
		return nil
	}); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = s.Redis.Close() })

	if err = s.Redis.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis: %v", err)
	}

	s.Logger.Debug("redis ready", "addr", addr)

	return ctx, s
}
