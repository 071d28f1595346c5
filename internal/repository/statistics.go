package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

const keyPrefix = "stats:"

// StatisticsRepository is the opaque key/value store behind persisted statistics.
// Load returns apperror.ErrNotFound for a key never written.
type StatisticsRepository interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type redisStatistics struct {
	client *redis.Client
}

func NewRedisStatistics(client *redis.Client) StatisticsRepository {
	return &redisStatistics{
		client: client,
	}
}

func (that *redisStatistics) Load(ctx context.Context, key string) (string, error) {
	response, err := that.client.Get(ctx, keyPrefix+key).Result()

	if errors.Is(err, redis.Nil) {
		return "", apperror.ErrNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get statistics %s: %w", key, err)
	}

	return response, nil
}

func (that *redisStatistics) Save(ctx context.Context, key, value string) error {
	if err := that.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set statistics %s: %w", key, err)
	}

	return nil
}

func (that *redisStatistics) Delete(ctx context.Context, key string) error {
	deleted, err := that.client.Del(ctx, keyPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete statistics %s: %w", key, err)
	}

	if deleted == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

type sqliteStatistics struct {
	conn *sql.DB
}

func NewSQLiteStatistics(conn *sql.DB) StatisticsRepository {
	return &sqliteStatistics{
		conn: conn,
	}
}

func (that *sqliteStatistics) Load(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM statistics WHERE key = ?`

	var value string

	err := that.conn.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperror.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("can't load statistics %s: %w", key, err)
	}

	return value, nil
}

func (that *sqliteStatistics) Save(ctx context.Context, key, value string) error {
	query := `INSERT INTO statistics (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := that.conn.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("can't save statistics %s: %w", key, err)
	}

	return nil
}

func (that *sqliteStatistics) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM statistics WHERE key = ?`

	result, err := that.conn.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("can't delete statistics %s: %w", key, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

type memoryStatistics struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStatistics() StatisticsRepository {
	return &memoryStatistics{values: make(map[string]string)}
}

func (that *memoryStatistics) Load(_ context.Context, key string) (string, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	value, ok := that.values[key]
	if !ok {
		return "", apperror.ErrNotFound
	}

	return value, nil
}

func (that *memoryStatistics) Save(_ context.Context, key, value string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.values[key] = value

	return nil
}

func (that *memoryStatistics) Delete(_ context.Context, key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.values[key]; !ok {
		return apperror.ErrNotFound
	}
	delete(that.values, key)

	return nil
}
