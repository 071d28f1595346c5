// Package stats persists one statistics object per key and never fails a read:
// missing or unreadable values fall back to the object's default shape.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
)

type kvRepo interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
}

type Store[T any] struct {
	logger   *slog.Logger
	repo     kvRepo
	key      string
	defaults func() T

	mu sync.Mutex
}

func New[T any](logger *slog.Logger, repo kvRepo, key string, defaults func() T) *Store[T] {
	return &Store[T]{
		logger:   logger.With("component", "stats", "key", key),
		repo:     repo,
		key:      key,
		defaults: defaults,
	}
}

func (that *Store[T]) Key() string {
	return that.key
}

// Load returns the stored value or the default one.
func (that *Store[T]) Load(ctx context.Context) T {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.load(ctx)
}

func (that *Store[T]) Save(ctx context.Context, value T) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.save(ctx, value)
}

// Update applies fn to the current value and writes the result back.
func (that *Store[T]) Update(ctx context.Context, fn func(value *T)) (T, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	value := that.load(ctx)
	fn(&value)

	if err := that.save(ctx, value); err != nil {
		return value, err
	}

	return value, nil
}

func (that *Store[T]) Reset(ctx context.Context) (T, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	value := that.defaults()
	if err := that.save(ctx, value); err != nil {
		return value, err
	}

	return value, nil
}

func (that *Store[T]) load(ctx context.Context) T {
	log := that.logger.With("method", "load")

	value := that.defaults()

	raw, err := that.repo.Load(ctx, that.key)
	if errors.Is(err, apperror.ErrNotFound) {
		return value
	}

	if err != nil {
		log.Warn("failed to load statistics, using defaults", "error", err)
		return value
	}

	if err = json.Unmarshal([]byte(raw), &value); err != nil {
		log.Warn("malformed statistics, using defaults", "error", err)
		return that.defaults()
	}

	return value
}

func (that *Store[T]) save(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal statistics: %w", err)
	}

	if err = that.repo.Save(ctx, that.key, string(raw)); err != nil {
		return fmt.Errorf("failed to save statistics %s: %w", that.key, err)
	}

	return nil
}
