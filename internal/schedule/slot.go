// Package schedule provides owned, cancellable deferred tasks.
//
// A Slot holds at most one pending task: scheduling into a busy slot cancels the
// previous task first. Callbacks receive the task context; a callback that takes
// its owner's lock must re-check ctx.Err() after acquiring it, because Cancel may
// have run in between. Cancelling under that same lock makes the check race free.
package schedule

import (
	"context"
	"sync"
	"time"
)

type Slot struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// After runs fn once, delay from now, unless cancelled.
func (that *Slot) After(delay time.Duration, fn func(ctx context.Context)) {
	ctx, seq := that.replace()

	go func() {
		defer that.finish(seq)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if ctx.Err() != nil {
			return
		}

		fn(ctx)
	}()
}

// Repeat runs fn after first, then again after every interval fn returns,
// until fn reports false or the slot is cancelled.
func (that *Slot) Repeat(first time.Duration, fn func(ctx context.Context) (time.Duration, bool)) {
	ctx, seq := that.replace()

	go func() {
		defer that.finish(seq)

		next := first
		for {
			timer := time.NewTimer(next)

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if ctx.Err() != nil {
				return
			}

			interval, again := fn(ctx)
			if !again {
				return
			}
			next = interval
		}
	}()
}

// Cancel drops the pending task, if any.
func (that *Slot) Cancel() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.cancel != nil {
		that.cancel()
		that.cancel = nil
	}
}

// Active reports whether a task is pending or running.
func (that *Slot) Active() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.cancel != nil
}

func (that *Slot) replace() (context.Context, uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.cancel != nil {
		that.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	that.seq++
	that.cancel = cancel

	return ctx, that.seq
}

func (that *Slot) finish(seq uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.seq == seq && that.cancel != nil {
		that.cancel()
		that.cancel = nil
	}
}
