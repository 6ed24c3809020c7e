// Package runctl carries cooperative pause and cancel signals through a sync run.
//
// A Token is attached to the run's context. Pause is honoured at Checkpoint, which
// runs between podcasts. Cancel is also observed by Sleep between pages and batches.
// Neither interrupts an in-flight network call.
package runctl

import (
	"context"
	"sync"
	"time"

	"podcast_syncer/internal/domain"
)

type ctxKey string

const tokenKey ctxKey = "runctl.token"

// Token is a cooperative pause/cancel signal shared by every layer of a run.
type Token struct {
	mu        sync.Mutex
	paused    bool
	resumed   chan struct{}
	cancelled chan struct{}
	once      sync.Once
}

func NewToken() *Token {
	return &Token{
		resumed:   make(chan struct{}),
		cancelled: make(chan struct{}),
	}
}

// Cancel signals cancellation. Calling it more than once is a no-op.
func (t *Token) Cancel() {
	t.once.Do(func() { close(t.cancelled) })
}

func (t *Token) Cancelled() bool {
	select {
	case <-t.cancelled:
		return true
	default:
		return false
	}
}

// Done is closed once Cancel has been called.
func (t *Token) Done() <-chan struct{} {
	return t.cancelled
}

// Pause makes subsequent checkpoints block until Resume or Cancel.
func (t *Token) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.paused {
		t.paused = true
		t.resumed = make(chan struct{})
	}
}

func (t *Token) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused {
		t.paused = false
		close(t.resumed)
	}
}

func (t *Token) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Checkpoint returns ErrCancelled if the run was cancelled, blocks while paused and
// returns ctx.Err() if ctx ends first.
func (t *Token) Checkpoint(ctx context.Context) error {
	for {
		if t.Cancelled() {
			return domain.ErrCancelled
		}

		t.mu.Lock()
		paused, resumed := t.paused, t.resumed
		t.mu.Unlock()

		if !paused {
			return ctx.Err()
		}

		select {
		case <-resumed:
		case <-t.cancelled:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Sleep waits for d, returning early with ErrCancelled on cancellation. It does not
// block on pause; pausing only takes effect at Checkpoint.
func (t *Token) Sleep(ctx context.Context, d time.Duration) error {
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-t.cancelled:
		case <-ctx.Done():
		}
	}

	if t.Cancelled() {
		return domain.ErrCancelled
	}
	return ctx.Err()
}

// WithToken attaches t to ctx.
func WithToken(ctx context.Context, t *Token) context.Context {
	return context.WithValue(ctx, tokenKey, t)
}

// FromContext returns the token attached to ctx, or nil.
func FromContext(ctx context.Context) *Token {
	t, _ := ctx.Value(tokenKey).(*Token)
	return t
}

// Checkpoint checks the token in ctx, if any.
func Checkpoint(ctx context.Context) error {
	if t := FromContext(ctx); t != nil {
		return t.Checkpoint(ctx)
	}
	return ctx.Err()
}

// Sleep is a cooperative delay honouring the token in ctx, if any.
func Sleep(ctx context.Context, d time.Duration) error {
	if t := FromContext(ctx); t != nil {
		return t.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
