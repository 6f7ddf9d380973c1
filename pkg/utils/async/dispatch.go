package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
)

// tracker counts running handlers. drained is closed whenever the count is
// zero and replaced by a fresh channel when a handler starts.
var tracker = newTracker()

type inflight struct {
	mu      sync.Mutex
	count   int64
	drained chan struct{}
}

func newTracker() *inflight {
	drained := make(chan struct{})
	close(drained)
	return &inflight{drained: drained}
}

func (t *inflight) add() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		t.drained = make(chan struct{})
	}
	t.count++
}

func (t *inflight) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count--
	if t.count == 0 {
		close(t.drained)
	}
}

func (t *inflight) state() (int64, <-chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count, t.drained
}

// Dispatch runs handler in a new goroutine. The handler gets a background
// context carrying the caller's logger, so it survives the end of the
// webhook request. Panics and returned errors are logged.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := ctxlog.With(context.Background(), ctxlog.From(ctx))

	tracker.add()
	go func() {
		defer tracker.done()
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()))
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
		}
	}()
}

// Pending returns the number of handlers still running
func Pending() int64 {
	count, _ := tracker.state()
	return count
}

// Wait blocks until all dispatched handlers finish or ctx is done.
// It returns ctx.Err() when handlers are still running.
func Wait(ctx context.Context) error {
	_, drained := tracker.state()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
