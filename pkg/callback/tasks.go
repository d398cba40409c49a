package callback

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Tasks supervises detached goroutines. A panicking task is logged and
// never takes the process down.
type Tasks struct {
	mu      sync.Mutex
	running int
	idle    chan struct{} // closed while running is zero
	log     *zap.Logger
}

func NewTasks(log *zap.Logger) *Tasks {
	if log == nil {
		log = zap.NewNop()
	}
	idle := make(chan struct{})
	close(idle)
	return &Tasks{idle: idle, log: log}
}

// Go runs fn in its own goroutine.
func (t *Tasks) Go(fn func()) {
	t.mu.Lock()
	if t.running == 0 {
		t.idle = make(chan struct{})
	}
	t.running++
	t.mu.Unlock()

	go func() {
		defer t.done()
		defer func() {
			if r := recover(); r != nil {
				t.log.Error("detached task panicked", zap.Any("panic", r))
			}
		}()
		fn()
	}()
}

func (t *Tasks) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running--
	if t.running == 0 {
		close(t.idle)
	}
}

// Running is the number of unfinished tasks.
func (t *Tasks) Running() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Wait blocks until no task is running or ctx is done. It starts no
// goroutine, so abandoned waits leave nothing behind.
func (t *Tasks) Wait(ctx context.Context) error {
	t.mu.Lock()
	idle := t.idle
	t.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
