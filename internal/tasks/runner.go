// Package tasks runs best-effort background work (timeline notes) outside
// the request lifecycle and dead-letters what fails.
package tasks

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mockexam/booking-backend/internal/metrics"
)

// DeadLetter is a background task that failed and will not be retried.
type DeadLetter struct {
	ID       string            `json:"id"`
	Task     string            `json:"task"`
	Payload  map[string]string `json:"payload,omitempty"`
	Error    string            `json:"error"`
	FailedAt time.Time         `json:"failed_at"`
}

type Sink interface {
	Record(ctx context.Context, letter DeadLetter) error
}

type Runner struct {
	timeout time.Duration
	sink    Sink
	wg      sync.WaitGroup
}

func NewRunner(timeout time.Duration, sink Sink) *Runner {
	if sink == nil {
		sink = LogSink{}
	}
	return &Runner{timeout: timeout, sink: sink}
}

// Go runs fn on its own goroutine with a fresh timeout; the caller's request
// context is deliberately not inherited. Failures and panics go to the sink.
func (r *Runner) Go(name string, payload map[string]string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		err := r.run(ctx, fn)
		if err == nil {
			return
		}

		log.Printf("[TASKS] %s failed: %v", name, err)
		metrics.DeadLetters.WithLabelValues(name).Inc()
		letter := DeadLetter{
			ID:       uuid.NewString(),
			Task:     name,
			Payload:  payload,
			Error:    err.Error(),
			FailedAt: time.Now().UTC(),
		}
		if sinkErr := r.sink.Record(context.WithoutCancel(ctx), letter); sinkErr != nil {
			log.Printf("[DEADLETTER] Failed to record %s (%s): %v", letter.ID, name, sinkErr)
		}
	}()
}

func (r *Runner) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}

// Shutdown waits for in-flight tasks or until ctx is done.
func (r *Runner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background tasks still running: %w", ctx.Err())
	}
}
