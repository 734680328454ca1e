// Package saga runs an ordered list of remote writes and, when one fails,
// undoes the already-committed ones in reverse order.
package saga

import (
	"context"
	"fmt"
	"log"
)

// Step is one write plus the write that reverses it. A nil Compensate means
// the step has nothing to undo.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// CompensationFailure records a compensating write that itself failed.
type CompensationFailure struct {
	Step string
	Err  error
}

// Error is returned by Run when a step fails. It unwraps to the step's error.
type Error struct {
	Saga          string
	Step          string
	Err           error
	Compensated   []string
	Uncompensated []CompensationFailure
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: step %q failed: %v", e.Saga, e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Hooks observe compensation outcomes (audit, metrics).
type Hooks struct {
	OnCompensated         func(saga, step string)
	OnCompensationFailure func(saga, step string, err error)
}

type Saga struct {
	name  string
	steps []Step
	hooks Hooks
}

func New(name string, hooks Hooks) *Saga {
	return &Saga{name: name, hooks: hooks}
}

func (s *Saga) Add(steps ...Step) *Saga {
	s.steps = append(s.steps, steps...)
	return s
}

// Run executes the steps in order. On the first failure the compensations of
// the committed steps run newest-first against a context that is not
// cancelled with the request, and a *Error carrying the original failure is
// returned. A failing compensation does not stop the remaining ones.
func (s *Saga) Run(ctx context.Context) error {
	for i, step := range s.steps {
		err := step.Action(ctx)
		if err == nil {
			continue
		}

		log.Printf("[SAGA] %s: step %q failed: %v", s.name, step.Name, err)
		sagaErr := &Error{Saga: s.name, Step: step.Name, Err: err}
		s.compensate(context.WithoutCancel(ctx), s.steps[:i], sagaErr)
		return sagaErr
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, committed []Step, sagaErr *Error) {
	for i := len(committed) - 1; i >= 0; i-- {
		step := committed[i]
		if step.Compensate == nil {
			continue
		}

		if err := step.Compensate(ctx); err != nil {
			log.Printf("[SAGA] %s: compensation of %q failed: %v", s.name, step.Name, err)
			sagaErr.Uncompensated = append(sagaErr.Uncompensated, CompensationFailure{Step: step.Name, Err: err})
			if s.hooks.OnCompensationFailure != nil {
				s.hooks.OnCompensationFailure(s.name, step.Name, err)
			}
			continue
		}

		log.Printf("[SAGA] %s: compensated %q", s.name, step.Name)
		sagaErr.Compensated = append(sagaErr.Compensated, step.Name)
		if s.hooks.OnCompensated != nil {
			s.hooks.OnCompensated(s.name, step.Name)
		}
	}
}
