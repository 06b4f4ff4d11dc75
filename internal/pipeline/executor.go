package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/routeline/routeline/internal/domain"
	"github.com/routeline/routeline/internal/reqctx"
)

// Executor runs an ordered step chain for one route. It is built once at
// route registration and read-only afterwards; all per-request state lives
// on the stack of Run.
type Executor struct {
	steps   []Step
	timeout time.Duration
}

// NewExecutor creates an executor. The chain must be non-empty; timeout
// zero means no time budget.
func NewExecutor(steps []Step, timeout time.Duration) (*Executor, error) {
	if len(steps) == 0 {
		return nil, errors.New("pipeline: at least one step is required")
	}
	if timeout < 0 {
		return nil, errors.New("pipeline: timeout must not be negative")
	}
	return &Executor{steps: steps, timeout: timeout}, nil
}

type chainResult struct {
	value any
	err   error
}

// Run threads initial through the chain and returns the final value or the
// first error. With a timeout configured the whole chain races a single
// timer measured from chain start; the in-flight step is not cancelled when
// the timer wins, its eventual result is simply discarded.
func (e *Executor) Run(ctx context.Context, initial any, rc *reqctx.Context) (any, error) {
	if e.timeout == 0 {
		return e.runSteps(ctx, initial, rc)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Buffered so an abandoned chain can deliver its late result and exit.
	results := make(chan chainResult, 1)
	go func() {
		value, err := e.runSteps(ctx, initial, rc)
		results <- chainResult{value: value, err: err}
	}()

	select {
	case res := <-results:
		return res.value, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.ErrTimeout()
		}
		return nil, ctx.Err()
	}
}

// runSteps is the sequential fold over the chain. Step errors propagate
// unwrapped so the response body carries the step's own message.
func (e *Executor) runSteps(ctx context.Context, initial any, rc *reqctx.Context) (any, error) {
	query := initial
	for _, step := range e.steps {
		next, err := step.Run(ctx, query, rc)
		if err != nil {
			return nil, err
		}
		query = next
	}
	return query, nil
}
