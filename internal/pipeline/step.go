package pipeline

import (
	"context"

	"github.com/routeline/routeline/internal/reqctx"
)

// Step is one unit of the handler chain. Run consumes the current query
// and the request context and produces the next query.
type Step interface {
	// Name identifies the step in logs.
	Name() string

	// Run executes the step. A nil result is normalized to an explicit
	// null before becoming the next step's input.
	Run(ctx context.Context, query any, rc *reqctx.Context) (any, error)
}

// StepFunc adapts a plain function to a named Step.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, query any, rc *reqctx.Context) (any, error)
}

// Name implements Step.
func (s StepFunc) Name() string {
	if s.StepName != "" {
		return s.StepName
	}
	return "anonymous"
}

// Run implements Step.
func (s StepFunc) Run(ctx context.Context, query any, rc *reqctx.Context) (any, error) {
	return s.Fn(ctx, query, rc)
}
