// Package executor delivers output events to the target application.
package executor

import (
	"context"

	"github.com/periovox/periovox/internal/sequence"
)

// Executor applies a sequence of output events as side effects.
type Executor interface {
	Execute(ctx context.Context, events []sequence.OutputEvent) error
}

// Recorder is an Executor that collects events instead of injecting them.
// It backs the simulate command and tests.
type Recorder struct {
	Events []sequence.OutputEvent
}

func (r *Recorder) Execute(_ context.Context, events []sequence.OutputEvent) error {
	r.Events = append(r.Events, events...)
	return nil
}
