// Package pipeline wires grouping, matching, and sequencing into one
// batch-at-a-time orchestrator.
package pipeline

import (
	"log/slog"

	"github.com/periovox/periovox/internal/grouper"
	"github.com/periovox/periovox/internal/match"
	"github.com/periovox/periovox/internal/recog"
	"github.com/periovox/periovox/internal/sequence"
)

// Dispatch pairs one resolved command with its ordered output events.
type Dispatch struct {
	Command match.Command
	Events  []sequence.OutputEvent
}

// Unmatched reports a group that resolved to no command. Ambiguity is set
// when a fuzzy tie forced the rejection.
type Unmatched struct {
	Group     grouper.Group
	Ambiguity *match.Ambiguity
}

// Failure reports a command the sequencer rejected.
type Failure struct {
	Command match.Command
	Err     error
}

// Result is the complete outcome of processing one recognition batch.
// Dispatches preserve input order; unmatched groups and per-command
// failures are collected without halting the batch.
type Result struct {
	BatchID    string
	Dispatches []Dispatch
	Unmatched  []Unmatched
	Failures   []Failure
}

// Events flattens all dispatched events in order.
func (r Result) Events() []sequence.OutputEvent {
	var out []sequence.OutputEvent
	for _, dispatch := range r.Dispatches {
		out = append(out, dispatch.Events...)
	}
	return out
}

// Orchestrator holds the per-batch processing chain. It is stateless across
// batches; all three stages are pure transformations over immutable inputs,
// so independent batches may be processed concurrently.
type Orchestrator struct {
	grouper   *grouper.Grouper
	matcher   *match.Matcher
	sequencer *sequence.Sequencer
	logger    *slog.Logger
}

// New wires the processing chain.
func New(g *grouper.Grouper, m *match.Matcher, s *sequence.Sequencer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{grouper: g, matcher: m, sequencer: s, logger: logger}
}

// Process runs one batch through group -> match -> sequence. A sequencing
// failure for one group is recorded and skipped; it never aborts the
// remaining groups.
func (o *Orchestrator) Process(batch recog.Batch) Result {
	result := Result{BatchID: batch.ID}

	for _, group := range o.grouper.Group(batch.Words) {
		resolution := o.matcher.Resolve(group)
		if !resolution.Matched() {
			result.Unmatched = append(result.Unmatched, Unmatched{
				Group:     group,
				Ambiguity: resolution.Ambiguity,
			})
			o.logUnmatched(batch.ID, group, resolution.Ambiguity)
			continue
		}

		events, err := o.sequencer.Sequence(resolution.Command)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Command: resolution.Command, Err: err})
			o.logFailure(batch.ID, resolution.Command, err)
			continue
		}

		result.Dispatches = append(result.Dispatches, Dispatch{
			Command: resolution.Command,
			Events:  events,
		})
	}

	return result
}

func (o *Orchestrator) logUnmatched(batchID string, group grouper.Group, ambiguity *match.Ambiguity) {
	if o.logger == nil {
		return
	}
	fields := []any{"batch", batchID, "text", group.Text(), "kind", group.Kind}
	if ambiguity != nil {
		fields = append(fields,
			"ambiguous_best", ambiguity.Best.Canonical,
			"ambiguous_runner_up", ambiguity.RunnerUp.Canonical,
		)
	}
	o.logger.Info("group unmatched", fields...)
}

func (o *Orchestrator) logFailure(batchID string, cmd match.Command, err error) {
	if o.logger == nil {
		return
	}
	o.logger.Warn("command rejected",
		"batch", batchID,
		"kind", cmd.Kind(),
		"text", cmd.Source().Text(),
		"error", err.Error(),
	)
}
