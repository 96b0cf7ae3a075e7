// Package session coordinates the listener lifecycle: it feeds recognition
// batches through the pipeline, gates dispatch on the wake state, and serves
// control commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/periovox/periovox/internal/executor"
	"github.com/periovox/periovox/internal/feedback"
	"github.com/periovox/periovox/internal/fsm"
	"github.com/periovox/periovox/internal/ipc"
	"github.com/periovox/periovox/internal/match"
	"github.com/periovox/periovox/internal/pipeline"
	"github.com/periovox/periovox/internal/recog"
)

// Summary is the complete lifecycle output returned by one Run invocation.
type Summary struct {
	State      fsm.State
	Batches    int
	Dispatched int
	Unmatched  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// Controller owns the listener state machine and the dispatch loop.
type Controller struct {
	logger       *slog.Logger
	source       recog.Source
	orchestrator *pipeline.Orchestrator
	exec         executor.Executor
	notifier     feedback.Notifier

	mu     sync.RWMutex
	state  fsm.State
	counts ipc.Counts

	controls chan fsm.Event
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	source recog.Source,
	orchestrator *pipeline.Orchestrator,
	exec executor.Executor,
	notifier feedback.Notifier,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if exec == nil {
		exec = &executor.Recorder{}
	}
	if notifier == nil {
		notifier = feedback.Noop{}
	}

	return &Controller{
		logger:       logger,
		source:       source,
		orchestrator: orchestrator,
		exec:         exec,
		notifier:     notifier,
		state:        fsm.StateAwake,
		controls:     make(chan fsm.Event, 4),
	}
}

// State returns the current listener state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Counts returns a snapshot of dispatch counters.
func (c *Controller) Counts() ipc.Counts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts
}

// transition applies one lifecycle event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	if next != c.state {
		c.logger.Info("listener state changed", "from", string(c.state), "to", string(next))
	}
	c.state = next
	return nil
}

type sourceItem struct {
	batch recog.Batch
	err   error
}

// Run drains the recognition source until it ends, the context is cancelled,
// or a stop command arrives. Batches received while sleeping still pass
// through the pipeline so a spoken wake command can be recognized, but only
// lifecycle commands act in that state.
func (c *Controller) Run(ctx context.Context) Summary {
	summary := Summary{StartedAt: time.Now()}

	items := make(chan sourceItem)
	feedCtx, cancelFeed := context.WithCancel(ctx)
	defer cancelFeed()

	go func() {
		defer close(items)
		for {
			batch, err := c.source.Next(feedCtx)
			select {
			case items <- sourceItem{batch: batch, err: err}:
			case <-feedCtx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.state = fsm.StateStopped
			c.mu.Unlock()
			return c.finish(summary, ctx.Err())

		case event := <-c.controls:
			if err := c.transition(event); err != nil {
				c.logger.Warn("control event rejected", "event", string(event), "error", err.Error())
			}
			if c.State() == fsm.StateStopped {
				return c.finish(summary, nil)
			}

		case item, ok := <-items:
			if !ok {
				return c.finish(summary, nil)
			}
			if item.err != nil {
				if errors.Is(item.err, io.EOF) || errors.Is(item.err, context.Canceled) {
					c.mu.Lock()
					c.state = fsm.StateStopped
					c.mu.Unlock()
					return c.finish(summary, nil)
				}
				return c.finish(summary, item.err)
			}

			c.dispatchBatch(ctx, item.batch)
			if c.State() == fsm.StateStopped {
				return c.finish(summary, nil)
			}
		}
	}
}

func (c *Controller) finish(summary Summary, err error) Summary {
	counts := c.Counts()
	summary.State = c.State()
	summary.Batches = counts.Batches
	summary.Dispatched = counts.Dispatched
	summary.Unmatched = counts.Unmatched
	summary.Failed = counts.Failed
	summary.FinishedAt = time.Now()
	summary.Err = err
	return summary
}

// dispatchBatch pushes one batch through the pipeline and applies its
// outcomes. Lifecycle commands always act; entry commands act only while
// awake.
func (c *Controller) dispatchBatch(ctx context.Context, batch recog.Batch) {
	result := c.orchestrator.Process(batch)

	c.mu.Lock()
	c.counts.Batches++
	c.mu.Unlock()

	for _, dispatch := range result.Dispatches {
		if control, ok := dispatch.Command.(match.AppControl); ok {
			if err := c.transition(fsm.Event(control.Verb)); err != nil {
				c.logger.Warn("lifecycle command rejected",
					"verb", control.Verb,
					"error", err.Error())
			}
			if c.State() == fsm.StateStopped {
				return
			}
			continue
		}

		if c.State() != fsm.StateAwake {
			c.logger.Debug("dispatch suppressed while sleeping",
				"kind", string(dispatch.Command.Kind()),
				"text", dispatch.Command.Source().Text())
			continue
		}

		if err := c.exec.Execute(ctx, dispatch.Events); err != nil {
			c.mu.Lock()
			c.counts.Failed++
			c.mu.Unlock()
			c.logger.Error("event execution failed",
				"kind", string(dispatch.Command.Kind()),
				"error", err.Error())
			continue
		}

		c.mu.Lock()
		c.counts.Dispatched++
		c.mu.Unlock()
	}

	for _, miss := range result.Unmatched {
		c.mu.Lock()
		c.counts.Unmatched++
		c.mu.Unlock()
		if miss.Ambiguity != nil {
			c.notifier.Ambiguous(miss.Group.Text(), miss.Ambiguity.Best.Canonical, miss.Ambiguity.RunnerUp.Canonical)
			continue
		}
		c.notifier.Unmatched(miss.Group.Text())
	}

	c.mu.Lock()
	c.counts.Failed += len(result.Failures)
	c.mu.Unlock()
}

// Handle serves control commands for the active session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		counts := c.Counts()
		return ipc.Response{OK: true, State: string(c.State()), Counts: &counts, Message: "status"}
	case "wake":
		return c.requestEvent(fsm.EventWake)
	case "sleep":
		return c.requestEvent(fsm.EventSleep)
	case "stop":
		return c.requestEvent(fsm.EventStop)
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// requestEvent enqueues a lifecycle event when state permits it.
func (c *Controller) requestEvent(event fsm.Event) ipc.Response {
	state := c.State()
	if _, err := fsm.Transition(state, event); err != nil {
		return ipc.Response{OK: false, State: string(state), Error: err.Error()}
	}

	select {
	case c.controls <- event:
		return ipc.Response{OK: true, State: string(state), Message: fmt.Sprintf("%s requested", event)}
	default:
		return ipc.Response{OK: true, State: string(state), Message: fmt.Sprintf("%s already requested", event)}
	}
}
