package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/periovox/periovox/internal/executor"
	"github.com/periovox/periovox/internal/fsm"
	"github.com/periovox/periovox/internal/grammar"
	"github.com/periovox/periovox/internal/grouper"
	"github.com/periovox/periovox/internal/ipc"
	"github.com/periovox/periovox/internal/match"
	"github.com/periovox/periovox/internal/pipeline"
	"github.com/periovox/periovox/internal/recog"
	"github.com/periovox/periovox/internal/sequence"
)

// queueSource replays a fixed batch list and then reports io.EOF.
type queueSource struct {
	mu      sync.Mutex
	batches []recog.Batch
}

func (s *queueSource) Next(ctx context.Context) (recog.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return recog.Batch{}, err
	}
	if len(s.batches) == 0 {
		return recog.Batch{}, io.EOF
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

type failingExecutor struct {
	calls int
}

func (e *failingExecutor) Execute(context.Context, []sequence.OutputEvent) error {
	e.calls++
	return errors.New("injection refused")
}

type recordingNotifier struct {
	mu        sync.Mutex
	unmatched []string
	ambiguous []string
}

func (n *recordingNotifier) Unmatched(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.unmatched = append(n.unmatched, text)
}

func (n *recordingNotifier) Ambiguous(text, best, runnerUp string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ambiguous = append(n.ambiguous, text+":"+best+":"+runnerUp)
}

// speechBatch lays phrases out on a timeline: words inside a phrase are
// close enough to group, phrases are separated by a long silence.
func speechBatch(id string, phrases ...string) recog.Batch {
	var words []recog.TimedWord
	cursor := int64(0)
	for _, phrase := range phrases {
		for _, text := range strings.Fields(phrase) {
			words = append(words, recog.TimedWord{
				Text:       text,
				StartMS:    cursor,
				EndMS:      cursor + 100,
				Confidence: 0.95,
			})
			cursor += 150
		}
		cursor += 500
	}
	return recog.Batch{ID: id, Words: words}
}

func newTestOrchestrator() *pipeline.Orchestrator {
	g := grammar.Default()
	return pipeline.New(
		grouper.New(g, grouper.Config{}),
		match.New(g, nil, match.Config{}, nil),
		sequence.New(sequence.Config{AdvanceAfterSequence: true}),
		nil,
	)
}

func TestRunDrainsSourceToCompletion(t *testing.T) {
	t.Parallel()

	source := &queueSource{batches: []recog.Batch{
		speechBatch("b1", "two three two", "bleeding"),
		speechBatch("b2", "upper right"),
	}}
	recorder := &executor.Recorder{}
	controller := NewController(nil, source, newTestOrchestrator(), recorder, nil)

	summary := controller.Run(context.Background())

	require.NoError(t, summary.Err)
	require.Equal(t, fsm.StateStopped, summary.State)
	require.Equal(t, 2, summary.Batches)
	require.Equal(t, 3, summary.Dispatched)
	require.Zero(t, summary.Unmatched)
	require.Zero(t, summary.Failed)
	require.NotEmpty(t, recorder.Events)
	require.False(t, summary.FinishedAt.Before(summary.StartedAt))
}

func TestRunSleepSuppressesEntriesUntilSpokenWake(t *testing.T) {
	t.Parallel()

	source := &queueSource{batches: []recog.Batch{
		speechBatch("b1", "go to sleep"),
		speechBatch("b2", "two three two"),
		speechBatch("b3", "wake", "bleeding"),
	}}
	recorder := &executor.Recorder{}
	controller := NewController(nil, source, newTestOrchestrator(), recorder, nil)

	summary := controller.Run(context.Background())

	require.NoError(t, summary.Err)
	require.Equal(t, 3, summary.Batches)
	// The digit sequence arrived while sleeping; only the post-wake
	// indicator reaches the executor.
	require.Equal(t, 1, summary.Dispatched)
	require.Len(t, recorder.Events, 1)
	require.Equal(t, sequence.EventPressKey, recorder.Events[0].Kind)
	require.Equal(t, "b", recorder.Events[0].Value)
}

func TestRunSpokenStopEndsSession(t *testing.T) {
	t.Parallel()

	source := &queueSource{batches: []recog.Batch{
		speechBatch("b1", "bleeding"),
		speechBatch("b2", "stop listening"),
		speechBatch("b3", "plaque"),
	}}
	recorder := &executor.Recorder{}
	controller := NewController(nil, source, newTestOrchestrator(), recorder, nil)

	summary := controller.Run(context.Background())

	require.NoError(t, summary.Err)
	require.Equal(t, fsm.StateStopped, summary.State)
	require.Equal(t, 2, summary.Batches)
	require.Equal(t, 1, summary.Dispatched)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &queueSource{batches: []recog.Batch{speechBatch("b1", "bleeding")}}
	controller := NewController(nil, source, newTestOrchestrator(), nil, nil)

	summary := controller.Run(ctx)
	require.Equal(t, fsm.StateStopped, summary.State)
}

func TestRunCountsExecutionFailures(t *testing.T) {
	t.Parallel()

	source := &queueSource{batches: []recog.Batch{speechBatch("b1", "bleeding", "plaque")}}
	exec := &failingExecutor{}
	controller := NewController(nil, source, newTestOrchestrator(), exec, nil)

	summary := controller.Run(context.Background())

	require.NoError(t, summary.Err)
	require.Equal(t, 2, exec.calls)
	require.Equal(t, 2, summary.Failed)
	require.Zero(t, summary.Dispatched)
}

func TestRunNotifiesUnmatchedSpeech(t *testing.T) {
	t.Parallel()

	source := &queueSource{batches: []recog.Batch{speechBatch("b1", "xylophone", "bleeding")}}
	notifier := &recordingNotifier{}
	controller := NewController(nil, source, newTestOrchestrator(), nil, notifier)

	summary := controller.Run(context.Background())

	require.Equal(t, 1, summary.Unmatched)
	require.Equal(t, 1, summary.Dispatched)
	require.Equal(t, []string{"xylophone"}, notifier.unmatched)
	require.Empty(t, notifier.ambiguous)
}

func TestHandleStatusReportsStateAndCounts(t *testing.T) {
	t.Parallel()

	controller := NewController(nil, &queueSource{}, newTestOrchestrator(), nil, nil)

	resp := controller.Handle(context.Background(), ipc.Request{Command: "status"})
	require.True(t, resp.OK)
	require.Equal(t, "awake", resp.State)
	require.NotNil(t, resp.Counts)
	require.Zero(t, resp.Counts.Batches)
}

func TestHandleLifecycleCommands(t *testing.T) {
	t.Parallel()

	controller := NewController(nil, &queueSource{}, newTestOrchestrator(), nil, nil)

	resp := controller.Handle(context.Background(), ipc.Request{Command: "sleep"})
	require.True(t, resp.OK)

	resp = controller.Handle(context.Background(), ipc.Request{Command: "unplug"})
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "unknown command")
}

func TestHandleRejectsEventsAfterStop(t *testing.T) {
	t.Parallel()

	controller := NewController(nil, &queueSource{}, newTestOrchestrator(), nil, nil)
	summary := controller.Run(context.Background())
	require.Equal(t, fsm.StateStopped, summary.State)

	resp := controller.Handle(context.Background(), ipc.Request{Command: "wake"})
	require.False(t, resp.OK)
	require.Equal(t, "stopped", resp.State)
	require.NotEmpty(t, resp.Error)
}

func TestHandleStopEndsRunningSession(t *testing.T) {
	t.Parallel()

	// An empty blocking source keeps Run alive until the stop command.
	blocking := recogSourceFunc(func(ctx context.Context) (recog.Batch, error) {
		<-ctx.Done()
		return recog.Batch{}, ctx.Err()
	})

	controller := NewController(nil, blocking, newTestOrchestrator(), nil, nil)

	done := make(chan Summary, 1)
	go func() { done <- controller.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return controller.Handle(context.Background(), ipc.Request{Command: "stop"}).OK
	}, time.Second, 10*time.Millisecond)

	select {
	case summary := <-done:
		require.Equal(t, fsm.StateStopped, summary.State)
		require.NoError(t, summary.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
}

type recogSourceFunc func(ctx context.Context) (recog.Batch, error)

func (f recogSourceFunc) Next(ctx context.Context) (recog.Batch, error) { return f(ctx) }
