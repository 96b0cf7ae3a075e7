package window

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/periovox/periovox/internal/sequence"
)

type captureExecutor struct {
	calls  int
	events []sequence.OutputEvent
}

func (e *captureExecutor) Execute(_ context.Context, events []sequence.OutputEvent) error {
	e.calls++
	e.events = append(e.events, events...)
	return nil
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title    string
		fragment string
		want     bool
	}{
		{"Dentrix Enterprise - Perio Chart", "Dentrix", true},
		{"dentrix enterprise", "DENTRIX", true},
		{"Dentrix", "  dentrix  ", true},
		{"Mozilla Firefox", "Dentrix", false},
		{"anything at all", "", true},
		{"", "Dentrix", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Matches(tt.title, tt.fragment), "%q vs %q", tt.title, tt.fragment)
	}
}

func TestGuardPassesThroughWithoutFragment(t *testing.T) {
	t.Parallel()

	inner := &captureExecutor{}
	guard := NewGuard(inner, ProberFunc(func(context.Context) (string, error) {
		t.Fatal("prober must not run when gating is disabled")
		return "", nil
	}), "", nil)

	events := []sequence.OutputEvent{{Kind: sequence.EventPressKey, Value: "b"}}
	require.NoError(t, guard.Execute(context.Background(), events))
	require.Equal(t, 1, inner.calls)
	require.Equal(t, events, inner.events)
}

func TestGuardInjectsWhenTargetFocused(t *testing.T) {
	t.Parallel()

	inner := &captureExecutor{}
	guard := NewGuard(inner, ProberFunc(func(context.Context) (string, error) {
		return "Dentrix Enterprise - Perio Chart", nil
	}), "Dentrix", nil)

	require.NoError(t, guard.Execute(context.Background(), []sequence.OutputEvent{{Kind: sequence.EventTypeText, Value: "232"}}))
	require.Equal(t, 1, inner.calls)
}

func TestGuardSuppressesWhenOtherWindowFocused(t *testing.T) {
	t.Parallel()

	inner := &captureExecutor{}
	guard := NewGuard(inner, ProberFunc(func(context.Context) (string, error) {
		return "Mozilla Firefox", nil
	}), "Dentrix", nil)

	require.NoError(t, guard.Execute(context.Background(), []sequence.OutputEvent{{Kind: sequence.EventTypeText, Value: "232"}}))
	require.Zero(t, inner.calls)
}

func TestGuardInjectsOnProbeFailure(t *testing.T) {
	t.Parallel()

	inner := &captureExecutor{}
	guard := NewGuard(inner, ProberFunc(func(context.Context) (string, error) {
		return "", errors.New("xdotool not installed")
	}), "Dentrix", nil)

	require.NoError(t, guard.Execute(context.Background(), []sequence.OutputEvent{{Kind: sequence.EventPressKey, Value: "enter"}}))
	require.Equal(t, 1, inner.calls)
}
