package window

import (
	"context"
	"log/slog"

	"github.com/periovox/periovox/internal/sequence"
)

// executorLike mirrors the executor contract without importing the package.
type executorLike interface {
	Execute(ctx context.Context, events []sequence.OutputEvent) error
}

// Guard wraps an executor and suppresses injection when the focused window
// does not belong to the target application. Probe failures fall through to
// injection; losing the probe tool must not silence dictation.
type Guard struct {
	inner    executorLike
	prober   Prober
	fragment string
	logger   *slog.Logger
}

// NewGuard builds a focus-gated executor. An empty fragment disables gating.
func NewGuard(inner executorLike, prober Prober, fragment string, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{inner: inner, prober: prober, fragment: fragment, logger: logger}
}

func (g *Guard) Execute(ctx context.Context, events []sequence.OutputEvent) error {
	if g.fragment == "" || g.prober == nil {
		return g.inner.Execute(ctx, events)
	}

	title, err := g.prober.FocusedTitle(ctx)
	if err != nil {
		g.logger.Debug("focused-window probe failed; injecting anyway", "error", err.Error())
		return g.inner.Execute(ctx, events)
	}
	if !Matches(title, g.fragment) {
		g.logger.Warn("dispatch suppressed; target window not focused",
			"focused", title,
			"target", g.fragment)
		return nil
	}
	return g.inner.Execute(ctx, events)
}
