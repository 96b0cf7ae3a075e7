// Package feedback surfaces operator-facing notifications for speech that
// produced no action.
package feedback

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// Notifier reports unmatched or ambiguous speech back to the operator.
type Notifier interface {
	Unmatched(text string)
	Ambiguous(text, best, runnerUp string)
}

// Desktop sends desktop notifications. Delivery failures are logged and
// swallowed; feedback must never interrupt dispatch.
type Desktop struct {
	logger *slog.Logger
}

func NewDesktop(logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Desktop{logger: logger}
}

func (d *Desktop) Unmatched(text string) {
	if err := beeep.Notify("periovox", "Not recognized: "+text, ""); err != nil {
		d.logger.Warn("notification delivery failed", "error", err.Error())
	}
}

func (d *Desktop) Ambiguous(text, best, runnerUp string) {
	body := "Ambiguous: " + text + " (" + best + " vs " + runnerUp + ")"
	if err := beeep.Notify("periovox", body, ""); err != nil {
		d.logger.Warn("notification delivery failed", "error", err.Error())
	}
}

// Noop discards all feedback. Used when feedback is disabled in config.
type Noop struct{}

func (Noop) Unmatched(string)                 {}
func (Noop) Ambiguous(string, string, string) {}
