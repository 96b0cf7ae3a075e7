package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/micmonay/keybd_event"

	"github.com/periovox/periovox/internal/sequence"
)

// KeyInjector delivers output events as synthetic keyboard input.
type KeyInjector struct {
	kb     keybd_event.KeyBonding
	logger *slog.Logger
}

// NewKeyInjector opens the platform keyboard binding.
func NewKeyInjector(logger *slog.Logger) (*KeyInjector, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("open keyboard binding: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyInjector{kb: kb, logger: logger}, nil
}

// Execute injects each event in order, honoring per-event delays. The delay
// on an event applies after it fires, before the next one.
func (inj *KeyInjector) Execute(ctx context.Context, events []sequence.OutputEvent) error {
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := inj.inject(event); err != nil {
			return fmt.Errorf("inject %s %q: %w", event.Kind, event.Value, err)
		}
		if event.AfterDelayMS > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(event.AfterDelayMS) * time.Millisecond):
			}
		}
	}
	return nil
}

func (inj *KeyInjector) inject(event sequence.OutputEvent) error {
	switch event.Kind {
	case sequence.EventTypeText:
		strokes, err := textStrokes(event.Value)
		if err != nil {
			return err
		}
		for _, s := range strokes {
			if err := inj.press(s); err != nil {
				return err
			}
		}
		return nil
	case sequence.EventPressKey, sequence.EventPressCombo:
		s, err := parseStroke(event.Value)
		if err != nil {
			return err
		}
		return inj.press(s)
	default:
		return fmt.Errorf("unknown event kind %q", event.Kind)
	}
}

func (inj *KeyInjector) press(s stroke) error {
	inj.kb.Clear()
	inj.kb.HasCTRL(s.ctrl)
	inj.kb.HasSHIFT(s.shift)
	inj.kb.HasALT(s.alt)
	inj.kb.SetKeys(s.code)
	return inj.kb.Launching()
}
