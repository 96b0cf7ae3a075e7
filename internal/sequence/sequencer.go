package sequence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/periovox/periovox/internal/match"
)

var (
	// ErrEmptyPayload indicates a command with nothing to sequence.
	ErrEmptyPayload = errors.New("command payload is empty")
	// ErrDigitOutOfRange indicates a digit value beyond the configured bound.
	ErrDigitOutOfRange = errors.New("digit value out of range")
	// ErrUnknownCommand indicates a command kind the sequencer cannot handle.
	ErrUnknownCommand = errors.New("unknown command kind")
)

// IsValidation reports whether err is a per-command validation failure. The
// offending command is dropped and the rest of the batch proceeds.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyPayload) || errors.Is(err, ErrDigitOutOfRange)
}

// TeensMode selects how values 10-19 are entered.
type TeensMode string

const (
	// TeensLiteral types the two-digit decimal text directly.
	TeensLiteral TeensMode = "literal"
	// TeensModifierDigit presses a modifier key then the units digit, the
	// entry idiom charting applications use for 10+ pocket depths.
	TeensModifierDigit TeensMode = "modifier_digit"
)

// TeensProtocol is the per-deployment entry protocol for teen values.
type TeensProtocol struct {
	Mode        TeensMode
	ModifierKey string
}

// Config carries the sequencing parameters and per-deployment key tables.
type Config struct {
	InterEventDelayMS    int64
	AdvanceAfterSequence bool
	AdvanceKey           string
	MaxDigitValue        int
	Teens                TeensProtocol
	QuadrantKeys         map[int]string
	SideKeys             map[string]string
	SkipPlaceholder      string
}

// Sequencer converts commands to event lists. All validation happens before
// any event is emitted; sequencing is all-or-nothing per command.
type Sequencer struct {
	cfg Config
}

// New constructs a sequencer, filling unset config with defaults.
func New(cfg Config) *Sequencer {
	if cfg.InterEventDelayMS <= 0 {
		cfg.InterEventDelayMS = 50
	}
	if cfg.AdvanceKey == "" {
		cfg.AdvanceKey = "enter"
	}
	if cfg.MaxDigitValue <= 0 {
		cfg.MaxDigitValue = 19
	}
	if cfg.Teens.Mode == "" {
		cfg.Teens = TeensProtocol{Mode: TeensModifierDigit, ModifierKey: "minus"}
	}
	if cfg.QuadrantKeys == nil {
		cfg.QuadrantKeys = map[int]string{1: "ctrl+1", 2: "ctrl+2", 3: "ctrl+3", 4: "ctrl+4"}
	}
	if cfg.SideKeys == nil {
		cfg.SideKeys = map[string]string{"facial": "f4", "lingual": "f5"}
	}
	if cfg.SkipPlaceholder == "" {
		cfg.SkipPlaceholder = "000"
	}
	return &Sequencer{cfg: cfg}
}

// Sequence produces the ordered event list for one command.
func (s *Sequencer) Sequence(cmd match.Command) ([]OutputEvent, error) {
	switch c := cmd.(type) {
	case match.NumberSequence:
		return s.sequenceNumbers(c)
	case match.Keystroke:
		return s.sequenceKeystroke(c)
	case match.MultiKeystroke:
		return s.sequenceMultiKeystroke(c)
	case match.Jump:
		return s.sequenceJump(c)
	case match.SwitchSide:
		return s.sequenceSwitchSide(c)
	case match.Skip:
		return s.sequenceSkip(c)
	case match.AppControl:
		// Lifecycle verbs are handled by the session, not the executor.
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind())
	}
}

// sequenceNumbers enters one composed field value. A single teen value uses
// the configured entry protocol; multi-digit compositions are always typed
// literally because the modifier idiom only applies to a lone field value.
func (s *Sequencer) sequenceNumbers(cmd match.NumberSequence) ([]OutputEvent, error) {
	if len(cmd.Digits) == 0 {
		return nil, fmt.Errorf("number sequence: %w", ErrEmptyPayload)
	}
	for _, digit := range cmd.Digits {
		if digit < 0 || digit > s.cfg.MaxDigitValue {
			return nil, fmt.Errorf("%w: %d (bound %d)", ErrDigitOutOfRange, digit, s.cfg.MaxDigitValue)
		}
	}

	var events []OutputEvent
	value := cmd.Digits[0]
	// The modifier idiom covers 10-19 only; larger values allowed by a
	// raised bound are always typed literally.
	if len(cmd.Digits) == 1 && value >= 10 && value <= 19 && s.cfg.Teens.Mode == TeensModifierDigit {
		events = append(events,
			OutputEvent{Kind: EventPressKey, Value: s.cfg.Teens.ModifierKey},
			OutputEvent{Kind: EventTypeText, Value: strconv.Itoa(value - 10)},
		)
	} else {
		events = append(events, OutputEvent{Kind: EventTypeText, Value: cmd.ComposedValue()})
	}

	if s.cfg.AdvanceAfterSequence {
		events = append(events, OutputEvent{Kind: EventPressKey, Value: s.cfg.AdvanceKey})
	}
	return s.applyDelays(events), nil
}

func (s *Sequencer) sequenceKeystroke(cmd match.Keystroke) ([]OutputEvent, error) {
	if cmd.Key == "" {
		return nil, fmt.Errorf("keystroke %q: %w", cmd.Name, ErrEmptyPayload)
	}
	return []OutputEvent{keyEvent(cmd.Key)}, nil
}

func (s *Sequencer) sequenceMultiKeystroke(cmd match.MultiKeystroke) ([]OutputEvent, error) {
	if cmd.BaseKey == "" || cmd.QualifierKey == "" {
		return nil, fmt.Errorf("multi keystroke %q: %w", cmd.Name, ErrEmptyPayload)
	}
	return s.applyDelays([]OutputEvent{
		keyEvent(cmd.BaseKey),
		{Kind: EventTypeText, Value: cmd.QualifierKey},
	}), nil
}

func (s *Sequencer) sequenceJump(cmd match.Jump) ([]OutputEvent, error) {
	key, ok := s.cfg.QuadrantKeys[cmd.Quadrant]
	if !ok {
		return nil, fmt.Errorf("jump %q: no key bound for quadrant %d: %w", cmd.Name, cmd.Quadrant, ErrEmptyPayload)
	}
	return []OutputEvent{keyEvent(key)}, nil
}

func (s *Sequencer) sequenceSwitchSide(cmd match.SwitchSide) ([]OutputEvent, error) {
	key, ok := s.cfg.SideKeys[cmd.Side]
	if !ok {
		return nil, fmt.Errorf("switch side: no key bound for %q: %w", cmd.Side, ErrEmptyPayload)
	}
	return []OutputEvent{keyEvent(key)}, nil
}

// sequenceSkip enters the placeholder and advances (count 0), or advances
// count fields without entering data.
func (s *Sequencer) sequenceSkip(cmd match.Skip) ([]OutputEvent, error) {
	if cmd.Count < 0 {
		return nil, fmt.Errorf("skip count %d: %w", cmd.Count, ErrEmptyPayload)
	}
	if cmd.Count == 0 {
		return s.applyDelays([]OutputEvent{
			{Kind: EventTypeText, Value: s.cfg.SkipPlaceholder},
			{Kind: EventPressKey, Value: s.cfg.AdvanceKey},
		}), nil
	}

	events := make([]OutputEvent, 0, cmd.Count)
	for i := 0; i < cmd.Count; i++ {
		events = append(events, OutputEvent{Kind: EventPressKey, Value: s.cfg.AdvanceKey})
	}
	return s.applyDelays(events), nil
}

// applyDelays stamps the inter-event delay on every event except the last.
func (s *Sequencer) applyDelays(events []OutputEvent) []OutputEvent {
	if len(events) == 0 {
		return events
	}
	for i := range events[:len(events)-1] {
		events[i].AfterDelayMS = s.cfg.InterEventDelayMS
	}
	return events
}

// keyEvent chooses press_combo for chorded keys like "ctrl+s".
func keyEvent(key string) OutputEvent {
	if strings.Contains(key, "+") {
		return OutputEvent{Kind: EventPressCombo, Value: key}
	}
	return OutputEvent{Kind: EventPressKey, Value: key}
}
