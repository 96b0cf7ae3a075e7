package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPauseThreshold = errors.New("grouping.pause_threshold_ms must be positive")
	ErrInvalidPhraseWords    = errors.New("grouping.max_command_phrase_words must be positive")
	ErrInvalidScoreFloor     = errors.New("matching.fuzzy_score_floor must be in range 0-100")
	ErrInvalidScoreMargin    = errors.New("matching.fuzzy_score_margin must be non-negative")
	ErrInvalidEventDelay     = errors.New("entry.inter_event_delay_ms must be non-negative")
	ErrInvalidMaxDigit       = errors.New("entry.max_digit_value must be positive")
	ErrInvalidTeensMode      = errors.New("entry.teens.mode must be literal or modifier_digit")
	ErrMissingAdvanceKey     = errors.New("entry.advance_key required when advance_after_sequence is set")
	ErrMissingInputSource    = errors.New("input.source must not be empty")
)

// Validate checks structural invariants of a fully resolved config.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Input.Source) == "" {
		return ErrMissingInputSource
	}
	if cfg.Grouping.PauseThresholdMS <= 0 {
		return ErrInvalidPauseThreshold
	}
	if cfg.Grouping.MaxCommandPhraseWords <= 0 {
		return ErrInvalidPhraseWords
	}
	if cfg.Matching.FuzzyScoreFloor < 0 || cfg.Matching.FuzzyScoreFloor > 100 {
		return ErrInvalidScoreFloor
	}
	if cfg.Matching.FuzzyScoreMargin < 0 {
		return ErrInvalidScoreMargin
	}
	if cfg.Entry.InterEventDelayMS < 0 {
		return ErrInvalidEventDelay
	}
	if cfg.Entry.MaxDigitValue <= 0 {
		return ErrInvalidMaxDigit
	}
	switch cfg.Entry.TeensMode {
	case "literal":
	case "modifier_digit":
		if strings.TrimSpace(cfg.Entry.TeensModifierKey) == "" {
			return fmt.Errorf("entry.teens.modifier_key required in modifier_digit mode")
		}
	default:
		return ErrInvalidTeensMode
	}
	if cfg.Entry.AdvanceAfterSequence && strings.TrimSpace(cfg.Entry.AdvanceKey) == "" {
		return ErrMissingAdvanceKey
	}
	for quadrant, key := range cfg.Entry.QuadrantKeys {
		if quadrant < 1 || quadrant > 4 {
			return fmt.Errorf("entry.quadrant_keys: quadrant %d out of range", quadrant)
		}
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("entry.quadrant_keys: empty key for quadrant %d", quadrant)
		}
	}
	for side, key := range cfg.Entry.SideKeys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("entry.side_keys: empty key for side %q", side)
		}
	}
	return nil
}
