package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type jsoncConfig struct {
	Grammar  *string        `json:"grammar"`
	Input    *jsoncInput    `json:"input"`
	Grouping *jsoncGrouping `json:"grouping"`
	Matching *jsoncMatching `json:"matching"`
	Entry    *jsoncEntry    `json:"entry"`
	Target   *jsoncTarget   `json:"target"`
	Feedback *jsoncFeedback `json:"feedback"`
}

type jsoncInput struct {
	Source *string `json:"source"`
}

type jsoncGrouping struct {
	PauseThresholdMS      *int64 `json:"pause_threshold_ms"`
	MaxCommandPhraseWords *int   `json:"max_command_phrase_words"`
}

type jsoncMatching struct {
	FuzzyScoreFloor  *float64 `json:"fuzzy_score_floor"`
	FuzzyScoreMargin *float64 `json:"fuzzy_score_margin"`
}

type jsoncEntry struct {
	InterEventDelayMS    *int64            `json:"inter_event_delay_ms"`
	AdvanceAfterSequence *bool             `json:"advance_after_sequence"`
	AdvanceKey           *string           `json:"advance_key"`
	MaxDigitValue        *int              `json:"max_digit_value"`
	Teens                *jsoncTeens       `json:"teens"`
	QuadrantKeys         map[string]string `json:"quadrant_keys"`
	SideKeys             map[string]string `json:"side_keys"`
	SkipPlaceholder      *string           `json:"skip_placeholder"`
}

type jsoncTeens struct {
	Mode        *string `json:"mode"`
	ModifierKey *string `json:"modifier_key"`
}

type jsoncTarget struct {
	WindowTitle *string `json:"window_title"`
}

type jsoncFeedback struct {
	Enable *bool `json:"enable"`
}

// Parse reads JSONC configuration content over a base config. Unknown fields
// are rejected so typos fail loudly instead of silently keeping defaults.
func Parse(content string, base Config) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		if err := Validate(base); err != nil {
			return Config{}, nil, err
		}
		return base, nil, nil
	}

	normalized := stripJSONCTrailingCommas(stripJSONCComments(content))

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	warnings, err := payload.applyTo(&cfg)
	if err != nil {
		return Config{}, nil, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if payload.Grammar != nil {
		cfg.GrammarPath = strings.TrimSpace(*payload.Grammar)
	}
	if payload.Input != nil && payload.Input.Source != nil {
		cfg.Input.Source = strings.TrimSpace(*payload.Input.Source)
	}
	if payload.Grouping != nil {
		if payload.Grouping.PauseThresholdMS != nil {
			cfg.Grouping.PauseThresholdMS = *payload.Grouping.PauseThresholdMS
		}
		if payload.Grouping.MaxCommandPhraseWords != nil {
			cfg.Grouping.MaxCommandPhraseWords = *payload.Grouping.MaxCommandPhraseWords
		}
	}
	if payload.Matching != nil {
		if payload.Matching.FuzzyScoreFloor != nil {
			cfg.Matching.FuzzyScoreFloor = *payload.Matching.FuzzyScoreFloor
		}
		if payload.Matching.FuzzyScoreMargin != nil {
			cfg.Matching.FuzzyScoreMargin = *payload.Matching.FuzzyScoreMargin
		}
	}
	if payload.Entry != nil {
		if err := payload.Entry.applyTo(&cfg.Entry); err != nil {
			return nil, err
		}
	}
	if payload.Target != nil && payload.Target.WindowTitle != nil {
		cfg.Target.WindowTitle = strings.TrimSpace(*payload.Target.WindowTitle)
	}
	if payload.Feedback != nil && payload.Feedback.Enable != nil {
		cfg.Feedback.Enable = *payload.Feedback.Enable
	}

	return warnings, nil
}

func (payload jsoncEntry) applyTo(cfg *EntryConfig) error {
	if payload.InterEventDelayMS != nil {
		cfg.InterEventDelayMS = *payload.InterEventDelayMS
	}
	if payload.AdvanceAfterSequence != nil {
		cfg.AdvanceAfterSequence = *payload.AdvanceAfterSequence
	}
	if payload.AdvanceKey != nil {
		cfg.AdvanceKey = strings.TrimSpace(*payload.AdvanceKey)
	}
	if payload.MaxDigitValue != nil {
		cfg.MaxDigitValue = *payload.MaxDigitValue
	}
	if payload.Teens != nil {
		if payload.Teens.Mode != nil {
			cfg.TeensMode = strings.TrimSpace(*payload.Teens.Mode)
		}
		if payload.Teens.ModifierKey != nil {
			cfg.TeensModifierKey = strings.TrimSpace(*payload.Teens.ModifierKey)
		}
	}
	if payload.QuadrantKeys != nil {
		keys := make(map[int]string, len(payload.QuadrantKeys))
		for quadrant, key := range payload.QuadrantKeys {
			n, err := strconv.Atoi(quadrant)
			if err != nil || n < 1 || n > 4 {
				return fmt.Errorf("entry.quadrant_keys: invalid quadrant %q", quadrant)
			}
			keys[n] = strings.TrimSpace(key)
		}
		cfg.QuadrantKeys = keys
	}
	if payload.SideKeys != nil {
		keys := make(map[string]string, len(payload.SideKeys))
		for side, key := range payload.SideKeys {
			keys[strings.ToLower(strings.TrimSpace(side))] = strings.TrimSpace(key)
		}
		cfg.SideKeys = keys
	}
	if payload.SkipPlaceholder != nil {
		cfg.SkipPlaceholder = strings.TrimSpace(*payload.SkipPlaceholder)
	}
	return nil
}

// stripJSONCComments removes // and /* */ comments outside string literals.
func stripJSONCComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	inString := false
	escaped := false
	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			b.WriteByte(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			b.WriteByte(ch)
		case ch == '/' && i+1 < len(content) && content[i+1] == '/':
			for i < len(content) && content[i] != '\n' {
				i++
			}
			if i < len(content) {
				b.WriteByte('\n')
			}
		case ch == '/' && i+1 < len(content) && content[i+1] == '*':
			i += 2
			for i+1 < len(content) && !(content[i] == '*' && content[i+1] == '/') {
				if content[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// stripJSONCTrailingCommas removes commas directly preceding } or ].
func stripJSONCTrailingCommas(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	inString := false
	escaped := false
	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			b.WriteByte(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(content) && isJSONWhitespace(content[j]) {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isJSONWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// wrapJSONDecodeError annotates syntax errors with line and column.
func wrapJSONDecodeError(content string, err error) error {
	if syntaxErr, ok := err.(*json.SyntaxError); ok {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("config line %d col %d: %w", line, col, err)
	}
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("config line %d col %d: %w", line, col, err)
	}
	return fmt.Errorf("parse config: %w", err)
}

func offsetToLineCol(content string, offset int64) (int, int) {
	line, col := 1, 1
	for i := int64(0); i < offset && i < int64(len(content)); i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
