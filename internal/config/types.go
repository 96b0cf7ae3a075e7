// Package config resolves, parses, validates, and defaults periovox
// configuration.
package config

// Config is the fully materialized runtime configuration.
type Config struct {
	// GrammarPath points at a grammar document; empty selects the built-in
	// vocabulary.
	GrammarPath string
	Input       InputConfig
	Grouping    GroupingConfig
	Matching    MatchingConfig
	Entry       EntryConfig
	Target      TargetConfig
	Feedback    FeedbackConfig
}

// InputConfig controls where recognition batches are read from.
type InputConfig struct {
	// Source is "stdin" or a path to a JSONL batch file.
	Source string
}

// GroupingConfig controls timing-based word grouping.
type GroupingConfig struct {
	PauseThresholdMS      int64
	MaxCommandPhraseWords int
}

// MatchingConfig controls fuzzy command matching acceptance.
type MatchingConfig struct {
	FuzzyScoreFloor  float64
	FuzzyScoreMargin float64
}

// EntryConfig controls output event sequencing and the per-deployment
// entry-protocol tables.
type EntryConfig struct {
	InterEventDelayMS    int64
	AdvanceAfterSequence bool
	AdvanceKey           string
	MaxDigitValue        int
	TeensMode            string
	TeensModifierKey     string
	QuadrantKeys         map[int]string
	SideKeys             map[string]string
	SkipPlaceholder      string
}

// TargetConfig identifies the charting application receiving events.
type TargetConfig struct {
	WindowTitle string
}

// FeedbackConfig controls desktop notifications for unmatched speech.
type FeedbackConfig struct {
	Enable bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
