package config

// Default returns the canonical runtime configuration used when no file is
// present.
func Default() Config {
	return Config{
		GrammarPath: "",
		Input:       InputConfig{Source: "stdin"},
		Grouping: GroupingConfig{
			PauseThresholdMS:      300,
			MaxCommandPhraseWords: 4,
		},
		Matching: MatchingConfig{
			FuzzyScoreFloor:  80,
			FuzzyScoreMargin: 5,
		},
		Entry: EntryConfig{
			InterEventDelayMS:    50,
			AdvanceAfterSequence: true,
			AdvanceKey:           "enter",
			MaxDigitValue:        19,
			TeensMode:            "modifier_digit",
			TeensModifierKey:     "minus",
			QuadrantKeys:         map[int]string{1: "ctrl+1", 2: "ctrl+2", 3: "ctrl+3", 4: "ctrl+4"},
			SideKeys:             map[string]string{"facial": "f4", "lingual": "f5"},
			SkipPlaceholder:      "000",
		},
		Target:   TargetConfig{WindowTitle: "Dentrix"},
		Feedback: FeedbackConfig{Enable: true},
	}
}
