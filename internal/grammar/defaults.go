package grammar

// Default returns the built-in periodontal charting vocabulary used when no
// grammar file is configured. The table mirrors the reference command set:
// pocket-depth number words, clinical indicators, chart navigation, exam
// actions, and app control.
func Default() *Grammar {
	g := &Grammar{
		entries: make(map[string]*Entry),
		aliases: make(map[string]*Entry),
		digits: map[string]int{
			"zero": 0, "oh": 0,
			"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
			"six": 6, "seven": 7, "eight": 8, "nine": 9,
			"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
			"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
			"eighteen": 18, "nineteen": 19,
		},
	}

	ordinalClasses := map[string]string{"one": "1", "two": "2", "three": "3"}

	defaults := []*Entry{
		{Name: "bleeding", Section: SectionIndicators, Action: ActionKeystroke, Key: "b", Aliases: []string{"bleed", "bop"}},
		{Name: "suppuration", Section: SectionIndicators, Action: ActionKeystroke, Key: "s", Aliases: []string{"pus"}},
		{Name: "plaque", Section: SectionIndicators, Action: ActionKeystroke, Key: "p"},
		{Name: "calculus", Section: SectionIndicators, Action: ActionKeystroke, Key: "c", Aliases: []string{"tartar"}},
		{Name: "recession", Section: SectionIndicators, Action: ActionKeystroke, Key: "r"},
		{Name: "furcation", Section: SectionIndicators, Action: ActionMultiKeystroke, Key: "f", Classes: ordinalClasses, Aliases: []string{"furca"}},
		{Name: "mobility", Section: SectionIndicators, Action: ActionMultiKeystroke, Key: "m", Classes: ordinalClasses},

		{Name: "next", Section: SectionNavigation, Action: ActionKeystroke, Key: "pagedown", Aliases: []string{"next field", "forward"}},
		{Name: "previous", Section: SectionNavigation, Action: ActionKeystroke, Key: "pageup", Aliases: []string{"back", "prev"}},
		{Name: "home", Section: SectionNavigation, Action: ActionKeystroke, Key: "home", Aliases: []string{"first position"}},
		{Name: "quadrant", Section: SectionNavigation, Action: ActionJump, Classes: map[string]string{"one": "1", "two": "2", "three": "3", "four": "4"}},
		{Name: "upper right", Section: SectionNavigation, Action: ActionJump, Quadrant: 1},
		{Name: "upper left", Section: SectionNavigation, Action: ActionJump, Quadrant: 2},
		{Name: "lower left", Section: SectionNavigation, Action: ActionJump, Quadrant: 3},
		{Name: "lower right", Section: SectionNavigation, Action: ActionJump, Quadrant: 4},
		{Name: "facial", Section: SectionNavigation, Action: ActionSwitchSide, Side: "facial", Aliases: []string{"buccal"}},
		{Name: "lingual", Section: SectionNavigation, Action: ActionSwitchSide, Side: "lingual", Aliases: []string{"palatal"}},

		{Name: "save", Section: SectionActions, Action: ActionKeystroke, Key: "ctrl+s", Aliases: []string{"save exam"}},
		{Name: "undo", Section: SectionActions, Action: ActionKeystroke, Key: "ctrl+z"},
		{Name: "cancel", Section: SectionActions, Action: ActionKeystroke, Key: "esc", Aliases: []string{"escape"}},
		{Name: "skip", Section: SectionActions, Action: ActionSkip, Aliases: []string{"missing"}},

		{Name: "wake", Section: SectionAppControl, Action: ActionAppControl, Command: "wake", Aliases: []string{"wake up", "voice wake"}},
		{Name: "go to sleep", Section: SectionAppControl, Action: ActionAppControl, Command: "sleep", Aliases: []string{"voice sleep"}},
		{Name: "stop listening", Section: SectionAppControl, Action: ActionAppControl, Command: "stop", Aliases: []string{"voice stop"}},
	}

	for _, entry := range defaults {
		if err := g.register(entry); err != nil {
			// The built-in table is validated by tests; a collision here is a
			// programming error, not a runtime condition.
			panic(err)
		}
	}
	return g
}
