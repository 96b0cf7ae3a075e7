package grammar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Error describes a fatal problem in a grammar document. Grammar problems
// surface at load time; the system cannot run without a valid grammar.
type Error struct {
	Detail string
}

func (e *Error) Error() string { return "grammar: " + e.Detail }

func errf(format string, args ...any) error {
	return &Error{Detail: fmt.Sprintf(format, args...)}
}

// IsGrammarError reports whether err originates from grammar validation.
func IsGrammarError(err error) bool {
	var ge *Error
	return errors.As(err, &ge)
}

// jsonEntry mirrors the reference grammar document field names.
type jsonEntry struct {
	Aliases  []string          `json:"aliases"`
	Action   string            `json:"action"`
	Key      string            `json:"key"`
	Classes  map[string]string `json:"classes"`
	Quadrant int               `json:"quadrant"`
	Side     string            `json:"side"`
	Command  string            `json:"command"`
}

type jsonDoc struct {
	Numbers    map[string]int       `json:"numbers"`
	Indicators map[string]jsonEntry `json:"indicators"`
	// perio_indicators is the legacy section name for indicators.
	PerioIndicators map[string]jsonEntry `json:"perio_indicators"`
	Navigation      map[string]jsonEntry `json:"navigation"`
	Actions         map[string]jsonEntry `json:"actions"`
	AppControl      map[string]jsonEntry `json:"app_control"`
}

// Load reads and validates a grammar document from disk.
func Load(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar %q: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: %w", path, err)
	}
	return g, nil
}

// Parse validates a grammar document and builds the lookup tables. The
// no-duplicate-alias and digit/alias disjointness invariants are enforced
// here, not at lookup time.
func Parse(data []byte) (*Grammar, error) {
	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errf("decode document: %v", err)
	}

	if doc.Indicators != nil && doc.PerioIndicators != nil {
		return nil, errf("both indicators and perio_indicators sections present")
	}
	indicators := doc.Indicators
	if indicators == nil {
		indicators = doc.PerioIndicators
	}

	g := &Grammar{
		entries: make(map[string]*Entry),
		aliases: make(map[string]*Entry),
		digits:  make(map[string]int),
	}

	for word, value := range doc.Numbers {
		normalized := normalize(word)
		if normalized == "" {
			return nil, errf("numbers: empty number word")
		}
		if value < 0 {
			return nil, errf("numbers: %q maps to negative value %d", word, value)
		}
		g.digits[normalized] = value
	}

	sections := []struct {
		name    Section
		entries map[string]jsonEntry
	}{
		{SectionIndicators, indicators},
		{SectionNavigation, doc.Navigation},
		{SectionActions, doc.Actions},
		{SectionAppControl, doc.AppControl},
	}

	for _, section := range sections {
		for name, raw := range section.entries {
			entry, err := buildEntry(section.name, name, raw)
			if err != nil {
				return nil, err
			}
			if err := g.register(entry); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func buildEntry(section Section, name string, raw jsonEntry) (*Entry, error) {
	canonical := normalize(name)
	if canonical == "" {
		return nil, errf("%s: entry with empty name", section)
	}

	action := ActionKind(strings.TrimSpace(raw.Action))
	switch action {
	case ActionKeystroke, ActionMultiKeystroke:
		if strings.TrimSpace(raw.Key) == "" {
			return nil, errf("%s.%s: action %q requires a key", section, canonical, action)
		}
	case ActionJump:
		if raw.Quadrant == 0 && len(raw.Classes) == 0 {
			return nil, errf("%s.%s: jump requires a quadrant or qualifier classes", section, canonical)
		}
		if raw.Quadrant < 0 || raw.Quadrant > 4 {
			return nil, errf("%s.%s: quadrant %d outside 1-4", section, canonical, raw.Quadrant)
		}
	case ActionSwitchSide:
		if strings.TrimSpace(raw.Side) == "" {
			return nil, errf("%s.%s: switch_side requires a side", section, canonical)
		}
	case ActionAppControl:
		if strings.TrimSpace(raw.Command) == "" {
			return nil, errf("%s.%s: app_control requires a command verb", section, canonical)
		}
	case ActionSkip:
		// No parameters; an optional digit qualifier is resolved at match time.
	default:
		return nil, errf("%s.%s: unknown action %q", section, canonical, raw.Action)
	}

	entry := &Entry{
		Name:     canonical,
		Section:  section,
		Action:   action,
		Key:      strings.TrimSpace(raw.Key),
		Quadrant: raw.Quadrant,
		Side:     strings.TrimSpace(raw.Side),
		Command:  strings.TrimSpace(raw.Command),
	}

	if len(raw.Classes) > 0 {
		entry.Classes = make(map[string]string, len(raw.Classes))
		for word, value := range raw.Classes {
			qualifier := normalize(word)
			if qualifier == "" || strings.TrimSpace(value) == "" {
				return nil, errf("%s.%s: empty qualifier mapping", section, canonical)
			}
			entry.Classes[qualifier] = strings.TrimSpace(value)
		}
	}

	entry.Aliases = make([]string, 0, len(raw.Aliases))
	for _, alias := range raw.Aliases {
		normalized := normalize(alias)
		if normalized == "" {
			return nil, errf("%s.%s: empty alias", section, canonical)
		}
		entry.Aliases = append(entry.Aliases, normalized)
	}

	return entry, nil
}

// register installs an entry and its aliases, rejecting collisions.
func (g *Grammar) register(entry *Entry) error {
	if existing, ok := g.entries[entry.Name]; ok {
		return errf("entry %q declared in both %s and %s", entry.Name, existing.Section, entry.Section)
	}
	g.entries[entry.Name] = entry

	for _, text := range append([]string{entry.Name}, entry.Aliases...) {
		if owner, ok := g.aliases[text]; ok && owner != entry {
			return errf("alias %q claimed by both %q and %q", text, owner.Name, entry.Name)
		}
		if _, ok := g.digits[text]; ok {
			return errf("alias %q collides with a number word", text)
		}
		g.aliases[text] = entry
	}
	return nil
}
