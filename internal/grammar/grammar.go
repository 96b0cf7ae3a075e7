// Package grammar holds the static command vocabulary: canonical command
// entries with aliases, digit words, and the action each maps to. A Grammar
// is immutable after load and safe to share across concurrent matches.
package grammar

import (
	"sort"
	"strings"
)

// ActionKind identifies what a matched command does downstream.
type ActionKind string

const (
	ActionKeystroke      ActionKind = "keystroke"
	ActionMultiKeystroke ActionKind = "multi_keystroke"
	ActionJump           ActionKind = "jump"
	ActionSwitchSide     ActionKind = "switch_side"
	ActionAppControl     ActionKind = "app_control"
	ActionSkip           ActionKind = "skip"
)

// Section identifies which vocabulary category an entry was declared in.
type Section string

const (
	SectionIndicators Section = "indicators"
	SectionNavigation Section = "navigation"
	SectionActions    Section = "actions"
	SectionAppControl Section = "app_control"
)

// Entry is one canonical command definition.
type Entry struct {
	Name    string
	Section Section
	Action  ActionKind
	Aliases []string

	// Action-specific parameters.
	Key      string            // keystroke / multi_keystroke base key
	Classes  map[string]string // qualifier word -> qualifier value
	Quadrant int               // jump target for concrete quadrant entries
	Side     string            // switch_side target
	Command  string            // app_control verb
}

// RequiresQualifier reports whether the entry is incomplete without a
// trailing qualifier word (e.g. "quadrant" needs an ordinal).
func (e *Entry) RequiresQualifier() bool {
	switch e.Action {
	case ActionJump:
		return len(e.Classes) > 0 && e.Quadrant == 0
	default:
		return false
	}
}

// Alias pairs one recognizable alias string with its canonical entry.
type Alias struct {
	Text  string
	Entry *Entry
}

// Grammar is the loaded, validated vocabulary.
type Grammar struct {
	entries map[string]*Entry
	aliases map[string]*Entry
	digits  map[string]int
}

// LookupExact resolves normalized text against aliases and canonical names.
func (g *Grammar) LookupExact(text string) (*Entry, bool) {
	entry, ok := g.aliases[normalize(text)]
	return entry, ok
}

// LookupDigitWord resolves a single number word to its integer value.
func (g *Grammar) LookupDigitWord(word string) (int, bool) {
	value, ok := g.digits[normalize(word)]
	return value, ok
}

// AliasStrings returns every recognizable alias (canonical names included)
// in deterministic order, for the matcher's fuzzy candidate set.
func (g *Grammar) AliasStrings() []Alias {
	out := make([]Alias, 0, len(g.aliases))
	for text, entry := range g.aliases {
		out = append(out, Alias{Text: text, Entry: entry})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out
}

// Entry returns the entry for a canonical name.
func (g *Grammar) Entry(name string) (*Entry, bool) {
	entry, ok := g.entries[normalize(name)]
	return entry, ok
}

// Len reports the number of canonical entries.
func (g *Grammar) Len() int { return len(g.entries) }

// DigitWordCount reports the number of recognized number words.
func (g *Grammar) DigitWordCount() int { return len(g.digits) }

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
