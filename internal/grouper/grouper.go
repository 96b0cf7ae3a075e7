// Package grouper splits a recognition batch into word groups using
// inter-word pause gaps. Words spoken in quick succession form one group
// (one field entry or one command phrase); a pause at or above the
// threshold starts a new group.
package grouper

import (
	"strconv"
	"strings"

	"github.com/periovox/periovox/internal/grammar"
	"github.com/periovox/periovox/internal/recog"
)

// Kind classifies a group after its boundaries are fixed.
type Kind string

const (
	// KindDigits marks a group whose every word is a number word.
	KindDigits Kind = "digits"
	// KindCommandCandidate marks a non-digit group of plausible phrase length.
	KindCommandCandidate Kind = "command_candidate"
	// KindMixed marks everything else; the matcher will report it unmatched.
	KindMixed Kind = "mixed"
)

// Group is a contiguous run of words treated as one field entry or one
// command phrase. Groups never overlap and preserve batch word order.
type Group struct {
	Words   []recog.TimedWord
	StartMS int64
	EndMS   int64
	Kind    Kind

	// Digits holds the per-word values, in spoken order, when Kind is KindDigits.
	Digits []int
}

// Text returns the group's normalized space-joined text.
func (g Group) Text() string {
	parts := make([]string, 0, len(g.Words))
	for _, word := range g.Words {
		parts = append(parts, word.Text)
	}
	return strings.Join(parts, " ")
}

// ComposedValue concatenates the digit values in spoken order into one
// field value, e.g. [2 3 2] -> "232". Empty for non-digit groups.
func (g Group) ComposedValue() string {
	var b strings.Builder
	for _, digit := range g.Digits {
		b.WriteString(strconv.Itoa(digit))
	}
	return b.String()
}

// Config carries the grouping parameters.
type Config struct {
	PauseThresholdMS      int64
	MaxCommandPhraseWords int
}

// Grouper segments batches against a read-only grammar.
type Grouper struct {
	grammar *grammar.Grammar
	cfg     Config
}

// New constructs a grouper. The grammar is only consulted for digit-word
// classification and is never mutated.
func New(g *grammar.Grammar, cfg Config) *Grouper {
	if cfg.PauseThresholdMS <= 0 {
		cfg.PauseThresholdMS = 300
	}
	if cfg.MaxCommandPhraseWords <= 0 {
		cfg.MaxCommandPhraseWords = 4
	}
	return &Grouper{grammar: g, cfg: cfg}
}

// Group splits words into ordered groups. A word stays in the current group
// when the gap from the previous word's end is strictly below the pause
// threshold; the comparison is strict so grouping has no tie ambiguity.
// The concatenation of all returned groups reproduces the input exactly.
func (gr *Grouper) Group(words []recog.TimedWord) []Group {
	if len(words) == 0 {
		return nil
	}

	groups := make([]Group, 0, 4)
	start := 0
	for i := 1; i < len(words); i++ {
		gap := words[i].StartMS - words[i-1].EndMS
		if gap < gr.cfg.PauseThresholdMS {
			continue
		}
		groups = append(groups, gr.build(words[start:i]))
		start = i
	}
	groups = append(groups, gr.build(words[start:]))
	return groups
}

// build assembles one group and classifies it.
func (gr *Grouper) build(words []recog.TimedWord) Group {
	group := Group{
		Words:   words,
		StartMS: words[0].StartMS,
		EndMS:   words[len(words)-1].EndMS,
	}

	digits := make([]int, 0, len(words))
	allDigits := true
	for _, word := range words {
		value, ok := gr.grammar.LookupDigitWord(word.Text)
		if !ok {
			allDigits = false
			break
		}
		digits = append(digits, value)
	}

	switch {
	case allDigits:
		group.Kind = KindDigits
		group.Digits = digits
	case len(words) <= gr.cfg.MaxCommandPhraseWords:
		group.Kind = KindCommandCandidate
	default:
		group.Kind = KindMixed
	}
	return group
}
