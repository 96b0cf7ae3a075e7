package match

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/periovox/periovox/internal/grammar"
	"github.com/periovox/periovox/internal/grouper"
)

// Config carries the fuzzy acceptance parameters.
type Config struct {
	// ScoreFloor is the minimum similarity (0-100) a fuzzy match must reach.
	ScoreFloor float64
	// ScoreMargin is how far the best candidate must beat the runner-up from
	// a different canonical entry. Ties inside the margin are rejected.
	ScoreMargin float64
}

// Candidate is one scored fuzzy-match possibility.
type Candidate struct {
	Alias     string
	Canonical string
	Score     float64
}

// Ambiguity reports a rejected fuzzy tie for diagnosis.
type Ambiguity struct {
	Text     string
	Best     Candidate
	RunnerUp Candidate
}

// Resolution is the matcher outcome for one group. A nil Command means the
// group is unmatched; unrecognized speech is a normal runtime occurrence,
// not an error. Ambiguity is set when a fuzzy tie forced the rejection.
type Resolution struct {
	Command   Command
	Ambiguity *Ambiguity
}

// Matched reports whether a command was resolved.
func (r Resolution) Matched() bool { return r.Command != nil }

// Matcher resolves groups against a read-only grammar.
type Matcher struct {
	grammar *grammar.Grammar
	scorer  Scorer
	cfg     Config
	logger  *slog.Logger
}

// New constructs a matcher. A nil scorer falls back to the Levenshtein
// scorer; a nil logger disables ambiguity logging.
func New(g *grammar.Grammar, scorer Scorer, cfg Config, logger *slog.Logger) *Matcher {
	if scorer == nil {
		scorer = NewLevenshteinScorer()
	}
	if cfg.ScoreFloor <= 0 {
		cfg.ScoreFloor = 80
	}
	if cfg.ScoreMargin <= 0 {
		cfg.ScoreMargin = 5
	}
	return &Matcher{grammar: g, scorer: scorer, cfg: cfg, logger: logger}
}

// Resolve matches one group. Resolution order: digit groups bypass the
// grammar entirely; then exact alias match; then multi-keyword decomposition
// (leading phrase plus trailing qualifier); fuzzy matching is the last
// resort so it can never override a correctly recognized phrase.
func (m *Matcher) Resolve(group grouper.Group) Resolution {
	if group.Kind == grouper.KindDigits {
		return Resolution{Command: NumberSequence{
			meta:   meta{group: group, confidence: 1},
			Digits: group.Digits,
		}}
	}

	text := group.Text()
	if text == "" {
		return Resolution{}
	}

	if entry, ok := m.grammar.LookupExact(text); ok {
		if cmd, ok := m.buildCommand(entry, group, 1, ""); ok {
			return Resolution{Command: cmd}
		}
	}

	if cmd, ok := m.resolveQualified(group); ok {
		return Resolution{Command: cmd}
	}

	return m.resolveFuzzy(group, text)
}

// resolveQualified splits the group into a leading phrase and a trailing
// qualifier word. The leading phrase must exact-match an entry declaring
// qualifier slots; the trailing word must be one of its declared values.
func (m *Matcher) resolveQualified(group grouper.Group) (Command, bool) {
	words := strings.Fields(group.Text())
	if len(words) < 2 {
		return nil, false
	}

	leading := strings.Join(words[:len(words)-1], " ")
	trailing := words[len(words)-1]

	entry, ok := m.grammar.LookupExact(leading)
	if !ok {
		return nil, false
	}

	if entry.Action == grammar.ActionSkip {
		count, ok := m.grammar.LookupDigitWord(trailing)
		if !ok || count < 1 {
			return nil, false
		}
		return Skip{meta: meta{group: group, confidence: 1}, Count: count}, true
	}

	value, ok := entry.Classes[trailing]
	if !ok {
		return nil, false
	}
	return m.buildQualified(entry, group, 1, trailing, value)
}

// resolveFuzzy scores the group text against every alias string and accepts
// the best candidate only when it clears the floor and beats all candidates
// from other entries by the margin.
func (m *Matcher) resolveFuzzy(group grouper.Group, text string) Resolution {
	var best, runnerUp Candidate
	for _, alias := range m.grammar.AliasStrings() {
		score := m.scorer.Score(text, alias.Text)
		candidate := Candidate{Alias: alias.Text, Canonical: alias.Entry.Name, Score: score}
		switch {
		case score > best.Score:
			if best.Canonical != candidate.Canonical {
				runnerUp = best
			}
			best = candidate
		case candidate.Canonical != best.Canonical && score > runnerUp.Score:
			runnerUp = candidate
		}
	}

	if best.Score < m.cfg.ScoreFloor {
		return Resolution{}
	}
	if best.Score-runnerUp.Score < m.cfg.ScoreMargin {
		ambiguity := &Ambiguity{Text: text, Best: best, RunnerUp: runnerUp}
		if m.logger != nil {
			m.logger.Warn("ambiguous fuzzy match rejected",
				"text", text,
				"best", best.Canonical, "best_score", best.Score,
				"runner_up", runnerUp.Canonical, "runner_up_score", runnerUp.Score,
			)
		}
		return Resolution{Ambiguity: ambiguity}
	}

	entry, ok := m.grammar.Entry(best.Canonical)
	if !ok {
		return Resolution{}
	}
	cmd, ok := m.buildCommand(entry, group, best.Score/100, "")
	if !ok {
		return Resolution{}
	}
	return Resolution{Command: cmd}
}

// buildCommand assembles the variant for an entry matched without a
// qualifier. Entries that require a qualifier cannot match bare.
func (m *Matcher) buildCommand(entry *grammar.Entry, group grouper.Group, confidence float64, qualifier string) (Command, bool) {
	if entry.RequiresQualifier() {
		return nil, false
	}

	base := meta{group: group, confidence: confidence}
	switch entry.Action {
	case grammar.ActionKeystroke:
		return Keystroke{meta: base, Name: entry.Name, Key: entry.Key}, true
	case grammar.ActionMultiKeystroke:
		// A class-based indicator spoken without its class acts as a bare
		// keystroke, matching reference behavior.
		return Keystroke{meta: base, Name: entry.Name, Key: entry.Key}, true
	case grammar.ActionJump:
		return Jump{meta: base, Name: entry.Name, Quadrant: entry.Quadrant}, true
	case grammar.ActionSwitchSide:
		return SwitchSide{meta: base, Side: entry.Side}, true
	case grammar.ActionAppControl:
		return AppControl{meta: base, Verb: entry.Command}, true
	case grammar.ActionSkip:
		return Skip{meta: base}, true
	default:
		return nil, false
	}
}

// buildQualified assembles the variant for an entry matched with a
// qualifier word resolved through its class table.
func (m *Matcher) buildQualified(entry *grammar.Entry, group grouper.Group, confidence float64, word, value string) (Command, bool) {
	base := meta{group: group, confidence: confidence}
	switch entry.Action {
	case grammar.ActionMultiKeystroke:
		return MultiKeystroke{
			meta:          base,
			Name:          entry.Name,
			BaseKey:       entry.Key,
			QualifierWord: word,
			QualifierKey:  value,
		}, true
	case grammar.ActionJump:
		quadrant, err := strconv.Atoi(value)
		if err != nil || quadrant < 1 || quadrant > 4 {
			return nil, false
		}
		return Jump{meta: base, Name: entry.Name, Quadrant: quadrant}, true
	default:
		return nil, false
	}
}
