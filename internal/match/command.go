// Package match resolves word groups against the grammar: exact alias hits,
// multi-keyword decomposition with trailing qualifiers, and a fuzzy fallback
// with a confidence floor.
package match

import (
	"strconv"
	"strings"

	"github.com/periovox/periovox/internal/grouper"
)

// Kind tags the command variants.
type Kind string

const (
	KindNumberSequence Kind = "number_sequence"
	KindKeystroke      Kind = "keystroke"
	KindMultiKeystroke Kind = "multi_keystroke"
	KindJump           Kind = "jump"
	KindSwitchSide     Kind = "switch_side"
	KindAppControl     Kind = "app_control"
	KindSkip           Kind = "skip"
)

// Command is the resolved output of matching one word group. Each variant
// carries only the payload its action needs; the shared accessors expose the
// source group and the confidence of the match (1.0 for exact resolution).
type Command interface {
	Kind() Kind
	Confidence() float64
	Source() grouper.Group
}

type meta struct {
	group      grouper.Group
	confidence float64
}

func (m meta) Confidence() float64   { return m.confidence }
func (m meta) Source() grouper.Group { return m.group }

// NumberSequence enters one composed field value.
type NumberSequence struct {
	meta
	Digits []int
}

func (NumberSequence) Kind() Kind { return KindNumberSequence }

// ComposedValue is the digits concatenated in spoken order, e.g. "232".
func (n NumberSequence) ComposedValue() string {
	var b strings.Builder
	for _, digit := range n.Digits {
		b.WriteString(strconv.Itoa(digit))
	}
	return b.String()
}

// Keystroke presses one key or combination.
type Keystroke struct {
	meta
	Name string
	Key  string
}

func (Keystroke) Kind() Kind { return KindKeystroke }

// MultiKeystroke presses a base key followed by a qualifier key, e.g.
// "furcation two" -> f, 2.
type MultiKeystroke struct {
	meta
	Name          string
	BaseKey       string
	QualifierWord string
	QualifierKey  string
}

func (MultiKeystroke) Kind() Kind { return KindMultiKeystroke }

// Jump moves the chart cursor to a quadrant.
type Jump struct {
	meta
	Name     string
	Quadrant int
}

func (Jump) Kind() Kind { return KindJump }

// SwitchSide toggles between facial and lingual chart sides.
type SwitchSide struct {
	meta
	Side string
}

func (SwitchSide) Kind() Kind { return KindSwitchSide }

// AppControl carries a lifecycle verb (wake, sleep, stop). It produces no
// output events; the session acts on it directly.
type AppControl struct {
	meta
	Verb string
}

func (AppControl) Kind() Kind { return KindAppControl }

// Skip either enters the zero placeholder (Count == 0) or advances Count
// fields without entering data.
type Skip struct {
	meta
	Count int
}

func (Skip) Kind() Kind { return KindSkip }
