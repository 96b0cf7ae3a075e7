// Package recog defines the recognizer-facing input contract: batches of
// time-stamped words produced by the external speech engine.
package recog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TimedWord is one recognized token with stream-relative timing.
type TimedWord struct {
	Text       string  `json:"text"`
	StartMS    int64   `json:"start_ms"`
	EndMS      int64   `json:"end_ms"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Batch is one ordered recognition result delivered by the recognizer.
type Batch struct {
	ID    string      `json:"id,omitempty"`
	Words []TimedWord `json:"words"`
}

// Validate enforces the producer contract: lowercased trimmed text, sane
// per-word timing, and monotonically non-decreasing timestamps across the batch.
func (b Batch) Validate() error {
	var prevStart, prevEnd int64
	for i, word := range b.Words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			return fmt.Errorf("word %d: empty text", i)
		}
		if text != strings.ToLower(text) {
			return fmt.Errorf("word %d: text %q is not lowercased", i, word.Text)
		}
		if word.EndMS < word.StartMS {
			return fmt.Errorf("word %d (%q): end %dms before start %dms", i, text, word.EndMS, word.StartMS)
		}
		if word.Confidence < 0 || word.Confidence > 1 {
			return fmt.Errorf("word %d (%q): confidence %.3f outside [0,1]", i, text, word.Confidence)
		}
		if i > 0 && (word.StartMS < prevStart || word.EndMS < prevEnd) {
			return fmt.Errorf("word %d (%q): timestamps regress", i, text)
		}
		prevStart = word.StartMS
		prevEnd = word.EndMS
	}
	return nil
}

// WithID returns the batch with a generated identifier when the producer
// supplied none. IDs exist for log correlation only.
func (b Batch) WithID() Batch {
	if strings.TrimSpace(b.ID) == "" {
		b.ID = uuid.NewString()
	}
	return b
}
