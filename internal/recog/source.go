package recog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Source yields recognition batches until io.EOF.
type Source interface {
	Next(context.Context) (Batch, error)
}

// LineReader decodes one JSON batch per line, the wire form emitted by the
// recognizer collaborator. Blank lines are skipped.
type LineReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewLineReader wraps an io.Reader carrying JSONL batches.
func NewLineReader(r io.Reader) *LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &LineReader{scanner: scanner}
}

// Next returns the next valid batch, io.EOF at end of stream, or a decode
// error annotated with the offending line number.
func (lr *LineReader) Next(ctx context.Context) (Batch, error) {
	for lr.scanner.Scan() {
		lr.line++
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}

		line := strings.TrimSpace(lr.scanner.Text())
		if line == "" {
			continue
		}

		var batch Batch
		if err := json.Unmarshal([]byte(line), &batch); err != nil {
			return Batch{}, fmt.Errorf("line %d: decode batch: %w", lr.line, err)
		}
		if err := batch.Validate(); err != nil {
			return Batch{}, fmt.Errorf("line %d: invalid batch: %w", lr.line, err)
		}
		return batch.WithID(), nil
	}

	if err := lr.scanner.Err(); err != nil {
		return Batch{}, fmt.Errorf("read batch stream: %w", err)
	}
	return Batch{}, io.EOF
}
