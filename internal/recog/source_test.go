package recog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineReaderDecodesBatchesInOrder(t *testing.T) {
	t.Parallel()

	input := `{"id":"a","words":[{"text":"two","start_ms":0,"end_ms":100,"confidence":0.9}]}

{"words":[{"text":"bleeding","start_ms":500,"end_ms":900,"confidence":0.8}]}
`
	reader := NewLineReader(strings.NewReader(input))

	first, err := reader.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a", first.ID)
	require.Len(t, first.Words, 1)
	require.Equal(t, "two", first.Words[0].Text)

	second, err := reader.Next(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, second.ID)
	require.Equal(t, "bleeding", second.Words[0].Text)

	_, err = reader.Next(context.Background())
	require.ErrorIs(t, err, io.EOF)
}

func TestLineReaderReportsLineNumberOnBadJSON(t *testing.T) {
	t.Parallel()

	input := `{"words":[{"text":"two","start_ms":0,"end_ms":100}]}
{not json}
`
	reader := NewLineReader(strings.NewReader(input))

	_, err := reader.Next(context.Background())
	require.NoError(t, err)

	_, err = reader.Next(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}

func TestLineReaderRejectsInvalidBatch(t *testing.T) {
	t.Parallel()

	input := `{"words":[{"text":"Two","start_ms":0,"end_ms":100}]}` + "\n"
	reader := NewLineReader(strings.NewReader(input))

	_, err := reader.Next(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "not lowercased")
}

func TestLineReaderHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewLineReader(strings.NewReader(`{"words":[{"text":"two","start_ms":0,"end_ms":100}]}` + "\n"))
	_, err := reader.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBatchValidateMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		batch   Batch
		wantErr string
	}{
		{
			name:  "empty batch valid",
			batch: Batch{},
		},
		{
			name: "valid words",
			batch: Batch{Words: []TimedWord{
				{Text: "two", StartMS: 0, EndMS: 100, Confidence: 0.9},
				{Text: "three", StartMS: 150, EndMS: 250, Confidence: 0.8},
			}},
		},
		{
			name:    "empty text",
			batch:   Batch{Words: []TimedWord{{Text: "  ", StartMS: 0, EndMS: 10}}},
			wantErr: "empty text",
		},
		{
			name:    "end before start",
			batch:   Batch{Words: []TimedWord{{Text: "two", StartMS: 100, EndMS: 50}}},
			wantErr: "before start",
		},
		{
			name:    "confidence out of range",
			batch:   Batch{Words: []TimedWord{{Text: "two", StartMS: 0, EndMS: 10, Confidence: 1.5}}},
			wantErr: "confidence",
		},
		{
			name: "regressing timestamps",
			batch: Batch{Words: []TimedWord{
				{Text: "two", StartMS: 500, EndMS: 600},
				{Text: "three", StartMS: 100, EndMS: 200},
			}},
			wantErr: "regress",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.batch.Validate()
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestWithIDPreservesExistingID(t *testing.T) {
	t.Parallel()

	batch := Batch{ID: "keep-me"}
	require.Equal(t, "keep-me", batch.WithID().ID)

	generated := Batch{}.WithID()
	require.NotEmpty(t, generated.ID)
}
