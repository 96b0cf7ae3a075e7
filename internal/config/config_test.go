package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()
	require.NoError(t, Validate(Default()))
}

func TestParseEmptyContentReturnsBase(t *testing.T) {
	t.Parallel()

	cfg, warnings, err := Parse("  \n ", Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, Default(), cfg)
}

func TestParseOverridesSelectedFields(t *testing.T) {
	t.Parallel()

	content := `{
		// tuning for a slow dictator
		"grouping": {
			"pause_threshold_ms": 450,
		},
		"matching": {"fuzzy_score_floor": 85},
		"entry": {
			"advance_after_sequence": false,
			"teens": {"mode": "literal"},
		},
		"target": {"window_title": "Open Dental"},
	}`

	cfg, _, err := Parse(content, Default())
	require.NoError(t, err)
	require.Equal(t, int64(450), cfg.Grouping.PauseThresholdMS)
	require.Equal(t, 85.0, cfg.Matching.FuzzyScoreFloor)
	require.False(t, cfg.Entry.AdvanceAfterSequence)
	require.Equal(t, "literal", cfg.Entry.TeensMode)
	require.Equal(t, "Open Dental", cfg.Target.WindowTitle)

	// Untouched fields keep their defaults.
	require.Equal(t, int64(50), cfg.Entry.InterEventDelayMS)
	require.Equal(t, "enter", cfg.Entry.AdvanceKey)
}

func TestParseQuadrantKeyTable(t *testing.T) {
	t.Parallel()

	content := `{"entry": {"quadrant_keys": {"1": "ctrl+f1", "2": "ctrl+f2", "3": "ctrl+f3", "4": "ctrl+f4"}}}`
	cfg, _, err := Parse(content, Default())
	require.NoError(t, err)
	require.Equal(t, map[int]string{1: "ctrl+f1", 2: "ctrl+f2", 3: "ctrl+f3", 4: "ctrl+f4"}, cfg.Entry.QuadrantKeys)

	_, _, err = Parse(`{"entry": {"quadrant_keys": {"5": "ctrl+5"}}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid quadrant")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, _, err := Parse(`{"grooping": {"pause_threshold_ms": 100}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "grooping")
}

func TestParseReportsLineOnSyntaxError(t *testing.T) {
	t.Parallel()

	content := "{\n\"grouping\": {\n  \"pause_threshold_ms\": oops\n}\n}"
	_, _, err := Parse(content, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 3")
}

func TestParseStripsCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	content := `{
	/* block comment
	   over two lines */
	"input": {"source": "stdin"}, // line comment
	"feedback": {"enable": false,},
}`
	cfg, _, err := Parse(content, Default())
	require.NoError(t, err)
	require.False(t, cfg.Feedback.Enable)
}

func TestParseRunsValidation(t *testing.T) {
	t.Parallel()

	_, _, err := Parse(`{"grouping": {"pause_threshold_ms": -10}}`, Default())
	require.ErrorIs(t, err, ErrInvalidPauseThreshold)

	_, _, err = Parse(`{"entry": {"teens": {"mode": "roman"}}}`, Default())
	require.ErrorIs(t, err, ErrInvalidTeensMode)

	_, _, err = Parse(`{"entry": {"advance_key": " "}}`, Default())
	require.ErrorIs(t, err, ErrMissingAdvanceKey)
}

func TestResolvePathUsesXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "periovox", "config.conf"), path)

	explicit, err := ResolvePath("/tmp/explicit.conf")
	require.NoError(t, err)
	require.Equal(t, "/tmp/explicit.conf", explicit)
}

func TestResolveGrammarPathPrecedence(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := ResolveGrammarPath("/tmp/cli.json", "/tmp/cfg.json")
	require.NoError(t, err)
	require.Equal(t, "/tmp/cli.json", path)

	path, err = ResolveGrammarPath("", "/tmp/cfg.json")
	require.NoError(t, err)
	require.Equal(t, "/tmp/cfg.json", path)

	path, err = ResolveGrammarPath("", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "periovox", "grammar.json"), path)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	loaded, err := Load("")
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.Len(t, loaded.Warnings, 1)
	require.Contains(t, loaded.Warnings[0].Message, "using defaults")
}

func TestLoadWarnsWhenConfiguredGrammarMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "grammar.json")
	configPath := filepath.Join(dir, "config.conf")
	content := fmt.Sprintf(`{"grammar": %q}`, missing)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	loaded, err := Load(configPath)
	require.NoError(t, err)
	require.Len(t, loaded.Warnings, 1)
	require.Contains(t, loaded.Warnings[0].Message, "built-in vocabulary in effect")

	// Once the grammar file exists the warning disappears.
	require.NoError(t, os.WriteFile(missing, []byte(`{}`), 0o600))
	loaded, err = Load(configPath)
	require.NoError(t, err)
	require.Empty(t, loaded.Warnings)
}

func TestLoadParsesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.conf")
	require.NoError(t, os.WriteFile(path, []byte(`{"grouping": {"pause_threshold_ms": 400}}`), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, int64(400), loaded.Config.Grouping.PauseThresholdMS)
}
