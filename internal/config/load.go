package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Loaded is the result of resolving and reading the runtime configuration:
// the path that was consulted, the effective config, and any non-fatal
// warnings to surface before dispatch starts.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves the config location, reads and parses the file, and checks
// that a configured grammar file actually exists. A missing config file is
// not an error; the built-in defaults keep the listener usable out of the
// box.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	content, err := os.ReadFile(resolvedPath)
	if errors.Is(err, os.ErrNotExist) {
		loaded := Loaded{Path: resolvedPath, Config: Default()}
		loaded.Warnings = append(loaded.Warnings, Warning{
			Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
		})
		return loaded, nil
	}
	if err != nil {
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	}

	cfg, warnings, err := Parse(string(content), Default())
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
	}
	warnings = append(warnings, grammarWarnings(cfg)...)

	return Loaded{
		Path:     resolvedPath,
		Config:   cfg,
		Warnings: warnings,
		Exists:   true,
	}, nil
}

// grammarWarnings flags a configured grammar path that points nowhere, since
// the session will silently fall back to the built-in vocabulary.
func grammarWarnings(cfg Config) []Warning {
	path := strings.TrimSpace(cfg.GrammarPath)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return []Warning{{
			Message: fmt.Sprintf("grammar file %q not found; built-in vocabulary in effect", path),
		}}
	}
	return nil
}
