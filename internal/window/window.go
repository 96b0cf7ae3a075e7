// Package window probes the focused desktop window so entry dispatch can be
// gated on the charting application having focus.
package window

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Prober reports the title of the currently focused window.
type Prober interface {
	FocusedTitle(ctx context.Context) (string, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context) (string, error)

func (f ProberFunc) FocusedTitle(ctx context.Context) (string, error) {
	return f(ctx)
}

// XDoTool queries the focused window title through xdotool.
type XDoTool struct{}

func (XDoTool) FocusedTitle(ctx context.Context) (string, error) {
	out, err := runTool(ctx, "xdotool", "getactivewindow", "getwindowname")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Matches reports whether the focused title contains the wanted fragment,
// case-insensitively. An empty fragment matches everything.
func Matches(title, fragment string) bool {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(fragment))
}

func runTool(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return nil, fmt.Errorf("%s %v failed: %w", name, args, err)
		}
		return nil, fmt.Errorf("%s %v failed: %w (%s)", name, args, err, trimmed)
	}
	return out, nil
}
