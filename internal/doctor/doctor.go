// Package doctor runs runtime readiness diagnostics for config, grammar,
// input, and the control socket environment.
package doctor

import (
	"fmt"
	"os"
	"strings"

	"github.com/periovox/periovox/internal/config"
	"github.com/periovox/periovox/internal/grammar"
	"github.com/periovox/periovox/internal/ipc"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/grammar checks for a loaded config.
func Run(cfg config.Loaded, grammarPath string) Report {
	checks := []Check{}

	if cfg.Exists {
		checks = append(checks, Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", cfg.Path)})
	} else {
		checks = append(checks, Check{Name: "config", Pass: true, Message: fmt.Sprintf("%q not found; defaults in effect", cfg.Path)})
	}

	checks = append(checks, checkGrammar(grammarPath))
	checks = append(checks, checkInput(cfg.Config))
	checks = append(checks, checkRuntimeDir())
	checks = append(checks, checkStateDir())

	return Report{Checks: checks}
}

// checkGrammar loads the grammar file, falling back to the built-in table
// when no file exists at the resolved path.
func checkGrammar(path string) Check {
	if strings.TrimSpace(path) == "" {
		return Check{Name: "grammar", Pass: true, Message: "built-in grammar in effect"}
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Check{Name: "grammar", Pass: true, Message: fmt.Sprintf("%q not found; built-in grammar in effect", path)}
		}
		return Check{Name: "grammar", Pass: false, Message: err.Error()}
	}

	g, err := grammar.Load(path)
	if err != nil {
		return Check{Name: "grammar", Pass: false, Message: err.Error()}
	}
	return Check{Name: "grammar", Pass: true, Message: fmt.Sprintf("loaded %q (%d entries, %d digit words)", path, g.Len(), g.DigitWordCount())}
}

// checkInput validates the configured recognition input source.
func checkInput(cfg config.Config) Check {
	source := strings.TrimSpace(cfg.Input.Source)
	switch source {
	case "":
		return Check{Name: "input", Pass: false, Message: "input.source is empty"}
	case "stdin":
		return Check{Name: "input", Pass: true, Message: "reading batches from stdin"}
	default:
		if _, err := os.Stat(source); err != nil {
			return Check{Name: "input", Pass: false, Message: fmt.Sprintf("input file %q: %v", source, err)}
		}
		return Check{Name: "input", Pass: true, Message: fmt.Sprintf("input file %q readable", source)}
	}
}

// checkRuntimeDir validates the control socket location.
func checkRuntimeDir() Check {
	path, err := ipc.RuntimeSocketPath()
	if err != nil {
		return Check{Name: "socket", Pass: false, Message: err.Error()}
	}
	return Check{Name: "socket", Pass: true, Message: fmt.Sprintf("control socket at %q", path)}
}

// checkStateDir validates that the log directory parent is writable.
func checkStateDir() Check {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return writableDirCheck("state", xdg)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Check{Name: "state", Pass: false, Message: err.Error()}
	}
	return writableDirCheck("state", home)
}

func writableDirCheck(name, dir string) Check {
	info, err := os.Stat(dir)
	if err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	if !info.IsDir() {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%q is not a directory", dir)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("log root %q available", dir)}
}
