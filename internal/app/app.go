package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/periovox/periovox/internal/cli"
	"github.com/periovox/periovox/internal/config"
	"github.com/periovox/periovox/internal/doctor"
	"github.com/periovox/periovox/internal/executor"
	"github.com/periovox/periovox/internal/feedback"
	"github.com/periovox/periovox/internal/grammar"
	"github.com/periovox/periovox/internal/grouper"
	"github.com/periovox/periovox/internal/ipc"
	"github.com/periovox/periovox/internal/logging"
	"github.com/periovox/periovox/internal/match"
	"github.com/periovox/periovox/internal/pipeline"
	"github.com/periovox/periovox/internal/recog"
	"github.com/periovox/periovox/internal/sequence"
	"github.com/periovox/periovox/internal/session"
	"github.com/periovox/periovox/internal/version"
	"github.com/periovox/periovox/internal/window"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("periovox"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("periovox"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New(parsed.Verbose)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	grammarPath, err := config.ResolveGrammarPath(parsed.GrammarPath, cfgLoaded.Config.GrammarPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"grammar", grammarPath,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandCheck:
		report := doctor.Run(cfgLoaded, grammarPath)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandWake:
		return r.forwardOrFail(ctx, "wake")
	case cli.CommandSleep:
		return r.forwardOrFail(ctx, "sleep")
	case cli.CommandStop:
		return r.forwardOrFail(ctx, "stop")
	case cli.CommandSimulate:
		return r.commandSimulate(ctx, parsed, cfgLoaded.Config, grammarPath, logger)
	case cli.CommandRun:
		return r.commandRun(ctx, parsed, cfgLoaded.Config, grammarPath, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// loadGrammar reads the grammar file when present, otherwise falls back to
// the built-in table.
func loadGrammar(path string, logger *slog.Logger) (*grammar.Grammar, error) {
	if strings.TrimSpace(path) != "" {
		g, err := grammar.Load(path)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logger.Info("grammar file not found; using built-in grammar", "path", path)
	}
	return grammar.Default(), nil
}

// buildOrchestrator assembles the group -> match -> sequence chain from config.
func buildOrchestrator(cfg config.Config, g *grammar.Grammar, logger *slog.Logger) *pipeline.Orchestrator {
	grp := grouper.New(g, grouper.Config{
		PauseThresholdMS:      cfg.Grouping.PauseThresholdMS,
		MaxCommandPhraseWords: cfg.Grouping.MaxCommandPhraseWords,
	})
	matcher := match.New(g, match.NewLevenshteinScorer(), match.Config{
		ScoreFloor:  cfg.Matching.FuzzyScoreFloor,
		ScoreMargin: cfg.Matching.FuzzyScoreMargin,
	}, logger)
	sequencer := sequence.New(sequence.Config{
		InterEventDelayMS:    cfg.Entry.InterEventDelayMS,
		AdvanceAfterSequence: cfg.Entry.AdvanceAfterSequence,
		AdvanceKey:           cfg.Entry.AdvanceKey,
		MaxDigitValue:        cfg.Entry.MaxDigitValue,
		Teens: sequence.TeensProtocol{
			Mode:        sequence.TeensMode(cfg.Entry.TeensMode),
			ModifierKey: cfg.Entry.TeensModifierKey,
		},
		QuadrantKeys:    cfg.Entry.QuadrantKeys,
		SideKeys:        cfg.Entry.SideKeys,
		SkipPlaceholder: cfg.Entry.SkipPlaceholder,
	})
	return pipeline.New(grp, matcher, sequencer, logger)
}

// openSource resolves the recognition input: the --input flag wins, then the
// configured source; "stdin" reads the process stdin.
func (r Runner) openSource(parsed cli.Parsed, cfg config.Config) (recog.Source, func() error, error) {
	source := strings.TrimSpace(parsed.InputPath)
	if source == "" {
		source = strings.TrimSpace(cfg.Input.Source)
	}
	if source == "" || source == "stdin" {
		return recog.NewLineReader(os.Stdin), func() error { return nil }, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, nil, fmt.Errorf("open input %q: %w", source, err)
	}
	return recog.NewLineReader(f), f.Close, nil
}

// commandSimulate runs the pipeline against the input and prints the output
// events as JSON lines without touching the keyboard.
func (r Runner) commandSimulate(ctx context.Context, parsed cli.Parsed, cfg config.Config, grammarPath string, logger *slog.Logger) int {
	g, err := loadGrammar(grammarPath, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	source, closeSource, err := r.openSource(parsed, cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = closeSource() }()

	recorder := &executor.Recorder{}
	controller := session.NewController(logger, source, buildOrchestrator(cfg, g, logger), recorder, feedback.Noop{})

	summary := controller.Run(ctx)
	logSessionSummary(logger, summary)

	encoder := json.NewEncoder(r.Stdout)
	for _, event := range recorder.Events {
		if err := encoder.Encode(event); err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(r.Stderr, "batches=%d dispatched=%d unmatched=%d failed=%d\n",
		summary.Batches, summary.Dispatched, summary.Unmatched, summary.Failed)

	if summary.Err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", summary.Err)
		return 1
	}
	return 0
}

// commandRun owns the control socket and dispatches entries to the keyboard
// until the input ends or a stop arrives.
func (r Runner) commandRun(ctx context.Context, parsed cli.Parsed, cfg config.Config, grammarPath string, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	g, err := loadGrammar(grammarPath, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	source, closeSource, err := r.openSource(parsed, cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = closeSource() }()

	injector, err := executor.NewKeyInjector(logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	var exec executor.Executor = injector
	if strings.TrimSpace(cfg.Target.WindowTitle) != "" {
		exec = window.NewGuard(injector, window.XDoTool{}, cfg.Target.WindowTitle, logger)
	}

	var notifier feedback.Notifier = feedback.Noop{}
	if cfg.Feedback.Enable {
		notifier = feedback.NewDesktop(logger)
	}

	controller := session.NewController(logger, source, buildOrchestrator(cfg, g, logger), exec, notifier)

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller, logger)
	}()

	summary := controller.Run(ctx)
	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logSessionSummary(logger, summary)

	if summary.Err != nil && !errors.Is(summary.Err, context.Canceled) {
		fmt.Fprintf(r.Stderr, "error: %v\n", summary.Err)
		return 1
	}

	fmt.Fprintf(r.Stdout, "batches=%d dispatched=%d unmatched=%d failed=%d\n",
		summary.Batches, summary.Dispatched, summary.Unmatched, summary.Failed)
	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "stopped")
		return 0
	}

	state, counts, err := ipc.Status(ctx, socketPath, 220*time.Millisecond)
	if err != nil {
		if isSocketMissing(err) || isConnectionRefused(err) {
			fmt.Fprintln(r.Stdout, "stopped")
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	if state == "" {
		state = "stopped"
	}
	if counts != nil {
		fmt.Fprintf(r.Stdout, "%s batches=%d dispatched=%d unmatched=%d failed=%d\n",
			state, counts.Batches, counts.Dispatched, counts.Unmatched, counts.Failed)
		return 0
	}
	fmt.Fprintln(r.Stdout, state)
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, command)
	if !handled {
		fmt.Fprintf(r.Stderr, "error: no active periovox session\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

func logSessionSummary(logger *slog.Logger, summary session.Summary) {
	if logger == nil {
		return
	}
	fields := []any{
		"state", summary.State,
		"batches", summary.Batches,
		"dispatched", summary.Dispatched,
		"unmatched", summary.Unmatched,
		"failed", summary.Failed,
		"started_at", summary.StartedAt.Format(time.RFC3339Nano),
		"finished_at", summary.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", summary.FinishedAt.Sub(summary.StartedAt).Milliseconds(),
	}

	if summary.Err != nil {
		logger.Error("session failed", append(fields, "error", summary.Err.Error())...)
		return
	}
	logger.Info("session complete", fields...)
}

func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) {
		return ipc.Response{}, false, nil
	}
	if isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
