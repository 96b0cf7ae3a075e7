package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandRun      Command = "run"
	CommandSimulate Command = "simulate"
	CommandCheck    Command = "check"
	CommandStatus   Command = "status"
	CommandWake     Command = "wake"
	CommandSleep    Command = "sleep"
	CommandStop     Command = "stop"
	CommandVersion  Command = "version"
	CommandHelp     Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandRun:      {},
	CommandSimulate: {},
	CommandCheck:    {},
	CommandStatus:   {},
	CommandWake:     {},
	CommandSleep:    {},
	CommandStop:     {},
	CommandVersion:  {},
	CommandHelp:     {},
}

type Parsed struct {
	Command     Command
	ConfigPath  string
	GrammarPath string
	InputPath   string
	Verbose     bool
	ShowHelp    bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--verbose":
			parsed.Verbose = true
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		case "--grammar":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--grammar requires a path")
			}
			parsed.GrammarPath = args[i]
		case "--input":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--input requires a path")
			}
			parsed.InputPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [flags] <command>

Commands:
  run       Listen for recognition batches and dispatch chart entries
  simulate  Process input and print output events without injecting keys
  check     Run configuration and environment checks
  status    Print current listener state
  wake      Resume dispatch in the running session
  sleep     Pause dispatch in the running session
  stop      Stop the running session
  version   Print version information
  help      Show this help

Flags:
  --config PATH    Config file path (default: $XDG_CONFIG_HOME/periovox/config.conf)
  --grammar PATH   Grammar file path (default: $XDG_CONFIG_HOME/periovox/grammar.json)
  --input PATH     Recognition input: a JSONL file path or "stdin"
  --verbose        Enable debug logging
  -h, --help       Show help
  --version        Show version
`, binaryName)
}
