package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/go-errors/errors"
	"github.com/integrii/flaggy"
	yaml "github.com/jesseduffield/yaml"
	"github.com/samber/lo"

	"github.com/straceview/stracetui/internal/applog"
	"github.com/straceview/stracetui/pkg/cli"
	"github.com/straceview/stracetui/pkg/config"
)

const defaultVersion = "unversioned"

var (
	commit      string
	version     = defaultVersion
	date        string
	buildSource = "unknown"

	configFlag    = false
	debuggingFlag = false

	traceFilePath string
	jsonFlag      bool
	jsonOutput    string
	resolveFlag   bool
	prettyFlag    bool
	keepTraceFlag bool
	traceFileFlag string
)

// traceFlagNames are the `[--json ...]`/`[--keep-trace]`/`[--trace-file F]`
// suboptions of `trace CMD...`; anything before the first of these on the
// command line is part of CMD, matching §6's "trace CMD... [--json ...]"
// grammar where the traced command's own args may themselves start with a
// dash.
var traceFlagNames = map[string]bool{
	"--json":       true,
	"--output":     true,
	"-o":           true,
	"--resolve":    true,
	"--pretty":     true,
	"--keep-trace": true,
	"--trace-file": true,
}

func main() {
	updateBuildInfo()

	info := fmt.Sprintf(
		"%s\nDate: %s\nBuildSource: %s\nCommit: %s\nOS: %s\nArch: %s",
		version, date, buildSource, commit, runtime.GOOS, runtime.GOARCH,
	)

	flaggy.SetName("stracetui")
	flaggy.SetDescription("A terminal viewer for strace -f -tt -k output")
	flaggy.SetVersion(info)

	flaggy.Bool(&configFlag, "c", "config", "Print the current default config")
	flaggy.Bool(&debuggingFlag, "d", "debug", "Enable debug logging to development.log")

	parseCmd := flaggy.NewSubcommand("parse")
	parseCmd.Description = "Parse a recorded strace -f -tt -k log file"
	parseCmd.AddPositionalValue(&traceFilePath, "file", 1, true, "path to the recorded trace file")
	parseCmd.Bool(&jsonFlag, "", "json", "emit JSON instead of opening the TUI")
	parseCmd.String(&jsonOutput, "o", "output", "write JSON to this file instead of stdout")
	parseCmd.Bool(&resolveFlag, "", "resolve", "resolve every backtrace frame before output")
	parseCmd.Bool(&prettyFlag, "", "pretty", "pretty-print JSON output")
	flaggy.AttachSubcommand(parseCmd, 1)

	traceCmd := flaggy.NewSubcommand("trace")
	traceCmd.Description = "Run a command under strace and view its trace"
	traceCmd.Bool(&jsonFlag, "", "json", "emit JSON instead of opening the TUI")
	traceCmd.String(&jsonOutput, "o", "output", "write JSON to this file instead of stdout")
	traceCmd.Bool(&resolveFlag, "", "resolve", "resolve every backtrace frame before output")
	traceCmd.Bool(&prettyFlag, "", "pretty", "pretty-print JSON output")
	traceCmd.Bool(&keepTraceFlag, "", "keep-trace", "keep the intermediate trace file on exit")
	traceCmd.String(&traceFileFlag, "", "trace-file", "write the intermediate trace to this path")
	flaggy.AttachSubcommand(traceCmd, 1)

	rawArgs := os.Args[1:]
	var traceCommand []string
	if len(rawArgs) > 0 && rawArgs[0] == "trace" {
		traceCommand, rawArgs = splitTraceArgs(rawArgs[1:])
		rawArgs = append([]string{"trace"}, rawArgs...)
	}
	os.Args = append([]string{os.Args[0]}, rawArgs...)

	flaggy.Parse()

	if configFlag {
		var buf bytes.Buffer
		if err := yaml.NewEncoder(&buf).Encode(config.GetDefaultConfig()); err != nil {
			log.Fatal(err.Error())
		}
		fmt.Printf("%v\n", buf.String())
		os.Exit(0)
	}

	projectDir, err := os.Getwd()
	if err != nil {
		log.Fatal(err.Error())
	}

	appConfig, err := config.NewAppConfig("stracetui", version, commit, date, buildSource, debuggingFlag, projectDir)
	if err != nil {
		log.Fatal(err.Error())
	}

	logger := applog.NewLogger(appConfig)

	jsonOpts := cli.JSONOptions{
		Enabled:    jsonFlag,
		OutputPath: jsonOutput,
		Resolve:    resolveFlag,
		Pretty:     prettyFlag,
	}

	switch {
	case traceCmd.Used:
		err = cli.RunTrace(logger, appConfig, traceCommand, keepTraceFlag, traceFileFlag, jsonOpts)
	case parseCmd.Used:
		err = cli.RunParse(logger, appConfig, traceFilePath, jsonOpts)
	default:
		flaggy.ShowHelp("no subcommand given, expected \"parse\" or \"trace\"")
		os.Exit(1)
	}

	if err != nil {
		newErr := errors.Wrap(err, 0)
		logger.Error(newErr.ErrorStack())
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// splitTraceArgs separates the traced command and its own arguments from
// our own trailing flags, since the grammar `trace CMD... [--json ...]`
// puts our flags after a command that may itself contain dash-prefixed
// arguments.
func splitTraceArgs(args []string) (cmd []string, rest []string) {
	for i, a := range args {
		if traceFlagNames[a] {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

func updateBuildInfo() {
	if version == defaultVersion {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			revision, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
				return setting.Key == "vcs.revision"
			})
			if ok {
				commit = revision.Value
				// if stracetui was built from source we'll show the version as the
				// abbreviated commit hash
				version = truncate(revision.Value, 7)
			}

			// if version hasn't been set we assume that neither has the date
			time, ok := lo.Find(buildInfo.Settings, func(setting debug.BuildSetting) bool {
				return setting.Key == "vcs.time"
			})
			if ok {
				date = time.Value
			}
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
