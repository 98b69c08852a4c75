package cli

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/straceview/stracetui/pkg/config"
	"github.com/straceview/stracetui/pkg/graph"
	"github.com/straceview/stracetui/pkg/jsonout"
	"github.com/straceview/stracetui/pkg/resolver"
	"github.com/straceview/stracetui/pkg/trace"
	"github.com/straceview/stracetui/pkg/tui"
	"github.com/straceview/stracetui/pkg/view"
)

// JSONOptions mirrors the `[--json [--output F] [--resolve] [--pretty]]`
// suboptions shared by both subcommands.
type JSONOptions struct {
	Enabled    bool
	OutputPath string
	Resolve    bool
	Pretty     bool
}

// RunParse implements `parse FILE [--json ...]`: parse a previously
// recorded trace file and either emit JSON, print a summary, or open the
// TUI depending on jsonOpts and whether stdout is a terminal.
func RunParse(log *logrus.Entry, cfg *config.AppConfig, path string, jsonOpts JSONOptions) error {
	entries, errs, err := trace.ParseFile(path)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	return emit(log, cfg, path, entries, errs, jsonOpts, nil)
}

// RunTrace implements `trace CMD... [--json ...] [--keep-trace]
// [--trace-file F]`: run cmd under strace, then behave like RunParse
// against the resulting trace file. RunTracer returns only after the
// traced command has exited, so the file is complete before it is first
// parsed; in TUI mode it is then re-read on a timer (§5).
func RunTrace(log *logrus.Entry, cfg *config.AppConfig, cmd []string, keepTraceFile bool, traceFilePath string, jsonOpts JSONOptions) error {
	if traceFilePath == "" {
		f, err := os.CreateTemp("", "stracetui-*.trace")
		if err != nil {
			return errors.Wrap(err, 0)
		}
		traceFilePath = f.Name()
		f.Close()
	}
	if !keepTraceFile && !cfg.UserConfig.Tracer.KeepTraceFile {
		defer os.Remove(traceFilePath)
	}

	if err := RunTracer(log, cfg.UserConfig.Tracer, traceFilePath, cmd); err != nil {
		return err
	}

	entries, errs, err := trace.ParseFile(traceFilePath)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	reload := func() ([]trace.Entry, []trace.ParseError, error) {
		return trace.ParseFile(traceFilePath)
	}

	return emit(log, cfg, traceFilePath, entries, errs, jsonOpts, reload)
}

// emit is the shared tail of both subcommands: JSON if asked for,
// otherwise a plain summary when stdout isn't a terminal (piped/
// redirected), otherwise the interactive TUI.
func emit(log *logrus.Entry, cfg *config.AppConfig, path string, entries []trace.Entry, errs []trace.ParseError, jsonOpts JSONOptions, reload tui.Reloader) error {
	if jsonOpts.Enabled {
		return emitJSON(entries, errs, jsonOpts)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		PrintSummary(os.Stdout, path, trace.Summarize(entries), errs)
		return nil
	}

	return runTUI(cfg, log, entries, reload)
}

func emitJSON(entries []trace.Entry, errs []trace.ParseError, opts JSONOptions) error {
	if opts.Resolve {
		res := resolver.New()
		defer res.Close()
		for i := range entries {
			res.ResolveFrames(entries[i].Backtrace)
		}
	}

	data, err := jsonout.Marshal(entries, trace.Summarize(entries), errs, opts.Pretty)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	if opts.OutputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return errors.Wrap(err, 0)
		}
		fmt.Println()
		return nil
	}

	if err := os.WriteFile(opts.OutputPath, data, 0o644); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func runTUI(cfg *config.AppConfig, log *logrus.Entry, entries []trace.Entry, reload tui.Reloader) error {
	var res *resolver.Resolver
	if cfg.UserConfig.Resolver.Enabled {
		res = resolver.New()
		defer res.Close()
	}

	g := graph.Build(entries, len(cfg.UserConfig.Gui.Theme.ProcessLaneColors))
	m := view.NewModel(entries, res, g)

	host := tui.NewHost(m, cfg, log, reload)
	return host.Run()
}
