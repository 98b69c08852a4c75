package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/straceview/stracetui/pkg/trace"
	"github.com/straceview/stracetui/pkg/utils"
)

// PrintSummary writes a short colored report of a parsed trace to w, used
// by `parse`/`trace` when neither --json nor the TUI was requested.
func PrintSummary(w io.Writer, path string, summary trace.SummaryStats, errs []trace.ParseError) {
	fmt.Fprintf(w, "%s %s\n", utils.ColoredString("trace:", color.FgCyan), path)
	fmt.Fprintf(w, "  %s %d\n", utils.ColoredString("syscalls:", color.FgWhite), summary.TotalSyscalls)

	failedLabel := utils.ColoredString("failed:", color.FgWhite)
	if summary.FailedSyscalls > 0 {
		failedLabel = utils.ColoredString("failed:", color.FgRed)
	}
	fmt.Fprintf(w, "  %s %d\n", failedLabel, summary.FailedSyscalls)

	fmt.Fprintf(w, "  %s %d\n", utils.ColoredString("signals:", color.FgYellow), summary.Signals)
	fmt.Fprintf(w, "  %s %d\n", utils.ColoredString("unique pids:", color.FgWhite), len(summary.UniquePIDs))
	if summary.TotalDuration != nil {
		fmt.Fprintf(w, "  %s %.6fs\n", utils.ColoredString("total duration:", color.FgWhite), *summary.TotalDuration)
	}

	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s %d\n", utils.ColoredString("parse errors:", color.FgRed), len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    line %d: %s: %s\n", e.Line, e.Kind, e.Message)
	}
}
