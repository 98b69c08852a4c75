package displaylines

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/straceview/stracetui/pkg/config"
	"github.com/straceview/stracetui/pkg/trace"
	"github.com/straceview/stracetui/pkg/utils"
	"github.com/straceview/stracetui/pkg/view"
)

func themeWithPalette() config.ThemeConfig {
	return config.ThemeConfig{
		SyscallCategoryColors: map[string]string{
			"file":    "blue",
			"network": "green",
			"other":   "white",
		},
		ErrorColor: "red",
	}
}

func TestFormatHeaderColorsOnlySyscallName(t *testing.T) {
	entry := trace.Entry{PID: 1, SyscallName: "openat", Arguments: "AT_FDCWD, \"/tmp/x\", O_RDONLY"}
	line := view.DisplayLine{Kind: view.KindSyscallHeader, Text: "1 openat(AT_FDCWD, \"/tmp/x\", O_RDONLY)"}

	out := Format(line, entry, themeWithPalette(), 0, 0, false, false)

	colored := utils.ColoredString("openat", utils.GetColorAttribute("blue"))
	assert.Contains(t, out, colored)
	assert.Contains(t, out, "AT_FDCWD")
	assert.Contains(t, out, "1 ")
}

func TestFormatHeaderFallsBackToOtherCategory(t *testing.T) {
	entry := trace.Entry{PID: 1, SyscallName: "io_uring_enter", Arguments: ""}
	line := view.DisplayLine{Kind: view.KindSyscallHeader, Text: "1 io_uring_enter()"}

	out := Format(line, entry, themeWithPalette(), 0, 0, false, false)

	// "white" maps to color.FgWhite, which ColoredString treats as "leave
	// it alone" for light-themed terminals, so the name is left uncolored.
	assert.Equal(t, line.Text, out)
}

func TestFormatSelectedOverridesCategoryColor(t *testing.T) {
	// fatih/color emits no escapes when stdout is not a terminal; force
	// them on so the two colorings can be told apart.
	prevNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prevNoColor }()

	entry := trace.Entry{PID: 1, SyscallName: "openat"}
	line := view.DisplayLine{Kind: view.KindSyscallHeader, Text: "1 openat()"}

	out := Format(line, entry, themeWithPalette(), 0, 0, false, true)

	assert.NotContains(t, out, utils.ColoredString("openat", utils.GetColorAttribute("blue")))
}

func TestFormatSearchMatchOverridesCategoryColorButNotSelected(t *testing.T) {
	prevNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prevNoColor }()

	entry := trace.Entry{PID: 1, SyscallName: "openat"}
	line := view.DisplayLine{Kind: view.KindSyscallHeader, Text: "1 openat()", IsSearchMatch: true}

	selectedOut := Format(line, entry, themeWithPalette(), 0, 0, false, true)
	searchOut := Format(line, entry, themeWithPalette(), 0, 0, false, false)

	assert.NotEqual(t, selectedOut, searchOut)
}

func TestFormatHiddenHeaderIsDimmedRegardlessOfCategory(t *testing.T) {
	entry := trace.Entry{PID: 1, SyscallName: "openat"}
	line := view.DisplayLine{Kind: view.KindSyscallHeader, Text: "1 openat()", IsHidden: true}

	out := Format(line, entry, themeWithPalette(), 0, 0, false, false)

	assert.Equal(t, utils.ColoredString(line.Text, utils.GetColorAttribute("dark-gray")), out)
}

func TestFormatErrorLineUsesErrorColor(t *testing.T) {
	line := view.DisplayLine{Kind: view.KindError, Text: "EACCES (Permission denied)"}

	out := Format(line, trace.Entry{}, themeWithPalette(), 0, 0, false, false)

	assert.Equal(t, utils.ColoredString(line.Text, utils.GetColorAttribute("red")), out)
}

func TestFormatArgumentLineTruncatesEndAtMaxArgumentWidth(t *testing.T) {
	longText := strings.Repeat("a", 50)
	line := view.DisplayLine{Kind: view.KindArgumentLine, Text: longText}

	out := Format(line, trace.Entry{}, config.ThemeConfig{}, 0, 10, false, false)

	assert.Equal(t, utils.TruncateEnd(longText, 10), out)
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestFormatBacktraceFrameTruncatesStartAtMaxArgumentWidth(t *testing.T) {
	longText := "/usr/lib/very/long/path/to/libc.so.6(funcname+0x123) [0xdeadbeef]"
	line := view.DisplayLine{Kind: view.KindBacktraceFrame, Text: longText}

	out := Format(line, trace.Entry{}, config.ThemeConfig{}, 0, 20, false, false)

	assert.Equal(t, utils.ColoredString(utils.TruncateStart(longText, 20), utils.GetColorAttribute("dark-gray")), out)
	assert.True(t, strings.HasPrefix(utils.Decolorise(out), "…"))
}

func TestFormatWrapArgumentsSkipsContentTruncation(t *testing.T) {
	longText := strings.Repeat("b", 200)
	line := view.DisplayLine{Kind: view.KindArgumentLine, Text: longText}

	out := Format(line, trace.Entry{}, config.ThemeConfig{}, 0, 10, true, false)

	assert.Equal(t, longText, out)
}

func TestFormatAppliesTerminalWidthClampWhenNarrowerThanMaxArgumentWidth(t *testing.T) {
	longText := strings.Repeat("c", 50)
	line := view.DisplayLine{Kind: view.KindArgumentLine, Text: longText}

	out := Format(line, trace.Entry{}, config.ThemeConfig{}, 5, 100, false, false)

	assert.Equal(t, utils.TruncateEnd(longText, 5), out)
}

func TestFormatBacktraceResolvedUsesGreen(t *testing.T) {
	line := view.DisplayLine{Kind: view.KindBacktraceResolved, Text: "main at main.go:10"}

	out := Format(line, trace.Entry{}, config.ThemeConfig{}, 0, 0, false, false)

	assert.Equal(t, utils.ColoredString(line.Text, utils.GetColorAttribute("green")), out)
}

func TestFormatSignalAndExitLinesAreUncategorized(t *testing.T) {
	signal := view.DisplayLine{Kind: view.KindSignal, Text: "--- SIGTERM ---"}
	exit := view.DisplayLine{Kind: view.KindExit, Text: "+++ exited with 0 +++"}

	assert.Equal(t, utils.ColoredString(signal.Text, utils.GetColorAttribute("yellow")), Format(signal, trace.Entry{}, config.ThemeConfig{}, 0, 0, false, false))
	assert.Equal(t, utils.ColoredString(exit.Text, utils.GetColorAttribute("cyan")), Format(exit, trace.Entry{}, config.ThemeConfig{}, 0, 0, false, false))
}

func TestFormatPlainKindsAreLeftUncolored(t *testing.T) {
	line := view.DisplayLine{Kind: view.KindReturnValue, Text: "= 4"}

	out := Format(line, trace.Entry{}, config.ThemeConfig{}, 0, 0, false, false)

	assert.Equal(t, line.Text, out)
}

func TestFormatIncludesTreePrefix(t *testing.T) {
	prefix := view.BuildTreePrefix(view.TreePrefix{}, true)
	line := view.DisplayLine{Kind: view.KindReturnValue, Prefix: prefix, Text: "= 4"}

	out := Format(line, trace.Entry{}, config.ThemeConfig{}, 0, 0, false, false)

	assert.True(t, strings.HasPrefix(out, prefix.Render(false)))
}
