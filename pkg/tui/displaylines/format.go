// Package displaylines turns a view.DisplayLine into a single colored,
// width-clamped string ready to write straight into a gocui view (§4.9).
// gocui, run with gocui.OutputTrue, interprets the ANSI escapes fatih/color
// emits -- the same mechanism the teacher uses to color container state
// text (pkg/gui/presentation) before Fprint-ing it into a panel.
package displaylines

import (
	"strings"

	"github.com/fatih/color"

	"github.com/straceview/stracetui/pkg/config"
	"github.com/straceview/stracetui/pkg/trace"
	"github.com/straceview/stracetui/pkg/utils"
	"github.com/straceview/stracetui/pkg/view"
)

func isPathLike(kind view.DisplayLineKind) bool {
	return kind == view.KindBacktraceFrame || kind == view.KindBacktraceResolved
}

// contentWidth returns the plain (content-level) truncation applied before
// any terminal-width clamp: argument values and backtrace frames get
// capped at maxArgWidth regardless of how wide the terminal is, unless
// wrapArguments is set (no cap; the list view does not wrap lines).
func contentWidth(line view.DisplayLine, maxArgWidth int, wrapArguments bool) string {
	if wrapArguments || maxArgWidth <= 0 {
		return line.Text
	}
	switch line.Kind {
	case view.KindArgumentLine:
		return utils.TruncateEnd(line.Text, maxArgWidth)
	case view.KindBacktraceFrame, view.KindBacktraceResolved:
		return utils.TruncateStart(line.Text, maxArgWidth)
	default:
		return line.Text
	}
}

// Format renders one display line. availableWidth is the remaining
// character budget after the tree prefix; 0 or negative disables the
// terminal-width clamp, and so does wrapArguments.
func Format(line view.DisplayLine, entry trace.Entry, theme config.ThemeConfig, availableWidth int, maxArgWidth int, wrapArguments bool, selected bool) string {
	prefix := line.Prefix.Render(isHeaderKind(line.Kind))
	text := contentWidth(line, maxArgWidth, wrapArguments)

	if !wrapArguments && availableWidth > 0 {
		if isPathLike(line.Kind) {
			text = utils.TruncateStart(text, availableWidth)
		} else {
			text = utils.TruncateEnd(text, availableWidth)
		}
	}

	if selected {
		return prefix + utils.ColoredStringDirect(text, color.New(color.BgHiBlack, color.Bold))
	}
	if line.IsSearchMatch {
		return prefix + utils.ColoredStringDirect(text, color.New(color.FgBlack, color.BgYellow))
	}

	return prefix + colorContent(line, entry, theme, text)
}

func isHeaderKind(k view.DisplayLineKind) bool {
	return k == view.KindSyscallHeader || k == view.KindArgumentsHeader || k == view.KindBacktraceHeader
}

// colorContent applies the §4.9 per-kind palette to an already
// width-clamped line. Tree prefixes are never colored -- they're handled
// separately by the caller.
func colorContent(line view.DisplayLine, entry trace.Entry, theme config.ThemeConfig, text string) string {
	if line.Kind == view.KindSyscallHeader && line.IsHidden {
		return utils.ColoredString(text, utils.GetColorAttribute("dark-gray"))
	}

	switch line.Kind {
	case view.KindSyscallHeader:
		return colorHeader(entry, theme, text)
	case view.KindError:
		return utils.ColoredString(text, utils.GetColorAttribute(orDefault(theme.ErrorColor, "red")))
	case view.KindSignal:
		return utils.ColoredString(text, utils.GetColorAttribute("yellow"))
	case view.KindExit:
		return utils.ColoredString(text, utils.GetColorAttribute("cyan"))
	case view.KindBacktraceFrame:
		return utils.ColoredString(text, utils.GetColorAttribute("dark-gray"))
	case view.KindBacktraceResolved:
		return utils.ColoredString(text, utils.GetColorAttribute("green"))
	default:
		return text
	}
}

// colorHeader colors only the syscall-name span of the header text by its
// category, leaving pid/timestamp/arguments/return/errno uncolored.
func colorHeader(entry trace.Entry, theme config.ThemeConfig, text string) string {
	name := entry.SyscallName
	idx := strings.Index(text, name+"(")
	if idx < 0 {
		idx = strings.Index(text, name)
	}
	if idx < 0 || name == "" {
		return text
	}

	category := trace.CategoryFor(name)
	colorKey := theme.SyscallCategoryColors[string(category)]
	if colorKey == "" {
		colorKey = theme.SyscallCategoryColors[string(trace.CategoryOther)]
	}
	if colorKey == "" {
		colorKey = "white"
	}

	before, after := text[:idx], text[idx+len(name):]
	return before + utils.ColoredString(name, utils.GetColorAttribute(colorKey)) + after
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
