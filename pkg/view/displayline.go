package view

import (
	"fmt"
	"strings"

	"github.com/straceview/stracetui/pkg/trace"
)

// DisplayLineKind tags a flattened display line's role.
type DisplayLineKind int

const (
	KindSyscallHeader DisplayLineKind = iota
	KindArgumentsHeader
	KindArgumentLine
	KindReturnValue
	KindError
	KindDuration
	KindSignal
	KindExit
	KindEntryReference
	KindBacktraceHeader
	KindBacktraceFrame
	KindBacktraceResolved
)

// DisplayLine is one flattened, renderable row. ArgIdx is only meaningful
// for KindArgumentLine, FrameIdx for KindBacktraceFrame and
// KindBacktraceResolved, ResolvedIdx for KindBacktraceResolved; IsHidden
// is only meaningful for KindSyscallHeader.
type DisplayLine struct {
	Kind          DisplayLineKind
	EntryIdx      int
	Prefix        TreePrefix
	IsSearchMatch bool
	IsHidden      bool

	ArgIdx      int
	FrameIdx    int
	ResolvedIdx int

	Text string
}

// Render is the line's full rendered text, as matched by search (§8):
// the tree prefix glyphs followed by the line's content.
func (d DisplayLine) Render() string {
	return d.Prefix.Render(isHeaderKind(d.Kind)) + d.Text
}

func isHeaderKind(k DisplayLineKind) bool {
	return k == KindSyscallHeader || k == KindArgumentsHeader || k == KindBacktraceHeader
}

// buildLines flattens the model's entries into the linear display-line
// sequence described by the build procedure: a header per visible entry,
// then (if expanded) each present child kind in a fixed order, splitting
// arguments and resolving backtrace frames on demand.
func (m *Model) buildLines() []DisplayLine {
	var out []DisplayLine
	root := TreePrefix{}

	for idx, entry := range m.Entries {
		hidden := m.Filter.Hidden[entry.SyscallName]
		if hidden && !m.Filter.ShowHidden {
			continue
		}

		out = append(out, DisplayLine{
			Kind:     KindSyscallHeader,
			EntryIdx: idx,
			Prefix:   root,
			IsHidden: hidden,
			Text:     formatHeaderSummary(entry),
		})

		if !m.expandedEntry[idx] {
			continue
		}

		out = append(out, m.buildEntryChildren(idx, entry, root)...)
	}

	return out
}

type childKind int

const (
	childArguments childKind = iota
	childReturn
	childError
	childDuration
	childSignal
	childExit
	childEntryReference
	childBacktrace
)

func presentChildren(entry trace.Entry) []childKind {
	var kinds []childKind
	if entry.Arguments != "" {
		kinds = append(kinds, childArguments)
	}
	if entry.ReturnValue != nil {
		kinds = append(kinds, childReturn)
	}
	if entry.Errno != nil {
		kinds = append(kinds, childError)
	}
	if entry.Duration != nil {
		kinds = append(kinds, childDuration)
	}
	if entry.Signal != nil {
		kinds = append(kinds, childSignal)
	}
	if entry.ExitInfo != nil {
		kinds = append(kinds, childExit)
	}
	if entry.UnfinishedEntryIdx != nil || entry.ResumedEntryIdx != nil {
		kinds = append(kinds, childEntryReference)
	}
	if len(entry.Backtrace) > 0 {
		kinds = append(kinds, childBacktrace)
	}
	return kinds
}

func (m *Model) buildEntryChildren(idx int, entry trace.Entry, entryPrefix TreePrefix) []DisplayLine {
	kinds := presentChildren(entry)
	var out []DisplayLine

	for ordinal, kind := range kinds {
		isLast := ordinal == len(kinds)-1
		prefix := BuildTreePrefix(entryPrefix, isLast)

		switch kind {
		case childArguments:
			out = append(out, DisplayLine{Kind: KindArgumentsHeader, EntryIdx: idx, Prefix: prefix, Text: "arguments"})
			if m.expandedArguments[idx] {
				out = append(out, m.buildArgumentLines(idx, entry, prefix, isLast)...)
			}
		case childReturn:
			out = append(out, DisplayLine{Kind: KindReturnValue, EntryIdx: idx, Prefix: prefix, Text: "= " + *entry.ReturnValue})
		case childError:
			out = append(out, DisplayLine{Kind: KindError, EntryIdx: idx, Prefix: prefix, Text: fmt.Sprintf("%s (%s)", entry.Errno.Code, entry.Errno.Message)})
		case childDuration:
			out = append(out, DisplayLine{Kind: KindDuration, EntryIdx: idx, Prefix: prefix, Text: fmt.Sprintf("<%.6f>", *entry.Duration)})
		case childSignal:
			out = append(out, DisplayLine{Kind: KindSignal, EntryIdx: idx, Prefix: prefix, Text: fmt.Sprintf("--- %s %s ---", entry.Signal.SignalName, entry.Signal.Details)})
		case childExit:
			out = append(out, DisplayLine{Kind: KindExit, EntryIdx: idx, Prefix: prefix, Text: formatExit(*entry.ExitInfo)})
		case childEntryReference:
			out = append(out, DisplayLine{Kind: KindEntryReference, EntryIdx: idx, Prefix: prefix, Text: formatEntryReference(entry)})
		case childBacktrace:
			out = append(out, DisplayLine{Kind: KindBacktraceHeader, EntryIdx: idx, Prefix: prefix, Text: fmt.Sprintf("backtrace (%d frames)", len(entry.Backtrace))})
			if m.expandedBacktrace[idx] {
				out = append(out, m.buildBacktraceLines(idx, entry, prefix, isLast)...)
			}
		}
	}

	return out
}

func (m *Model) buildArgumentLines(idx int, entry trace.Entry, headerPrefix TreePrefix, headerIsLast bool) []DisplayLine {
	pieces := SplitTopLevelArguments(entry.Arguments)
	nested := BuildNestedPrefix(headerPrefix, headerIsLast)

	out := make([]DisplayLine, 0, len(pieces))
	for i, piece := range pieces {
		isLast := i == len(pieces)-1
		out = append(out, DisplayLine{
			Kind:     KindArgumentLine,
			EntryIdx: idx,
			ArgIdx:   i,
			Prefix:   BuildTreePrefix(nested, isLast),
			Text:     strings.TrimSpace(piece),
		})
	}
	return out
}

func (m *Model) buildBacktraceLines(idx int, entry trace.Entry, headerPrefix TreePrefix, headerIsLast bool) []DisplayLine {
	nested := BuildNestedPrefix(headerPrefix, headerIsLast)

	var out []DisplayLine
	for frameIdx, frame := range entry.Backtrace {
		isLastFrame := frameIdx == len(entry.Backtrace)-1
		prefix := BuildTreePrefix(nested, isLastFrame)

		if frame.Resolved == nil {
			out = append(out, DisplayLine{
				Kind:     KindBacktraceFrame,
				EntryIdx: idx,
				FrameIdx: frameIdx,
				Prefix:   prefix,
				Text:     formatRawFrame(frame),
			})
			continue
		}
		for resolvedIdx, rf := range frame.Resolved {
			out = append(out, DisplayLine{
				Kind:        KindBacktraceResolved,
				EntryIdx:    idx,
				FrameIdx:    frameIdx,
				ResolvedIdx: resolvedIdx,
				Prefix:      prefix,
				Text:        formatResolvedFrame(rf),
			})
		}
	}
	return out
}

func formatHeaderSummary(entry trace.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d ", entry.PID)
	if entry.Timestamp != "" {
		fmt.Fprintf(&b, "%s ", entry.Timestamp)
	}
	fmt.Fprintf(&b, "%s(%s)", entry.SyscallName, entry.Arguments)
	if entry.IsUnfinished {
		b.WriteString(" <unfinished ...>")
	}
	if entry.ReturnValue != nil {
		fmt.Fprintf(&b, " = %s", *entry.ReturnValue)
	}
	if entry.Errno != nil {
		fmt.Fprintf(&b, " %s (%s)", entry.Errno.Code, entry.Errno.Message)
	}
	return b.String()
}

func formatExit(info trace.ExitInfo) string {
	if info.Killed {
		return "+++ killed +++"
	}
	return fmt.Sprintf("+++ exited with %d +++", info.Code)
}

func formatEntryReference(entry trace.Entry) string {
	if entry.UnfinishedEntryIdx != nil {
		return fmt.Sprintf("resumes entry %d", *entry.UnfinishedEntryIdx)
	}
	if entry.ResumedEntryIdx != nil {
		return fmt.Sprintf("resumed by entry %d", *entry.ResumedEntryIdx)
	}
	return ""
}

func formatRawFrame(frame trace.Frame) string {
	function := "??"
	if frame.Function != nil {
		function = *frame.Function
	}
	offset := ""
	if frame.Offset != nil {
		offset = "+" + *frame.Offset
	}
	return fmt.Sprintf("%s(%s%s) [%s]", frame.Binary, function, offset, frame.Address)
}

func formatResolvedFrame(rf trace.ResolvedFrame) string {
	if rf.Column != nil {
		return fmt.Sprintf("%s at %s:%d:%d", rf.Function, rf.File, rf.Line, *rf.Column)
	}
	return fmt.Sprintf("%s at %s:%d", rf.Function, rf.File, rf.Line)
}

// SplitTopLevelArguments splits an argument string on top-level commas,
// respecting single- and double-quoted strings and nesting over
// ()/{}/[]. A comma inside quotes or a bracket pair is not a split point.
func SplitTopLevelArguments(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}

	var out []string
	var cur strings.Builder
	depth := 0
	var quote rune

	for _, r := range args {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == '(' || r == '{' || r == '[':
			depth++
			cur.WriteRune(r)
		case r == ')' || r == '}' || r == ']':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case r == ',' && depth == 0:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	return out
}
