// Package jsonout implements the §6 JSON round-trip format: one object with
// "entries", "summary", and "errors" keys, snake_case throughout, following
// the same shape-then-convert idiom as Alain-L-quellog/output/json.go.
package jsonout

import (
	"encoding/json"

	"github.com/straceview/stracetui/pkg/trace"
)

// Document is the top-level §6 JSON object.
type Document struct {
	Entries []EntryJSON      `json:"entries"`
	Summary SummaryJSON      `json:"summary"`
	Errors  []ParseErrorJSON `json:"errors"`
}

type EntryJSON struct {
	PID                int            `json:"pid"`
	Timestamp          string         `json:"timestamp"`
	SyscallName        string         `json:"syscall_name"`
	Arguments          string         `json:"arguments"`
	ReturnValue        *string        `json:"return_value,omitempty"`
	Errno              *ErrnoJSON     `json:"errno,omitempty"`
	Duration           *float64       `json:"duration,omitempty"`
	Backtrace          []FrameJSON    `json:"backtrace"`
	IsUnfinished       bool           `json:"is_unfinished"`
	IsResumed          bool           `json:"is_resumed"`
	Signal             *SignalJSON    `json:"signal,omitempty"`
	ExitInfo           *ExitInfoJSON  `json:"exit_info,omitempty"`
	UnfinishedEntryIdx *int           `json:"unfinished_entry_idx,omitempty"`
	ResumedEntryIdx    *int           `json:"resumed_entry_idx,omitempty"`
}

type ErrnoJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FrameJSON struct {
	Binary   string              `json:"binary"`
	Function *string             `json:"function,omitempty"`
	Offset   *string             `json:"offset,omitempty"`
	Address  string              `json:"address"`
	Resolved []ResolvedFrameJSON `json:"resolved"`
}

type ResolvedFrameJSON struct {
	Function  string  `json:"function"`
	File      string  `json:"file"`
	Line      uint32  `json:"line"`
	Column    *uint32 `json:"column,omitempty"`
	IsInlined bool    `json:"is_inlined"`
}

type SignalJSON struct {
	SignalName string `json:"signal_name"`
	Details    string `json:"details"`
}

type ExitInfoJSON struct {
	Code   int  `json:"code"`
	Killed bool `json:"killed"`
}

type SummaryJSON struct {
	TotalSyscalls  int      `json:"total_syscalls"`
	FailedSyscalls int      `json:"failed_syscalls"`
	Signals        int      `json:"signals"`
	UniquePIDs     []int    `json:"unique_pids"`
	TotalDuration  *float64 `json:"total_duration"`
}

type ParseErrorJSON struct {
	LineNumber int    `json:"line_number"`
	Message    string `json:"message"`
}

// Build assembles a Document from a stitched entry list, its summary, and
// the accumulated non-fatal parse errors (§7's "recorded alongside the
// results" policy -- every error survives into the output, never just a
// count).
func Build(entries []trace.Entry, summary trace.SummaryStats, errs []trace.ParseError) Document {
	doc := Document{
		Entries: make([]EntryJSON, len(entries)),
		Summary: SummaryJSON{
			TotalSyscalls:  summary.TotalSyscalls,
			FailedSyscalls: summary.FailedSyscalls,
			Signals:        summary.Signals,
			UniquePIDs:     summary.UniquePIDs,
			TotalDuration:  summary.TotalDuration,
		},
		Errors: make([]ParseErrorJSON, len(errs)),
	}
	for i, e := range entries {
		doc.Entries[i] = convertEntry(e)
	}
	for i, e := range errs {
		doc.Errors[i] = ParseErrorJSON{LineNumber: e.Line, Message: e.Message}
	}
	if doc.Entries == nil {
		doc.Entries = []EntryJSON{}
	}
	if doc.Summary.UniquePIDs == nil {
		doc.Summary.UniquePIDs = []int{}
	}
	if doc.Errors == nil {
		doc.Errors = []ParseErrorJSON{}
	}
	return doc
}

func convertEntry(e trace.Entry) EntryJSON {
	out := EntryJSON{
		PID:                e.PID,
		Timestamp:          e.Timestamp,
		SyscallName:        e.SyscallName,
		Arguments:          e.Arguments,
		ReturnValue:        e.ReturnValue,
		Duration:           e.Duration,
		Backtrace:          make([]FrameJSON, len(e.Backtrace)),
		IsUnfinished:       e.IsUnfinished,
		IsResumed:          e.IsResumed,
		UnfinishedEntryIdx: e.UnfinishedEntryIdx,
		ResumedEntryIdx:    e.ResumedEntryIdx,
	}
	if e.Errno != nil {
		out.Errno = &ErrnoJSON{Code: e.Errno.Code, Message: e.Errno.Message}
	}
	if e.Signal != nil {
		out.Signal = &SignalJSON{SignalName: e.Signal.SignalName, Details: e.Signal.Details}
	}
	if e.ExitInfo != nil {
		out.ExitInfo = &ExitInfoJSON{Code: e.ExitInfo.Code, Killed: e.ExitInfo.Killed}
	}
	for i, f := range e.Backtrace {
		out.Backtrace[i] = convertFrame(f)
	}
	if out.Backtrace == nil {
		out.Backtrace = []FrameJSON{}
	}
	return out
}

func convertFrame(f trace.Frame) FrameJSON {
	out := FrameJSON{
		Binary:   f.Binary,
		Function: f.Function,
		Offset:   f.Offset,
		Address:  f.Address,
	}
	if f.Resolved != nil {
		out.Resolved = make([]ResolvedFrameJSON, len(f.Resolved))
		for i, rf := range f.Resolved {
			out.Resolved[i] = ResolvedFrameJSON{
				Function:  rf.Function,
				File:      rf.File,
				Line:      rf.Line,
				Column:    rf.Column,
				IsInlined: rf.IsInlined,
			}
		}
	}
	return out
}

// Marshal renders entries/summary/errs as the §6 JSON document, pretty when
// requested.
func Marshal(entries []trace.Entry, summary trace.SummaryStats, errs []trace.ParseError, pretty bool) ([]byte, error) {
	doc := Build(entries, summary, errs)
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// Unmarshal parses a §6 JSON document back into its entry/summary/error
// parts, for round-trip tests (§8: parse∘emit∘parse is idempotent).
func Unmarshal(data []byte) ([]trace.Entry, trace.SummaryStats, []trace.ParseError, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, trace.SummaryStats{}, nil, err
	}

	entries := make([]trace.Entry, len(doc.Entries))
	for i, ej := range doc.Entries {
		entries[i] = convertEntryBack(ej)
	}

	summary := trace.SummaryStats{
		TotalSyscalls:  doc.Summary.TotalSyscalls,
		FailedSyscalls: doc.Summary.FailedSyscalls,
		Signals:        doc.Summary.Signals,
		UniquePIDs:     doc.Summary.UniquePIDs,
		TotalDuration:  doc.Summary.TotalDuration,
	}

	errs := make([]trace.ParseError, len(doc.Errors))
	for i, ej := range doc.Errors {
		errs[i] = trace.ParseError{Line: ej.LineNumber, Message: ej.Message}
	}

	return entries, summary, errs, nil
}

func convertEntryBack(ej EntryJSON) trace.Entry {
	e := trace.Entry{
		PID:                ej.PID,
		Timestamp:          ej.Timestamp,
		SyscallName:        ej.SyscallName,
		Arguments:          ej.Arguments,
		ReturnValue:        ej.ReturnValue,
		Duration:           ej.Duration,
		Backtrace:          make([]trace.Frame, len(ej.Backtrace)),
		IsUnfinished:       ej.IsUnfinished,
		IsResumed:          ej.IsResumed,
		UnfinishedEntryIdx: ej.UnfinishedEntryIdx,
		ResumedEntryIdx:    ej.ResumedEntryIdx,
	}
	if len(ej.Backtrace) == 0 {
		e.Backtrace = nil
	}
	if ej.Errno != nil {
		e.Errno = &trace.Errno{Code: ej.Errno.Code, Message: ej.Errno.Message}
	}
	if ej.Signal != nil {
		e.Signal = &trace.SignalInfo{SignalName: ej.Signal.SignalName, Details: ej.Signal.Details}
	}
	if ej.ExitInfo != nil {
		e.ExitInfo = &trace.ExitInfo{Code: ej.ExitInfo.Code, Killed: ej.ExitInfo.Killed}
	}
	for i, fj := range ej.Backtrace {
		e.Backtrace[i] = convertFrameBack(fj)
	}
	return e
}

func convertFrameBack(fj FrameJSON) trace.Frame {
	f := trace.Frame{
		Binary:   fj.Binary,
		Function: fj.Function,
		Offset:   fj.Offset,
		Address:  fj.Address,
	}
	if fj.Resolved != nil {
		f.Resolved = make([]trace.ResolvedFrame, len(fj.Resolved))
		for i, rj := range fj.Resolved {
			f.Resolved[i] = trace.ResolvedFrame{
				Function:  rj.Function,
				File:      rj.File,
				Line:      rj.Line,
				Column:    rj.Column,
				IsInlined: rj.IsInlined,
			}
		}
	}
	return f
}
