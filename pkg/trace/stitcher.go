package trace

import "strings"

// Stitcher drives a line stream through ParseLine/ParseBacktraceLine,
// maintains the unfinished-call table keyed by PID, and accumulates
// non-fatal parse errors. Entries are appended to the result slice
// immediately as they're parsed (not held back until the next line), which
// is the one deliberate divergence from the reference implementation's
// lazily-pushed "current entry" — see DESIGN.md.
type Stitcher struct {
	unfinished map[int]int
	Errors     []ParseError
	lineNumber int
}

// NewStitcher returns a ready-to-use Stitcher.
func NewStitcher() *Stitcher {
	return &Stitcher{unfinished: make(map[int]int)}
}

// Feed processes one line of input, mutating entries in place (appending,
// or merging a resumed call into its unfinished counterpart) and recording
// any parse error encountered.
func (s *Stitcher) Feed(line string, entries []Entry) []Entry {
	s.lineNumber++

	if strings.TrimSpace(line) == "" {
		return entries
	}

	if strings.HasPrefix(strings.TrimLeft(line, " \t"), ">") {
		if len(entries) == 0 {
			return entries
		}
		frame, perr := ParseBacktraceLine(line)
		if perr != nil {
			perr.Line = s.lineNumber
			s.Errors = append(s.Errors, *perr)
			return entries
		}
		last := &entries[len(entries)-1]
		last.Backtrace = append(last.Backtrace, *frame)
		return entries
	}

	entry, perr := ParseLine(line)
	if perr != nil {
		perr.Line = s.lineNumber
		s.Errors = append(s.Errors, *perr)
		return entries
	}

	switch {
	case entry.IsUnfinished:
		entries = append(entries, *entry)
		s.unfinished[entry.PID] = len(entries) - 1

	case entry.IsResumed:
		if idx, ok := s.unfinished[entry.PID]; ok {
			delete(s.unfinished, entry.PID)
			orig := &entries[idx]
			orig.ReturnValue = entry.ReturnValue
			orig.Errno = entry.Errno
			orig.Duration = entry.Duration
			orig.Arguments = orig.Arguments + entry.Arguments
			orig.IsUnfinished = false
			orig.IsResumed = false
			// The unfinished and resumed halves stitch into this one
			// surviving entry, so both cross-links point back at it.
			orig.UnfinishedEntryIdx = &idx
			orig.ResumedEntryIdx = &idx
		} else {
			s.Errors = append(s.Errors, ParseError{
				Line:    s.lineNumber,
				Kind:    ResumeWithoutUnfinished,
				Message: "resumed without unfinished",
			})
			entries = append(entries, *entry)
		}

	default:
		entries = append(entries, *entry)
	}

	return entries
}

// ParseLines drives the stitcher over a full slice of lines and returns the
// ordered entry list. Errors accumulated along the way are available via
// s.Errors afterwards.
func (s *Stitcher) ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = s.Feed(line, entries)
	}
	return entries
}
