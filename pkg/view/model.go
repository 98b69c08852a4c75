// Package view owns the in-memory view model: the expanded/collapsed
// entry tree, cursor and scroll state, the syscall filter, and the two
// independent incremental-search states (main view and filter modal). It
// flattens that state into a linear DisplayLine sequence for the renderer
// and exposes a reducer that turns semantic input actions into state
// transitions, entirely independent of any terminal library.
package view

import (
	lcutils "github.com/jesseduffield/lazycore/pkg/utils"

	"github.com/straceview/stracetui/pkg/graph"
	"github.com/straceview/stracetui/pkg/resolver"
	"github.com/straceview/stracetui/pkg/trace"
)

// EditorRequest is a one-shot "jump to source" request. The host consumes
// it after each frame (§5).
type EditorRequest struct {
	Path   string
	Line   uint32
	Column *uint32
}

// FilterState is the main view's syscall visibility filter.
type FilterState struct {
	Hidden     map[string]bool
	ShowHidden bool
}

// SearchState is one incremental search session, shared in shape by the
// main view and the filter modal (each owns its own instance).
type SearchState struct {
	Active      bool
	Query       string
	Matches     []int
	MatchIdx    int
	SavedLine   int
	SavedScroll int
}

// Model is the full view state for the main scrolling list.
type Model struct {
	Entries  []trace.Entry
	Resolver *resolver.Resolver
	Graph    *graph.Graph

	expandedEntry     map[int]bool
	expandedArguments map[int]bool
	expandedBacktrace map[int]bool

	SelectedLine      int
	ScrollOffset      int
	LastVisibleHeight int

	lastCollapsed *collapsedMemory

	Filter FilterState
	Search SearchState

	HelpOpen    bool
	FilterModal *FilterModalState

	Lines []DisplayLine

	PendingEditorOpen *EditorRequest

	Quit bool
}

// NewModel builds a ready-to-use Model over a parsed entry sequence.
func NewModel(entries []trace.Entry, res *resolver.Resolver, g *graph.Graph) *Model {
	m := &Model{
		Entries:           entries,
		Resolver:          res,
		Graph:             g,
		expandedEntry:     make(map[int]bool),
		expandedArguments: make(map[int]bool),
		expandedBacktrace: make(map[int]bool),
		Filter:            FilterState{Hidden: make(map[string]bool)},
	}
	m.Rebuild()
	return m
}

func maxScroll(total, visible int) int {
	m := total - visible
	if m < 0 {
		return 0
	}
	return m
}

// Rebuild recomputes Lines, preserving the cursor's logical position
// (the entry under it) and its on-screen row when possible.
func (m *Model) Rebuild() {
	haveRemembered := len(m.Lines) > 0 && m.SelectedLine < len(m.Lines)
	var rememberedEntryIdx, rememberedRow int
	if haveRemembered {
		rememberedEntryIdx = m.Lines[m.SelectedLine].EntryIdx
		rememberedRow = m.SelectedLine - m.ScrollOffset
	}

	m.Lines = m.buildLines()

	if len(m.Lines) == 0 {
		m.SelectedLine = 0
		m.ScrollOffset = 0
		return
	}

	if !haveRemembered {
		m.clampCursor()
		return
	}

	newSelected := len(m.Lines) - 1
	for i, l := range m.Lines {
		if l.EntryIdx >= rememberedEntryIdx {
			newSelected = i
			break
		}
	}
	m.SelectedLine = newSelected
	m.ScrollOffset = lcutils.Clamp(newSelected-rememberedRow, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if len(m.Lines) == 0 {
		m.SelectedLine = 0
		m.ScrollOffset = 0
		return
	}
	m.SelectedLine = lcutils.Clamp(m.SelectedLine, 0, len(m.Lines)-1)
	m.ScrollOffset = lcutils.Clamp(m.ScrollOffset, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
}

// ensureVisible scrolls the minimum amount necessary to bring line into
// view, matching the main view's line-by-line navigation policy (no
// scrolling beyond what's required).
func (m *Model) ensureVisible(line int) {
	if m.LastVisibleHeight <= 0 {
		return
	}
	if line < m.ScrollOffset {
		m.ScrollOffset = line
	}
	bottom := m.ScrollOffset + m.LastVisibleHeight - 1
	if line > bottom {
		m.ScrollOffset = line - m.LastVisibleHeight + 1
	}
	m.ScrollOffset = lcutils.Clamp(m.ScrollOffset, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
}

func (m *Model) currentEntryIdx() (int, bool) {
	if len(m.Lines) == 0 {
		return 0, false
	}
	return m.Lines[m.SelectedLine].EntryIdx, true
}

func (m *Model) clearFoldMemory() {
	m.lastCollapsed = nil
}

func (m *Model) entryLineRange(entryIdx int) (first, last int, ok bool) {
	first = -1
	for i, l := range m.Lines {
		if l.EntryIdx == entryIdx {
			if first == -1 {
				first = i
			}
			last = i
		} else if first != -1 {
			break
		}
	}
	if first == -1 {
		return 0, 0, false
	}
	return first, last, true
}

// applyExpansionScrollPolicy implements the post-expansion scroll rule
// (§4.7): show the entry's last line with a 2-row tail gap, but never let
// its header rise above row 2 from the top, and never scroll past
// max_scroll.
func (m *Model) applyExpansionScrollPolicy(entryIdx int) {
	if m.LastVisibleHeight <= 0 {
		return
	}
	first, last, ok := m.entryLineRange(entryIdx)
	if !ok {
		return
	}
	max := maxScroll(len(m.Lines), m.LastVisibleHeight)

	if last > m.ScrollOffset+m.LastVisibleHeight-1-2 {
		m.ScrollOffset = last - m.LastVisibleHeight + 1 + 2
	}
	if first-m.ScrollOffset < 2 {
		m.ScrollOffset = first - 2
	}
	m.ScrollOffset = lcutils.Clamp(m.ScrollOffset, 0, max)
}
