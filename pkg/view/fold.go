package view

import lcutils "github.com/jesseduffield/lazycore/pkg/utils"

// collapsedMemory remembers exactly what a collapse folded away and the
// cursor line it was collapsed from, so a later Right (ExpandDirectional)
// targeting the same subtree can restore that cursor line. No scroll
// position is stored; the expand keeps the scroll offset it finds.
type collapsedMemory struct {
	level    foldLevel
	entryIdx int
	position int
}

type foldLevel int

const (
	foldArguments foldLevel = iota
	foldBacktrace
	foldEntry
)

// expandEntry expands idx's whole-entry subtree.
func (m *Model) expandEntry(idx int) {
	if m.expandedEntry[idx] {
		return
	}
	savedScroll := m.ScrollOffset
	m.expandedEntry[idx] = true
	m.Rebuild()
	m.restoreOrPolicy(foldEntry, idx, savedScroll)
}

// collapseEntry collapses idx's whole-entry subtree, along with any
// expanded arguments/backtrace subtrees within it.
func (m *Model) collapseEntry(idx, cursorLine int) {
	if !m.expandedEntry[idx] {
		return
	}
	scroll := m.ScrollOffset
	m.lastCollapsed = &collapsedMemory{level: foldEntry, entryIdx: idx, position: cursorLine}
	m.expandedEntry[idx] = false
	m.expandedArguments[idx] = false
	m.expandedBacktrace[idx] = false
	m.Rebuild()
	m.ScrollOffset = lcutils.Clamp(scroll, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
}

func (m *Model) expandArguments(idx int) {
	if m.expandedArguments[idx] {
		return
	}
	savedScroll := m.ScrollOffset
	m.expandedArguments[idx] = true
	m.Rebuild()
	m.restoreOrPolicy(foldArguments, idx, savedScroll)
}

func (m *Model) collapseArguments(idx, cursorLine int) {
	if !m.expandedArguments[idx] {
		return
	}
	scroll := m.ScrollOffset
	m.lastCollapsed = &collapsedMemory{level: foldArguments, entryIdx: idx, position: cursorLine}
	m.expandedArguments[idx] = false
	m.Rebuild()
	m.ScrollOffset = lcutils.Clamp(scroll, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
}

// expandBacktrace expands idx's backtrace subtree, triggering on-demand
// resolution of every raw frame that hasn't been resolved yet (§4.4).
func (m *Model) expandBacktrace(idx int) {
	if m.expandedBacktrace[idx] {
		return
	}
	if m.Resolver != nil && idx >= 0 && idx < len(m.Entries) {
		m.Resolver.ResolveFrames(m.Entries[idx].Backtrace)
	}
	savedScroll := m.ScrollOffset
	m.expandedBacktrace[idx] = true
	m.Rebuild()
	m.restoreOrPolicy(foldBacktrace, idx, savedScroll)
}

func (m *Model) collapseBacktrace(idx, cursorLine int) {
	if !m.expandedBacktrace[idx] {
		return
	}
	scroll := m.ScrollOffset
	m.lastCollapsed = &collapsedMemory{level: foldBacktrace, entryIdx: idx, position: cursorLine}
	m.expandedBacktrace[idx] = false
	m.Rebuild()
	m.ScrollOffset = lcutils.Clamp(scroll, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
}

// restoreOrPolicy is called after an expand+rebuild. If the subtree just
// expanded is exactly what a prior collapse folded away, it restores the
// remembered cursor line and keeps the pre-expand scroll (clamped);
// otherwise it applies the normal
// post-expansion scroll policy.
func (m *Model) restoreOrPolicy(level foldLevel, idx, savedScroll int) {
	if mem := m.lastCollapsed; mem != nil && mem.level == level && mem.entryIdx == idx {
		m.clearFoldMemory()
		if mem.position < len(m.Lines) {
			m.SelectedLine = mem.position
		}
		m.ScrollOffset = lcutils.Clamp(savedScroll, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
		m.clampCursor()
		return
	}
	m.applyExpansionScrollPolicy(idx)
}

type foldTarget struct {
	level    foldLevel
	entryIdx int
}

// deepestFoldTarget finds the fold nearest the cursor, used by both
// directional collapse (Left) and directional expand (Right).
func (m *Model) deepestFoldTarget() (foldTarget, bool) {
	if len(m.Lines) == 0 {
		return foldTarget{}, false
	}
	line := m.Lines[m.SelectedLine]
	switch line.Kind {
	case KindArgumentLine:
		return foldTarget{foldArguments, line.EntryIdx}, true
	case KindBacktraceFrame, KindBacktraceResolved:
		return foldTarget{foldBacktrace, line.EntryIdx}, true
	case KindArgumentsHeader:
		if m.expandedArguments[line.EntryIdx] {
			return foldTarget{foldArguments, line.EntryIdx}, true
		}
		return foldTarget{foldEntry, line.EntryIdx}, true
	case KindBacktraceHeader:
		if m.expandedBacktrace[line.EntryIdx] {
			return foldTarget{foldBacktrace, line.EntryIdx}, true
		}
		return foldTarget{foldEntry, line.EntryIdx}, true
	default:
		return foldTarget{foldEntry, line.EntryIdx}, true
	}
}

// CollapseDirectional implements Left: collapse the fold nearest the
// cursor (§4.7).
func (m *Model) CollapseDirectional() {
	target, ok := m.deepestFoldTarget()
	if !ok {
		return
	}
	cursorLine := m.SelectedLine
	switch target.level {
	case foldArguments:
		m.collapseArguments(target.entryIdx, cursorLine)
	case foldBacktrace:
		m.collapseBacktrace(target.entryIdx, cursorLine)
	case foldEntry:
		m.collapseEntry(target.entryIdx, cursorLine)
	}
}

// ExpandDirectional implements Right: expand the current head if it's
// collapsed (§4.7). A pending fold-memory from the immediately preceding
// collapse takes priority -- navigating the cursor up/down/paging clears
// it, so by the time Right runs unobstructed it names exactly the fold
// that collapse just closed, letting Right restore the precise cursor
// line the collapse remembered rather than just its entry's header.
func (m *Model) ExpandDirectional() {
	if len(m.Lines) == 0 {
		return
	}

	if mem := m.lastCollapsed; mem != nil {
		switch mem.level {
		case foldArguments:
			if !m.expandedArguments[mem.entryIdx] {
				m.expandArguments(mem.entryIdx)
				return
			}
		case foldBacktrace:
			if !m.expandedBacktrace[mem.entryIdx] {
				m.expandBacktrace(mem.entryIdx)
				return
			}
		case foldEntry:
			if !m.expandedEntry[mem.entryIdx] {
				m.expandEntry(mem.entryIdx)
				return
			}
		}
	}

	line := m.Lines[m.SelectedLine]
	idx := line.EntryIdx

	switch line.Kind {
	case KindArgumentsHeader:
		if !m.expandedArguments[idx] {
			m.expandArguments(idx)
		}
	case KindBacktraceHeader:
		if !m.expandedBacktrace[idx] {
			m.expandBacktrace(idx)
		}
	default:
		if !m.expandedEntry[idx] {
			m.expandEntry(idx)
		}
	}
}

// ToggleFold implements Enter/Space: toggles the fold at the current
// line, keyed by its kind.
func (m *Model) ToggleFold() {
	if len(m.Lines) == 0 {
		return
	}
	line := m.Lines[m.SelectedLine]
	idx := line.EntryIdx
	cursorLine := m.SelectedLine

	switch line.Kind {
	case KindSyscallHeader:
		if m.expandedEntry[idx] {
			m.collapseEntry(idx, cursorLine)
		} else {
			m.expandEntry(idx)
		}
	case KindArgumentsHeader:
		if m.expandedArguments[idx] {
			m.collapseArguments(idx, cursorLine)
		} else {
			m.expandArguments(idx)
		}
	case KindBacktraceHeader:
		if m.expandedBacktrace[idx] {
			m.collapseBacktrace(idx, cursorLine)
		} else {
			m.expandBacktrace(idx)
		}
	case KindBacktraceResolved:
		m.openInEditor(idx, line.FrameIdx, line.ResolvedIdx)
	}
}

func (m *Model) openInEditor(entryIdx, frameIdx, resolvedIdx int) {
	if entryIdx < 0 || entryIdx >= len(m.Entries) {
		return
	}
	entry := m.Entries[entryIdx]
	if frameIdx < 0 || frameIdx >= len(entry.Backtrace) {
		return
	}
	frame := entry.Backtrace[frameIdx]
	if resolvedIdx < 0 || resolvedIdx >= len(frame.Resolved) {
		return
	}
	rf := frame.Resolved[resolvedIdx]
	m.PendingEditorOpen = &EditorRequest{Path: rf.File, Line: rf.Line, Column: rf.Column}
}

// ExpandAll expands every entry's whole-entry subtree (not arguments or
// backtrace), preserving the current entry and on-screen row.
func (m *Model) ExpandAll() {
	m.bulkFold(func(idx int) { m.expandedEntry[idx] = true })
}

// CollapseAll collapses every subtree, preserving the current entry and
// on-screen row.
func (m *Model) CollapseAll() {
	m.bulkFold(func(idx int) {
		m.expandedEntry[idx] = false
		m.expandedArguments[idx] = false
		m.expandedBacktrace[idx] = false
	})
}

func (m *Model) bulkFold(apply func(idx int)) {
	entryIdx, haveEntry := m.currentEntryIdx()
	row := m.SelectedLine - m.ScrollOffset

	for idx := range m.Entries {
		apply(idx)
	}
	m.clearFoldMemory()
	m.Rebuild()

	if !haveEntry {
		return
	}
	for i, l := range m.Lines {
		if l.EntryIdx == entryIdx {
			m.SelectedLine = i
			m.ScrollOffset = lcutils.Clamp(i-row, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
			break
		}
	}
	m.clampCursor()
}
