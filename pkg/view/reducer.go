package view

import lcutils "github.com/jesseduffield/lazycore/pkg/utils"

// Action is a semantic input action, decoupled from whatever key bound
// to it. The host (pkg/tui) translates physical keys to these, applying
// the modal-precedence rule (search > filter modal > help > main) before
// ever calling Dispatch.
type Action int

const (
	ActLineUp Action = iota
	ActLineDown
	ActPageUp
	ActPageDown
	ActHalfPageUp
	ActHalfPageDown
	ActJumpTop
	ActJumpBottom
	ActToggleFold
	ActCollapseDirectional
	ActExpandDirectional
	ActExpandAll
	ActCollapseAll
	ActToggleHiddenCurrent
	ActOpenFilterModal
	ActToggleGhost
	ActSearchStart
	ActSearchAccept
	ActSearchCancel
	ActSearchNext
	ActSearchPrev
	ActQuit
	ActToggleHelp
)

// Dispatch applies a main-view action. Callers are responsible for modal
// precedence: Dispatch assumes no search/filter-modal/help overlay is
// active (those are handled by SearchInput/FilterModal's own methods and
// HelpOpen respectively).
func (m *Model) Dispatch(a Action) {
	switch a {
	case ActLineUp:
		m.moveSelection(-1)
	case ActLineDown:
		m.moveSelection(1)
	case ActPageUp:
		m.moveSelection(-m.pageSize())
	case ActPageDown:
		m.moveSelection(m.pageSize())
	case ActHalfPageUp:
		m.moveSelection(-m.pageSize() / 2)
	case ActHalfPageDown:
		m.moveSelection(m.pageSize() / 2)
	case ActJumpTop:
		m.jumpTo(0)
	case ActJumpBottom:
		m.jumpTo(len(m.Lines) - 1)
	case ActToggleFold:
		m.ToggleFold()
	case ActCollapseDirectional:
		m.CollapseDirectional()
	case ActExpandDirectional:
		m.ExpandDirectional()
	case ActExpandAll:
		m.ExpandAll()
	case ActCollapseAll:
		m.CollapseAll()
	case ActToggleHiddenCurrent:
		m.toggleHiddenCurrent()
	case ActOpenFilterModal:
		m.OpenFilterModal()
	case ActToggleGhost:
		m.Filter.ShowHidden = !m.Filter.ShowHidden
		m.Rebuild()
	case ActSearchStart:
		m.startSearch()
	case ActSearchAccept:
		m.acceptSearch()
	case ActSearchCancel:
		m.cancelSearch()
	case ActSearchNext:
		m.stepSearch(1)
	case ActSearchPrev:
		m.stepSearch(-1)
	case ActQuit:
		m.Quit = true
	case ActToggleHelp:
		m.HelpOpen = !m.HelpOpen
	}
}

func (m *Model) pageSize() int {
	if m.LastVisibleHeight <= 0 {
		return 1
	}
	return m.LastVisibleHeight
}

func (m *Model) moveSelection(delta int) {
	if len(m.Lines) == 0 {
		return
	}
	m.clearFoldMemory()
	m.SelectedLine = lcutils.Clamp(m.SelectedLine+delta, 0, len(m.Lines)-1)
	m.ensureVisible(m.SelectedLine)
}

func (m *Model) jumpTo(line int) {
	if len(m.Lines) == 0 {
		return
	}
	m.clearFoldMemory()
	m.SelectedLine = lcutils.Clamp(line, 0, len(m.Lines)-1)
	m.ensureVisible(m.SelectedLine)
}

func (m *Model) toggleHiddenCurrent() {
	entryIdx, ok := m.currentEntryIdx()
	if !ok {
		return
	}
	name := m.Entries[entryIdx].SyscallName
	m.Filter.Hidden[name] = !m.Filter.Hidden[name]
	m.Rebuild()
}
