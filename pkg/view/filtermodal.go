package view

import (
	"sort"

	"github.com/samber/lo"

	lcutils "github.com/jesseduffield/lazycore/pkg/utils"
)

// SyscallRow is one row of the filter modal's syscall tally.
type SyscallRow struct {
	Name   string
	Count  int
	Hidden bool
}

// FilterModalState is the filter modal's own list/search state,
// independent of the main view's (§4.8).
type FilterModalState struct {
	Rows          []SyscallRow
	SelectedRow   int
	ScrollOffset  int
	VisibleHeight int
	Search        SearchState
}

// OpenFilterModal builds the syscall tally (sorted ascending by name,
// each with its occurrence count and current hidden state) and opens the
// modal. Visible height for paging is 70% of the outer visible height,
// minus two for borders.
func (m *Model) OpenFilterModal() {
	counts := make(map[string]int)
	for _, e := range m.Entries {
		counts[e.SyscallName]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := lo.Map(names, func(name string, _ int) SyscallRow {
		return SyscallRow{Name: name, Count: counts[name], Hidden: m.Filter.Hidden[name]}
	})

	visible := int(float64(m.LastVisibleHeight)*0.7) - 2
	if visible < 1 {
		visible = 1
	}

	m.FilterModal = &FilterModalState{Rows: rows, VisibleHeight: visible}
}

// CloseFilterModal applies the modal's hidden-state edits back onto the
// main filter and rebuilds the display-line list.
func (m *Model) CloseFilterModal() {
	if m.FilterModal == nil {
		return
	}
	for _, row := range m.FilterModal.Rows {
		if row.Hidden {
			m.Filter.Hidden[row.Name] = true
		} else {
			delete(m.Filter.Hidden, row.Name)
		}
	}
	m.FilterModal = nil
	m.Rebuild()
}

func (fm *FilterModalState) pageSize() int {
	if fm.VisibleHeight <= 0 {
		return 1
	}
	return fm.VisibleHeight
}

// MoveSelection moves the modal cursor by delta, mirroring the main
// view's navigation (j/k/arrows, page, half-page, home/end all funnel
// through this with the appropriate delta).
func (fm *FilterModalState) MoveSelection(delta int) {
	if len(fm.Rows) == 0 {
		return
	}
	fm.SelectedRow = lcutils.Clamp(fm.SelectedRow+delta, 0, len(fm.Rows)-1)
	fm.ensureVisible(fm.SelectedRow)
}

func (fm *FilterModalState) JumpTo(row int) {
	if len(fm.Rows) == 0 {
		return
	}
	fm.SelectedRow = lcutils.Clamp(row, 0, len(fm.Rows)-1)
	fm.ensureVisible(fm.SelectedRow)
}

func (fm *FilterModalState) ensureVisible(row int) {
	if fm.VisibleHeight <= 0 {
		return
	}
	if row < fm.ScrollOffset {
		fm.ScrollOffset = row
	}
	bottom := fm.ScrollOffset + fm.VisibleHeight - 1
	if row > bottom {
		fm.ScrollOffset = row - fm.VisibleHeight + 1
	}
	fm.ScrollOffset = lcutils.Clamp(fm.ScrollOffset, 0, maxScroll(len(fm.Rows), fm.VisibleHeight))
}

// ToggleSelected toggles the hidden state of the row under the cursor.
func (fm *FilterModalState) ToggleSelected() {
	if len(fm.Rows) == 0 {
		return
	}
	fm.Rows[fm.SelectedRow].Hidden = !fm.Rows[fm.SelectedRow].Hidden
}

// ToggleAll hides every syscall if none are currently hidden, otherwise
// clears every hidden flag.
func (fm *FilterModalState) ToggleAll() {
	anyHidden := false
	for _, row := range fm.Rows {
		if row.Hidden {
			anyHidden = true
			break
		}
	}
	for i := range fm.Rows {
		fm.Rows[i].Hidden = !anyHidden
	}
}

func (fm *FilterModalState) rowTexts() []string {
	texts := make([]string, len(fm.Rows))
	for i, row := range fm.Rows {
		texts[i] = row.Name
	}
	return texts
}

// StartSearch begins the modal-local incremental search.
func (fm *FilterModalState) StartSearch() {
	fm.Search = SearchState{Active: true, SavedLine: fm.SelectedRow, SavedScroll: fm.ScrollOffset}
}

func (fm *FilterModalState) AppendSearchChar(r rune) {
	if !fm.Search.Active {
		return
	}
	fm.Search.Query += string(r)
	fm.recomputeSearch()
}

func (fm *FilterModalState) BackspaceSearch() {
	if !fm.Search.Active || fm.Search.Query == "" {
		return
	}
	runes := []rune(fm.Search.Query)
	fm.Search.Query = string(runes[:len(runes)-1])
	fm.recomputeSearch()
}

func (fm *FilterModalState) recomputeSearch() {
	fm.Search.Matches = recomputeMatches(fm.rowTexts(), fm.Search.Query)
	if len(fm.Search.Matches) == 0 {
		fm.Search.MatchIdx = 0
		return
	}
	fm.Search.MatchIdx = nearestMatchAtOrAfter(fm.Search.Matches, fm.Search.SavedLine)
	fm.jumpToMatch()
}

func (fm *FilterModalState) jumpToMatch() {
	if len(fm.Search.Matches) == 0 {
		return
	}
	row := fm.Search.Matches[fm.Search.MatchIdx]
	fm.SelectedRow = row
	fm.ensureVisible(row)
}

func (fm *FilterModalState) StepSearch(direction int) {
	n := len(fm.Search.Matches)
	if n == 0 {
		return
	}
	fm.Search.MatchIdx = ((fm.Search.MatchIdx+direction)%n + n) % n
	fm.jumpToMatch()
}

func (fm *FilterModalState) AcceptSearch() {
	fm.Search.Active = false
}

func (fm *FilterModalState) CancelSearch() {
	savedRow, savedScroll := fm.Search.SavedLine, fm.Search.SavedScroll
	fm.Search = SearchState{}
	if len(fm.Rows) == 0 {
		return
	}
	fm.SelectedRow = lcutils.Clamp(savedRow, 0, len(fm.Rows)-1)
	fm.ScrollOffset = lcutils.Clamp(savedScroll, 0, maxScroll(len(fm.Rows), fm.VisibleHeight))
}
