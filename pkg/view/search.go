package view

import (
	"strings"

	lcutils "github.com/jesseduffield/lazycore/pkg/utils"
)

// recomputeMatches returns every index into texts whose text contains
// query case-insensitively. A blank query matches nothing.
func recomputeMatches(texts []string, query string) []int {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	var matches []int
	for i, t := range texts {
		if strings.Contains(strings.ToLower(t), needle) {
			matches = append(matches, i)
		}
	}
	return matches
}

// nearestMatchAtOrAfter returns the index into matches of the first
// match whose underlying line index is >= from, wrapping to the first
// match if none qualifies.
func nearestMatchAtOrAfter(matches []int, from int) int {
	for i, line := range matches {
		if line >= from {
			return i
		}
	}
	return 0
}

func (m *Model) lineTexts() []string {
	texts := make([]string, len(m.Lines))
	for i, l := range m.Lines {
		texts[i] = l.Render()
	}
	return texts
}

// startSearch begins an incremental search session from the current
// cursor/scroll, which cancelSearch restores exactly on Esc.
func (m *Model) startSearch() {
	m.Search = SearchState{Active: true, SavedLine: m.SelectedLine, SavedScroll: m.ScrollOffset}
}

// AppendSearchChar appends one character to the active search query and
// recomputes matches, as each keystroke does in an incremental search.
func (m *Model) AppendSearchChar(r rune) {
	if !m.Search.Active {
		return
	}
	m.Search.Query += string(r)
	m.recomputeSearch()
}

// BackspaceSearch removes the last character of the active query.
func (m *Model) BackspaceSearch() {
	if !m.Search.Active || m.Search.Query == "" {
		return
	}
	runes := []rune(m.Search.Query)
	m.Search.Query = string(runes[:len(runes)-1])
	m.recomputeSearch()
}

func (m *Model) recomputeSearch() {
	m.Search.Matches = recomputeMatches(m.lineTexts(), m.Search.Query)
	m.markSearchMatches()
	if len(m.Search.Matches) == 0 {
		m.Search.MatchIdx = 0
		return
	}
	m.Search.MatchIdx = nearestMatchAtOrAfter(m.Search.Matches, m.Search.SavedLine)
	m.jumpToMatch()
}

func (m *Model) jumpToMatch() {
	if len(m.Search.Matches) == 0 {
		return
	}
	line := m.Search.Matches[m.Search.MatchIdx]
	m.SelectedLine = line
	m.ensureVisible(line)
}

func (m *Model) markSearchMatches() {
	set := make(map[int]bool, len(m.Search.Matches))
	for _, i := range m.Search.Matches {
		set[i] = true
	}
	for i := range m.Lines {
		m.Lines[i].IsSearchMatch = set[i]
	}
}

func (m *Model) clearSearchMarks() {
	for i := range m.Lines {
		m.Lines[i].IsSearchMatch = false
	}
}

func (m *Model) acceptSearch() {
	m.Search.Active = false
}

// cancelSearch restores the pre-search cursor and scroll exactly (§8).
func (m *Model) cancelSearch() {
	savedLine, savedScroll := m.Search.SavedLine, m.Search.SavedScroll
	m.Search = SearchState{}
	m.clearSearchMarks()
	if len(m.Lines) == 0 {
		return
	}
	m.SelectedLine = lcutils.Clamp(savedLine, 0, len(m.Lines)-1)
	m.ScrollOffset = lcutils.Clamp(savedScroll, 0, maxScroll(len(m.Lines), m.LastVisibleHeight))
}

func (m *Model) stepSearch(direction int) {
	n := len(m.Search.Matches)
	if n == 0 {
		return
	}
	m.Search.MatchIdx = ((m.Search.MatchIdx+direction)%n + n) % n
	m.jumpToMatch()
}
