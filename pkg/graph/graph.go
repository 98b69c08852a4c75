// Package graph builds the left-gutter process lifeline display: which
// PIDs are alive at each event and how fork/wait relate them, drawn with
// lane reuse so the gutter stays narrow even with many short-lived PIDs.
package graph

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/straceview/stracetui/pkg/trace"
)

// Glyph is one cell of a lane glyph row.
type Glyph int

const (
	GlyphNone Glyph = iota
	GlyphStar
	GlyphVertical
	GlyphHorizontal
	GlyphForkDown // ┐
	GlyphJoinUp   // ┘
)

// String renders a Glyph as its display rune.
func (g Glyph) String() string {
	switch g {
	case GlyphStar:
		return "*"
	case GlyphVertical:
		return "│"
	case GlyphHorizontal:
		return "─"
	case GlyphForkDown:
		return "┐"
	case GlyphJoinUp:
		return "┘"
	default:
		return " "
	}
}

// ProcessInfo is one PID's lane assignment and lifetime.
type ProcessInfo struct {
	PID        int
	Lane       int
	ColorIndex int
	ParentPID  *int
	FirstIdx   int
	LastIdx    int
}

// Row is one event's glyph strip, one cell per lane in [0, MaxColumns).
type Row struct {
	Glyphs []Glyph
	Colors []int // palette index per cell; only meaningful where Glyphs[i] != GlyphNone
}

// Graph is the full process lifeline built from a parsed entry list.
type Graph struct {
	Processes  map[int]*ProcessInfo
	MaxColumns int
	Enabled    bool

	order      []int       // PIDs in first-seen order, for deterministic iteration
	forkChild  map[int]int // entry idx -> child pid, for entries that are a fork call
}

var forkSyscalls = map[string]bool{"fork": true, "vfork": true, "clone": true, "clone3": true}
var waitSyscalls = map[string]bool{"wait4": true, "waitid": true, "waitpid": true}

// Build runs the two-pass construction described for the process graph:
// a lifetime scan recording each PID's first/last appearance and any
// fork/wait relationships, then column assignment with lane reuse via a
// smallest-free-lane pool. paletteSize bounds the color index assigned
// to each PID (by insertion order, wrapping).
func Build(entries []trace.Entry, paletteSize int) *Graph {
	g := &Graph{
		Processes: make(map[int]*ProcessInfo),
		forkChild: make(map[int]int),
	}

	firstSeen := make(map[int]int)
	lastSeen := make(map[int]int)
	parentOf := make(map[int]int)
	var seenOrder []int

	see := func(pid, idx int) {
		if _, ok := firstSeen[pid]; !ok {
			firstSeen[pid] = idx
			seenOrder = append(seenOrder, pid)
		}
		if idx > lastSeen[pid] {
			lastSeen[pid] = idx
		}
	}

	for idx, entry := range entries {
		see(entry.PID, idx)

		if forkSyscalls[entry.SyscallName] {
			if child, ok := positiveInt(entry.ReturnValue); ok {
				g.forkChild[idx] = child
				parentOf[child] = entry.PID
				see(child, idx)
			}
		}

		if waitSyscalls[entry.SyscallName] {
			if target, ok := resolveWaitTarget(entry); ok {
				if _, known := firstSeen[target]; known {
					lastSeen[target] = idx
				}
			}
		}
	}

	g.order = seenOrder

	type laneEvent struct {
		at   int
		kind int // 0 = start, 1 = end
		pid  int
	}
	events := lo.FlatMap(seenOrder, func(pid int, _ int) []laneEvent {
		return []laneEvent{
			{at: firstSeen[pid], kind: 0, pid: pid},
			{at: lastSeen[pid] + 1, kind: 1, pid: pid},
		}
	})
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		// A lane freed at this tick is available to a lifetime starting
		// at the same tick (they don't overlap -- last_seen+1 == first_seen).
		return events[i].kind > events[j].kind
	})

	free := []int{}
	maxColumns := 0
	colorCounter := 0

	popFreeLane := func() int {
		if len(free) == 0 {
			lane := maxColumns
			maxColumns++
			return lane
		}
		sort.Ints(free)
		lane := free[0]
		free = free[1:]
		return lane
	}

	for _, ev := range events {
		switch ev.kind {
		case 0:
			lane := popFreeLane()
			info := &ProcessInfo{
				PID:        ev.pid,
				Lane:       lane,
				FirstIdx:   firstSeen[ev.pid],
				LastIdx:    lastSeen[ev.pid],
				ColorIndex: colorIndex(colorCounter, paletteSize),
			}
			if parent, ok := parentOf[ev.pid]; ok {
				p := parent
				info.ParentPID = &p
			}
			colorCounter++
			g.Processes[ev.pid] = info
		case 1:
			if info, ok := g.Processes[ev.pid]; ok {
				free = append(free, info.Lane)
			}
		}
	}

	g.MaxColumns = maxColumns
	g.Enabled = maxColumns > 1

	return g
}

func colorIndex(counter, paletteSize int) int {
	if paletteSize <= 0 {
		return 0
	}
	return counter % paletteSize
}

// positiveInt parses *s as a base-10 integer, succeeding only if it's
// present and strictly positive.
func positiveInt(s *string) (int, bool) {
	if s == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// resolveWaitTarget finds the PID a wait* call resolved to, preferring
// the return value and falling back to the first argument parsed as an
// integer.
func resolveWaitTarget(entry trace.Entry) (int, bool) {
	if pid, ok := positiveInt(entry.ReturnValue); ok {
		return pid, true
	}
	first := strings.TrimSpace(strings.SplitN(entry.Arguments, ",", 2)[0])
	n, err := strconv.Atoi(first)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (g *Graph) isAlive(info *ProcessInfo, idx int) bool {
	return info.FirstIdx <= idx && idx <= info.LastIdx
}

func (g *Graph) newRow() Row {
	glyphs := make([]Glyph, g.MaxColumns)
	colors := make([]int, g.MaxColumns)
	for i := range colors {
		colors[i] = -1
	}
	return Row{Glyphs: glyphs, Colors: colors}
}

// RowFor builds the glyph row for the event at entries[idx]. Returns an
// empty row if the graph isn't enabled (never more than one lane in use).
func (g *Graph) RowFor(idx int, entry trace.Entry) Row {
	if !g.Enabled {
		return Row{}
	}

	info, ok := g.Processes[entry.PID]
	if !ok {
		return g.newRow()
	}
	lp := info.Lane

	if childPID, isFork := g.forkChild[idx]; isFork {
		if childInfo, ok := g.Processes[childPID]; ok {
			return g.branchRow(idx, lp, childInfo.Lane, GlyphForkDown, info, childInfo)
		}
	}

	if waitSyscalls[entry.SyscallName] {
		if targetPID, ok := resolveWaitTarget(entry); ok {
			if targetInfo, ok2 := g.Processes[targetPID]; ok2 && targetInfo.Lane != lp {
				return g.branchRow(idx, lp, targetInfo.Lane, GlyphJoinUp, info, targetInfo)
			}
		}
	}

	row := g.newRow()
	for _, pid := range g.order {
		other := g.Processes[pid]
		if other.PID == entry.PID || !g.isAlive(other, idx) {
			continue
		}
		row.Glyphs[other.Lane] = GlyphVertical
		row.Colors[other.Lane] = other.ColorIndex
	}
	row.Glyphs[lp] = GlyphStar
	row.Colors[lp] = info.ColorIndex
	return row
}

func (g *Graph) branchRow(idx, lp, lOther int, endGlyph Glyph, pInfo, otherInfo *ProcessInfo) Row {
	row := g.newRow()

	for _, pid := range g.order {
		other := g.Processes[pid]
		if other.PID == pInfo.PID || other.PID == otherInfo.PID || !g.isAlive(other, idx) {
			continue
		}
		row.Glyphs[other.Lane] = GlyphVertical
		row.Colors[other.Lane] = other.ColorIndex
	}

	lo, hi := lp, lOther
	if lo > hi {
		lo, hi = hi, lo
	}
	for lane := lo + 1; lane < hi; lane++ {
		row.Glyphs[lane] = GlyphHorizontal
		row.Colors[lane] = colorOfOccupant(g, lane, idx)
	}

	row.Glyphs[lp] = GlyphStar
	row.Colors[lp] = pInfo.ColorIndex
	row.Glyphs[lOther] = endGlyph
	row.Colors[lOther] = otherInfo.ColorIndex

	return row
}

func colorOfOccupant(g *Graph, lane, idx int) int {
	for _, pid := range g.order {
		info := g.Processes[pid]
		if info.Lane == lane && g.isAlive(info, idx) {
			return info.ColorIndex
		}
	}
	return -1
}
