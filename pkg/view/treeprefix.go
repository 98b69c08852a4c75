package view

import "strings"

// TreeElement is one column of a display line's tree-drawing prefix.
type TreeElement int

const (
	TreeNull TreeElement = iota
	TreeSpace
	TreeVertical
	TreeBranch
	TreeLastBranch
)

// TreePrefix is a fixed-capacity tree-drawing prefix, at most 4 levels
// deep. Unused trailing slots are TreeNull (the zero value), acting as a
// terminator: rendering stops at the first one.
type TreePrefix [4]TreeElement

func (p TreePrefix) depth() int {
	for i, e := range p {
		if e == TreeNull {
			return i
		}
	}
	return len(p)
}

// BuildTreePrefix derives a child's prefix from its parent's, appending a
// Branch (more siblings follow) or LastBranch (this is the last sibling)
// at the first free slot. Returns parent unchanged if already at capacity.
func BuildTreePrefix(parent TreePrefix, isLast bool) TreePrefix {
	out := parent
	idx := parent.depth()
	if idx >= len(out) {
		return out
	}
	if isLast {
		out[idx] = TreeLastBranch
	} else {
		out[idx] = TreeBranch
	}
	return out
}

// BuildNestedPrefix turns a parent's own prefix into the baseline prefix
// for that parent's children: the parent's branch glyph (its last
// occupied slot) becomes a Vertical (siblings still follow below the
// parent) or a Space (the parent was the last sibling at its level).
func BuildNestedPrefix(parent TreePrefix, parentIsLast bool) TreePrefix {
	out := parent
	idx := parent.depth() - 1
	if idx < 0 {
		return out
	}
	if parentIsLast {
		out[idx] = TreeSpace
	} else {
		out[idx] = TreeVertical
	}
	return out
}

func glyph(e TreeElement) string {
	switch e {
	case TreeSpace:
		return "   "
	case TreeVertical:
		return "│  "
	case TreeBranch:
		return "├─ "
	case TreeLastBranch:
		return "└─ "
	default:
		return ""
	}
}

func headerGlyph(e TreeElement) string {
	switch e {
	case TreeBranch:
		return "├"
	case TreeLastBranch:
		return "└"
	default:
		return glyph(e)
	}
}

// Render concatenates the 3-column glyph for each occupied slot. When
// forHeader is true, the last occupied slot is rendered without its
// trailing horizontal stroke so a disclosure arrow can be glued on.
func (p TreePrefix) Render(forHeader bool) string {
	depth := p.depth()
	if depth == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < depth; i++ {
		if forHeader && i == depth-1 {
			b.WriteString(headerGlyph(p[i]))
		} else {
			b.WriteString(glyph(p[i]))
		}
	}
	return b.String()
}
