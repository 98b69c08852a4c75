package view

import "testing"

import "github.com/stretchr/testify/assert"

func TestTreePrefixRootRendersEmpty(t *testing.T) {
	var p TreePrefix
	assert.Equal(t, "", p.Render(false))
	assert.Equal(t, "", p.Render(true))
}

func TestBuildTreePrefixAppendsBranch(t *testing.T) {
	var root TreePrefix
	p := BuildTreePrefix(root, false)
	assert.Equal(t, "├─ ", p.Render(false))
	assert.Equal(t, "├", p.Render(true))
}

func TestBuildTreePrefixAppendsLastBranch(t *testing.T) {
	var root TreePrefix
	p := BuildTreePrefix(root, true)
	assert.Equal(t, "└─ ", p.Render(false))
	assert.Equal(t, "└", p.Render(true))
}

func TestBuildNestedPrefixFromNonLastParent(t *testing.T) {
	parent := BuildTreePrefix(TreePrefix{}, false) // "├─ "
	nested := BuildNestedPrefix(parent, false)
	child := BuildTreePrefix(nested, true)
	assert.Equal(t, "│  └─ ", child.Render(false))
	assert.Equal(t, "│  └", child.Render(true))
}

func TestBuildNestedPrefixFromLastParent(t *testing.T) {
	parent := BuildTreePrefix(TreePrefix{}, true) // "└─ "
	nested := BuildNestedPrefix(parent, true)
	child := BuildTreePrefix(nested, false)
	assert.Equal(t, "   ├─ ", child.Render(false))
}

func TestTreePrefixCapsAtFourLevels(t *testing.T) {
	p := TreePrefix{}
	p = BuildTreePrefix(p, false)
	p = BuildTreePrefix(BuildNestedPrefix(p, false), false)
	p = BuildTreePrefix(BuildNestedPrefix(p, false), false)
	p = BuildTreePrefix(BuildNestedPrefix(p, false), false)
	// all four slots now occupied; one more append is a silent no-op
	before := p
	after := BuildTreePrefix(BuildNestedPrefix(p, false), false)
	assert.Equal(t, before.depth(), after.depth())
}
