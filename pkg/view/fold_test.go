package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/straceview/stracetui/pkg/trace"
)

func argEntry() []trace.Entry {
	return []trace.Entry{
		{PID: 1, SyscallName: "read", Arguments: "3, 4", ReturnValue: strp("4")},
	}
}

func TestToggleFoldExpandsAndCollapsesSyscallHeader(t *testing.T) {
	m := NewModel(argEntry(), nil, nil)
	m.ToggleFold()
	require.True(t, m.expandedEntry[0])
	require.Len(t, m.Lines, 3) // header, arguments-header, return

	m.SelectedLine = 0
	m.ToggleFold()
	assert.False(t, m.expandedEntry[0])
	require.Len(t, m.Lines, 1)
}

func TestToggleFoldOnArgumentsHeaderOnlyTogglesArguments(t *testing.T) {
	m := NewModel(argEntry(), nil, nil)
	m.expandedEntry[0] = true
	m.Rebuild()
	m.SelectedLine = 1 // arguments header

	m.ToggleFold()
	require.True(t, m.expandedArguments[0])
	require.True(t, m.expandedEntry[0])
}

func TestCollapseDirectionalOnArgumentLineCollapsesOnlyArguments(t *testing.T) {
	m := NewModel(argEntry(), nil, nil)
	m.expandedEntry[0] = true
	m.expandedArguments[0] = true
	m.Rebuild()
	require.Len(t, m.Lines, 5) // header, args-header, arg0, arg1, return

	m.SelectedLine = 2 // an ArgumentLine
	m.CollapseDirectional()

	assert.False(t, m.expandedArguments[0])
	assert.True(t, m.expandedEntry[0])
	require.Len(t, m.Lines, 3) // header, args-header, return
}

func TestCollapseDirectionalOnEntryChildCollapsesWholeEntry(t *testing.T) {
	m := NewModel(argEntry(), nil, nil)
	m.expandedEntry[0] = true
	m.Rebuild()
	require.Len(t, m.Lines, 3)

	m.SelectedLine = 2 // ReturnValue line
	m.CollapseDirectional()

	assert.False(t, m.expandedEntry[0])
	require.Len(t, m.Lines, 1)
}

func TestExpandDirectionalRestoresExactCursorAfterCollapse(t *testing.T) {
	m := NewModel(argEntry(), nil, nil)
	m.expandedEntry[0] = true
	m.expandedArguments[0] = true
	m.Rebuild()
	require.Len(t, m.Lines, 5)

	m.SelectedLine = 3 // the second ArgumentLine
	m.CollapseDirectional()
	require.False(t, m.expandedArguments[0])
	require.Len(t, m.Lines, 3)

	// cursor landed somewhere sane post-collapse; move it elsewhere to
	// prove Right restores the remembered position, not just wherever
	// the cursor happens to be
	m.SelectedLine = 0

	m.ExpandDirectional()
	require.True(t, m.expandedArguments[0])
	require.Len(t, m.Lines, 5)
	assert.Equal(t, 3, m.SelectedLine)
}

func TestExpandDirectionalOnCollapsedSyscallHeaderExpandsEntry(t *testing.T) {
	m := NewModel(argEntry(), nil, nil)
	m.ExpandDirectional()
	assert.True(t, m.expandedEntry[0])
}

func TestExpandDirectionalNoOpWhenAlreadyExpanded(t *testing.T) {
	m := NewModel(argEntry(), nil, nil)
	m.expandedEntry[0] = true
	m.Rebuild()
	before := len(m.Lines)

	m.ExpandDirectional()
	assert.Equal(t, before, len(m.Lines))
}

func TestExpandAllPreservesCurrentEntryAndRow(t *testing.T) {
	entries := []trace.Entry{
		{PID: 1, SyscallName: "open", ReturnValue: strp("3")},
		{PID: 1, SyscallName: "read", Arguments: "3, 4", ReturnValue: strp("4")},
	}
	m := NewModel(entries, nil, nil)
	m.SelectedLine = 1 // "read" header
	m.ExpandAll()

	assert.True(t, m.expandedEntry[0])
	assert.True(t, m.expandedEntry[1])
	assert.Equal(t, 1, m.Lines[m.SelectedLine].EntryIdx)
}

func TestCollapseAllPreservesCurrentEntryAndRow(t *testing.T) {
	entries := []trace.Entry{
		{PID: 1, SyscallName: "open", ReturnValue: strp("3")},
		{PID: 1, SyscallName: "read", Arguments: "3, 4", ReturnValue: strp("4")},
	}
	m := NewModel(entries, nil, nil)
	m.ExpandAll()
	// cursor lands on entry 1's return-value line
	for i, l := range m.Lines {
		if l.EntryIdx == 1 && l.Kind == KindReturnValue {
			m.SelectedLine = i
		}
	}

	m.CollapseAll()
	require.Len(t, m.Lines, 2)
	assert.Equal(t, 1, m.Lines[m.SelectedLine].EntryIdx)
}
