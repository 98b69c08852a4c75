package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/straceview/stracetui/pkg/trace"
)

func ptr(s string) *string { return &s }

func forkWaitEntries() []trace.Entry {
	return []trace.Entry{
		{PID: 24982, SyscallName: "clone", ReturnValue: ptr("24983")},
		{PID: 24983, SyscallName: "execve", ReturnValue: ptr("0")},
		{PID: 24983, SyscallName: "exit", ExitInfo: &trace.ExitInfo{Code: 0}},
		{PID: 24982, SyscallName: "wait4", Arguments: "-1", ReturnValue: ptr("24983")},
	}
}

func glyphStrings(row Row) []string {
	out := make([]string, len(row.Glyphs))
	for i, g := range row.Glyphs {
		out[i] = g.String()
	}
	return out
}

func TestGraphForkWaitScenario(t *testing.T) {
	entries := forkWaitEntries()
	g := Build(entries, 6)

	assert.Equal(t, 2, g.MaxColumns)
	assert.True(t, g.Enabled)

	require.Contains(t, g.Processes, 24982)
	require.Contains(t, g.Processes, 24983)
	assert.Equal(t, 0, g.Processes[24982].Lane)
	assert.Equal(t, 1, g.Processes[24983].Lane)
	require.NotNil(t, g.Processes[24983].ParentPID)
	assert.Equal(t, 24982, *g.Processes[24983].ParentPID)

	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = g.RowFor(i, e)
	}

	assert.Equal(t, []string{"*", "┐"}, glyphStrings(rows[0]))
	assert.Equal(t, []string{"│", "*"}, glyphStrings(rows[1]))
	assert.Equal(t, []string{"│", "*"}, glyphStrings(rows[2]))
	assert.Equal(t, []string{"*", "┘"}, glyphStrings(rows[3]))
}

func TestGraphSinglePIDIsDisabled(t *testing.T) {
	entries := []trace.Entry{
		{PID: 100, SyscallName: "brk"},
		{PID: 100, SyscallName: "brk"},
	}
	g := Build(entries, 6)
	assert.False(t, g.Enabled)
	assert.Equal(t, 1, g.MaxColumns)
}

func TestGraphLaneReuseAfterLifetimeEnds(t *testing.T) {
	// pid 1 lives [0,0], pid 2 lives [1,1], pid 3 lives [2,2]: none
	// overlap, so lane 0 should be reused by all three.
	entries := []trace.Entry{
		{PID: 1, SyscallName: "brk"},
		{PID: 2, SyscallName: "brk"},
		{PID: 3, SyscallName: "brk"},
	}
	g := Build(entries, 6)
	assert.Equal(t, 1, g.MaxColumns)
	assert.Equal(t, 0, g.Processes[1].Lane)
	assert.Equal(t, 0, g.Processes[2].Lane)
	assert.Equal(t, 0, g.Processes[3].Lane)
}

func TestGraphOverlappingPIDsGetDistinctLanes(t *testing.T) {
	entries := []trace.Entry{
		{PID: 1, SyscallName: "brk"},
		{PID: 2, SyscallName: "brk"},
		{PID: 1, SyscallName: "brk"},
		{PID: 2, SyscallName: "brk"},
	}
	g := Build(entries, 6)
	assert.NotEqual(t, g.Processes[1].Lane, g.Processes[2].Lane)
	assert.Equal(t, 2, g.MaxColumns)
}

func TestGraphSmallestFreeLanePolicy(t *testing.T) {
	// 1 and 2 overlap (1 reappears at idx2, after 2 has already
	// started): lanes 0,1. 2's lane frees at idx2, 1's at idx3 -- both
	// free by the time 3 starts at idx3, and 3 must take the smaller
	// one, 0, not the earlier-freed 1.
	entries := []trace.Entry{
		{PID: 1, SyscallName: "brk"},
		{PID: 2, SyscallName: "brk"},
		{PID: 1, SyscallName: "brk"},
		{PID: 3, SyscallName: "brk"},
	}
	g := Build(entries, 6)
	assert.Equal(t, 2, g.MaxColumns)
	assert.Equal(t, 0, g.Processes[1].Lane)
	assert.Equal(t, 1, g.Processes[2].Lane)
	assert.Equal(t, 0, g.Processes[3].Lane)
}

func TestGraphColorAssignedByInsertionOrderModuloPalette(t *testing.T) {
	entries := []trace.Entry{
		{PID: 1, SyscallName: "brk"},
		{PID: 2, SyscallName: "brk"},
		{PID: 3, SyscallName: "brk"},
	}
	g := Build(entries, 2)
	assert.Equal(t, 0, g.Processes[1].ColorIndex)
	assert.Equal(t, 1, g.Processes[2].ColorIndex)
	assert.Equal(t, 0, g.Processes[3].ColorIndex)
}

func TestResolveWaitTargetFallsBackToFirstArgument(t *testing.T) {
	entry := trace.Entry{SyscallName: "waitpid", Arguments: "24983, NULL, 0"}
	pid, ok := resolveWaitTarget(entry)
	require.True(t, ok)
	assert.Equal(t, 24983, pid)
}

func TestResolveWaitTargetPrefersReturnValue(t *testing.T) {
	entry := trace.Entry{SyscallName: "wait4", Arguments: "-1", ReturnValue: ptr("555")}
	pid, ok := resolveWaitTarget(entry)
	require.True(t, ok)
	assert.Equal(t, 555, pid)
}

func TestResolveWaitTargetRejectsNonPositive(t *testing.T) {
	entry := trace.Entry{SyscallName: "wait4", Arguments: "-1", ReturnValue: ptr("-1")}
	_, ok := resolveWaitTarget(entry)
	assert.False(t, ok)
}
