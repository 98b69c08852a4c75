package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/straceview/stracetui/pkg/trace"
)

func TestPrintSummaryBasic(t *testing.T) {
	var buf bytes.Buffer
	summary := trace.SummaryStats{
		TotalSyscalls:  10,
		FailedSyscalls: 0,
		Signals:        1,
		UniquePIDs:     []int{1, 2},
	}
	PrintSummary(&buf, "out.trace", summary, nil)

	out := buf.String()
	assert.Contains(t, out, "out.trace")
	assert.Contains(t, out, "syscalls:")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "unique pids:")
	assert.Contains(t, out, "2")
	assert.NotContains(t, out, "total duration:")
	assert.NotContains(t, out, "parse errors:")
}

func TestPrintSummaryWithDurationAndErrors(t *testing.T) {
	var buf bytes.Buffer
	dur := 1.5
	summary := trace.SummaryStats{
		TotalSyscalls:  3,
		FailedSyscalls: 2,
		TotalDuration:  &dur,
	}
	errs := []trace.ParseError{{Line: 7, Kind: trace.InvalidFormat, Message: "bad line"}}
	PrintSummary(&buf, "f", summary, errs)

	out := buf.String()
	assert.Contains(t, out, "total duration:")
	assert.Contains(t, out, "1.500000s")
	assert.Contains(t, out, "parse errors:")
	assert.Contains(t, out, "line 7:")
	assert.Contains(t, out, "bad line")
}
