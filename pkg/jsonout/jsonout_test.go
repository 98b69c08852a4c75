package jsonout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/straceview/stracetui/pkg/trace"
)

func sampleEntries() []trace.Entry {
	retval := "4"
	dur := 0.000123
	col := uint32(7)
	return []trace.Entry{
		{
			PID:         100,
			Timestamp:   "12:00:00.000001",
			SyscallName: "openat",
			Arguments:   `AT_FDCWD, "/tmp/x", O_RDONLY`,
			ReturnValue: &retval,
			Duration:    &dur,
			Backtrace: []trace.Frame{
				{
					Binary:  "/usr/lib/libc.so.6",
					Address: "0xdeadbeef",
					Resolved: []trace.ResolvedFrame{
						{Function: "openat", File: "io.c", Line: 42, Column: &col, IsInlined: false},
					},
				},
			},
		},
		{
			PID:         101,
			SyscallName: "read",
			Arguments:   "3, buf, 128",
			Errno:       &trace.Errno{Code: "EACCES", Message: "Permission denied"},
		},
		{
			PID:         101,
			SyscallName: "signal",
			Signal:      &trace.SignalInfo{SignalName: "SIGCHLD", Details: "si_pid=1"},
		},
		{
			PID:         101,
			SyscallName: "exit",
			ExitInfo:    &trace.ExitInfo{Code: 0, Killed: false},
		},
	}
}

func TestBuildMarshalRoundTrip(t *testing.T) {
	entries := sampleEntries()
	summary := trace.Summarize(entries)
	errs := []trace.ParseError{{Line: 5, Kind: trace.InvalidFormat, Message: "unparseable line"}}

	data, err := Marshal(entries, summary, errs, false)
	assert.NoError(t, err)

	gotEntries, gotSummary, gotErrs, err := Unmarshal(data)
	assert.NoError(t, err)
	assert.Equal(t, entries, gotEntries)
	assert.Equal(t, summary, gotSummary)
	assert.Len(t, gotErrs, 1)
	assert.Equal(t, 5, gotErrs[0].Line)
	assert.Equal(t, "unparseable line", gotErrs[0].Message)
}

func TestMarshalUsesSnakeCaseKeys(t *testing.T) {
	data, err := Marshal(sampleEntries(), trace.SummaryStats{}, nil, true)
	assert.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"syscall_name"`)
	assert.Contains(t, body, `"return_value"`)
	assert.Contains(t, body, `"is_unfinished"`)
	assert.Contains(t, body, `"total_syscalls"`)
	assert.Contains(t, body, `"unique_pids"`)
	assert.Contains(t, body, `"line_number"`)
	assert.NotContains(t, body, `"ReturnValue"`)
}

func TestMarshalOmitsAbsentOptionalFields(t *testing.T) {
	entry := trace.Entry{PID: 1, SyscallName: "getpid"}
	data, err := Marshal([]trace.Entry{entry}, trace.SummaryStats{}, nil, false)
	assert.NoError(t, err)

	body := string(data)
	assert.NotContains(t, body, `"return_value"`)
	assert.NotContains(t, body, `"errno"`)
	assert.NotContains(t, body, `"duration"`)
	assert.NotContains(t, body, `"signal"`)
	assert.NotContains(t, body, `"exit_info"`)
}

func TestMarshalBacktraceResolvedIsNullWhenNotAttempted(t *testing.T) {
	entry := trace.Entry{
		PID:         1,
		SyscallName: "write",
		Backtrace:   []trace.Frame{{Binary: "a.out", Address: "0x1"}},
	}
	data, err := Marshal([]trace.Entry{entry}, trace.SummaryStats{}, nil, false)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"resolved":null`)
}

func TestMarshalBacktraceResolvedIsArrayWhenPresent(t *testing.T) {
	entry := trace.Entry{
		PID:         1,
		SyscallName: "write",
		Backtrace: []trace.Frame{{
			Binary:   "a.out",
			Address:  "0x1",
			Resolved: []trace.ResolvedFrame{{Function: "main", File: "main.c", Line: 1}},
		}},
	}
	data, err := Marshal([]trace.Entry{entry}, trace.SummaryStats{}, nil, false)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"resolved":[{`)
}

func TestMarshalEmptyEntriesProducesEmptyArraysNotNull(t *testing.T) {
	data, err := Marshal(nil, trace.SummaryStats{}, nil, false)
	assert.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"entries":[]`)
	assert.Contains(t, body, `"errors":[]`)
	assert.Contains(t, body, `"unique_pids":[]`)
}

func TestUnmarshalRejectsInvalidJSON(t *testing.T) {
	_, _, _, err := Unmarshal([]byte("not json"))
	assert.Error(t, err)
}
