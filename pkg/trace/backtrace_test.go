package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBacktraceFunctionAndOffset(t *testing.T) {
	frame, perr := ParseBacktraceLine("> /lib/x86_64-linux-gnu/libc.so.6(brk+0x14) [0x121234]")
	require.Nil(t, perr)
	assert.Equal(t, "/lib/x86_64-linux-gnu/libc.so.6", frame.Binary)
	require.NotNil(t, frame.Function)
	assert.Equal(t, "brk", *frame.Function)
	require.NotNil(t, frame.Offset)
	assert.Equal(t, "0x14", *frame.Offset)
	assert.Equal(t, "0x121234", frame.Address)
}

func TestParseBacktraceEmptyParens(t *testing.T) {
	frame, perr := ParseBacktraceLine("> /lib/libc.so.6() [0xdeadbeef]")
	require.Nil(t, perr)
	require.NotNil(t, frame.Function)
	assert.Equal(t, "", *frame.Function)
	assert.Nil(t, frame.Offset)
	assert.Equal(t, "0xdeadbeef", frame.Address)
}

func TestParseBacktraceOffsetOnly(t *testing.T) {
	frame, perr := ParseBacktraceLine("> /lib/libc.so.6(+0x20) [0xabc]")
	require.Nil(t, perr)
	require.NotNil(t, frame.Function)
	assert.Equal(t, "", *frame.Function)
	require.NotNil(t, frame.Offset)
	assert.Equal(t, "0x20", *frame.Offset)
}

func TestParseBacktraceNoParens(t *testing.T) {
	frame, perr := ParseBacktraceLine("> /lib/libc.so.6 [0x123]")
	require.Nil(t, perr)
	assert.Equal(t, "/lib/libc.so.6", frame.Binary)
	assert.Nil(t, frame.Function)
	assert.Nil(t, frame.Offset)
	assert.Equal(t, "0x123", frame.Address)
}

func TestParseBacktraceLeadingWhitespace(t *testing.T) {
	frame, perr := ParseBacktraceLine("  > /usr/bin/app(main+0x5) [0x400500]")
	require.Nil(t, perr)
	assert.Equal(t, "/usr/bin/app", frame.Binary)
	require.NotNil(t, frame.Function)
	assert.Equal(t, "main", *frame.Function)
}

func TestParseBacktraceNotABacktraceLine(t *testing.T) {
	_, perr := ParseBacktraceLine("12311 12:59:24 brk(NULL) = 0")
	require.NotNil(t, perr)
	assert.Equal(t, InvalidBacktrace, perr.Kind)
}

func TestParseBacktraceMissingBinary(t *testing.T) {
	_, perr := ParseBacktraceLine("> (main+0x5) [0x400500]")
	require.NotNil(t, perr)
	assert.Equal(t, InvalidBacktrace, perr.Kind)
}
