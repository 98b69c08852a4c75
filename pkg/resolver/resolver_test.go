package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/straceview/stracetui/pkg/trace"
)

type fakeLoader struct {
	frames []FrameInfo
	calls  int
	closed bool
}

func (f *fakeLoader) FindFrames(pc uint64) []FrameInfo {
	f.calls++
	return f.frames
}

func (f *fakeLoader) Close() error {
	f.closed = true
	return nil
}

func newTestResolver(factory func(path string) (frameSource, error)) *Resolver {
	r := New()
	r.newLoader = factory
	return r
}

func TestResolveCachesResultsPerAddress(t *testing.T) {
	loader := &fakeLoader{frames: []FrameInfo{
		{Function: "main", HasName: true, File: "main.c", Line: 10, IsInlined: false},
	}}
	r := newTestResolver(func(path string) (frameSource, error) { return loader, nil })

	first := r.Resolve("/bin/app", "0x1000")
	second := r.Resolve("/bin/app", "0x1000")

	require.Len(t, first, 1)
	assert.Equal(t, "main", first[0].Function)
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, first, second)
}

func TestResolveCachesLoaderAcrossAddresses(t *testing.T) {
	loadCount := 0
	loader := &fakeLoader{frames: []FrameInfo{{Function: "f", HasName: true, File: "f.c", Line: 1}}}
	r := newTestResolver(func(path string) (frameSource, error) {
		loadCount++
		return loader, nil
	})

	r.Resolve("/bin/app", "0x1000")
	r.Resolve("/bin/app", "0x2000")

	assert.Equal(t, 1, loadCount)
	assert.Equal(t, 2, loader.calls)
}

func TestResolveCachesFailedLoadAndNeverRetries(t *testing.T) {
	loadCount := 0
	r := newTestResolver(func(path string) (frameSource, error) {
		loadCount++
		return nil, errors.New("no such file")
	})

	first := r.Resolve("/bin/missing", "0x1000")
	second := r.Resolve("/bin/missing", "0x2000")

	assert.Nil(t, first)
	assert.Nil(t, second)
	assert.Equal(t, 1, loadCount)
}

func TestResolveInvalidAddressNeverCallsLoader(t *testing.T) {
	calls := 0
	r := newTestResolver(func(path string) (frameSource, error) {
		calls++
		return &fakeLoader{}, nil
	})

	result := r.Resolve("/bin/app", "not-hex")
	assert.Nil(t, result)
	assert.Equal(t, 0, calls)
}

func TestResolveDropsFramesMissingFileOrLine(t *testing.T) {
	loader := &fakeLoader{frames: []FrameInfo{
		{Function: "inlined", HasName: true, File: "", Line: 0, IsInlined: true},
		{Function: "real", HasName: true, File: "real.c", Line: 5, IsInlined: false},
	}}
	r := newTestResolver(func(path string) (frameSource, error) { return loader, nil })

	out := r.Resolve("/bin/app", "0x1000")
	require.Len(t, out, 1)
	assert.Equal(t, "real", out[0].Function)
	assert.False(t, out[0].IsInlined)
}

func TestResolveMarksAllButLastAsInlined(t *testing.T) {
	loader := &fakeLoader{frames: []FrameInfo{
		{Function: "inner", HasName: true, File: "a.c", Line: 1, IsInlined: true},
		{Function: "outer", HasName: true, File: "a.c", Line: 2, IsInlined: true},
		{Function: "real", HasName: true, File: "a.c", Line: 3, IsInlined: false},
	}}
	r := newTestResolver(func(path string) (frameSource, error) { return loader, nil })

	out := r.Resolve("/bin/app", "0x1000")
	require.Len(t, out, 3)
	assert.True(t, out[0].IsInlined)
	assert.True(t, out[1].IsInlined)
	assert.False(t, out[2].IsInlined)
}

func TestResolveUsesUnknownPlaceholderWhenNameMissing(t *testing.T) {
	loader := &fakeLoader{frames: []FrameInfo{
		{HasName: false, File: "a.c", Line: 1, IsInlined: false},
	}}
	r := newTestResolver(func(path string) (frameSource, error) { return loader, nil })

	out := r.Resolve("/bin/app", "0x1000")
	require.Len(t, out, 1)
	assert.Equal(t, "<unknown>", out[0].Function)
}

func TestResolveFrameMutatesInPlace(t *testing.T) {
	loader := &fakeLoader{frames: []FrameInfo{
		{Function: "main", HasName: true, File: "main.c", Line: 10},
	}}
	r := newTestResolver(func(path string) (frameSource, error) { return loader, nil })

	frame := trace.Frame{Binary: "/bin/app", Address: "0x1000"}
	r.ResolveFrame(&frame)

	require.Len(t, frame.Resolved, 1)
	assert.Equal(t, "main", frame.Resolved[0].Function)
}

func TestParseAddressStripsHexPrefix(t *testing.T) {
	val, ok := parseAddress("0x1a")
	require.True(t, ok)
	assert.Equal(t, uint64(26), val)
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	_, ok := parseAddress("nope")
	assert.False(t, ok)
}

func TestDemangleSimpleName(t *testing.T) {
	assert.Equal(t, "foo", demangle("_Z3foov"))
}

func TestDemangleNestedName(t *testing.T) {
	assert.Equal(t, "foo::bar", demangle("_ZN3foo3barEv"))
}

func TestDemangleFallsBackOnUnrecognized(t *testing.T) {
	assert.Equal(t, "not_mangled", demangle("not_mangled"))
}

func TestDemangleFallsBackOnMalformed(t *testing.T) {
	assert.Equal(t, "_Zxyz", demangle("_Zxyz"))
}
