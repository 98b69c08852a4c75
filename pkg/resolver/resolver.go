// Package resolver turns raw backtrace addresses into source locations
// using each traced binary's own DWARF debug info, with per-binary and
// per-address caching so the same symbol is never looked up twice.
package resolver

import (
	"strconv"
	"strings"

	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/straceview/stracetui/pkg/trace"
)

const unknownFunction = "<unknown>"

// Resolver resolves trace.Frame addresses into trace.ResolvedFrame
// chains. It owns two caches: loaders per binary path, and resolved
// results per (binary, address) pair. A failed load is cached as a nil
// loader so a missing/stripped binary is never re-opened. Safe for
// concurrent use; §5 permits offloading resolution to a worker goroutine
// even though the core itself is single-threaded.
type Resolver struct {
	mu      deadlock.Mutex
	loaders map[string]frameSource
	results map[string][]trace.ResolvedFrame

	newLoader func(path string) (frameSource, error)
}

// New returns a ready-to-use Resolver.
func New() *Resolver {
	return &Resolver{
		loaders: make(map[string]frameSource),
		results: make(map[string][]trace.ResolvedFrame),
		newLoader: func(path string) (frameSource, error) {
			return NewLoader(path)
		},
	}
}

// ResolveFrame resolves a single frame in place, consulting and
// populating both caches. A frame whose address can't be parsed, whose
// binary has no loader, or which the loader can't place is left with a
// nil Resolved slice untouched; a resolution that legitimately produces
// zero usable frames is recorded as a non-nil empty slice so it isn't
// retried.
func (r *Resolver) ResolveFrame(frame *trace.Frame) {
	frame.Resolved = r.Resolve(frame.Binary, frame.Address)
}

// ResolveFrames resolves every frame in frames in place. Failures on one
// frame never prevent resolution of its siblings.
func (r *Resolver) ResolveFrames(frames []trace.Frame) {
	for i := range frames {
		r.ResolveFrame(&frames[i])
	}
}

// Resolve returns the resolved frame chain for (binary, addressString),
// consulting the result cache first.
func (r *Resolver) Resolve(binary, address string) []trace.ResolvedFrame {
	key := binary + ":" + address

	r.mu.Lock()
	if cached, ok := r.results[key]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	resolved := r.resolve(binary, address)

	r.mu.Lock()
	r.results[key] = resolved
	r.mu.Unlock()

	return resolved
}

func (r *Resolver) resolve(binary, address string) []trace.ResolvedFrame {
	pc, ok := parseAddress(address)
	if !ok {
		return nil
	}

	loader := r.loader(binary)
	if loader == nil {
		return nil
	}

	raw := loader.FindFrames(pc)
	if raw == nil {
		return nil
	}

	out := make([]trace.ResolvedFrame, 0, len(raw))
	for _, f := range raw {
		if f.File == "" || f.File == "??" || f.Line == 0 {
			continue
		}
		name := unknownFunction
		if f.HasName && f.Function != "" {
			name = demangle(f.Function)
		}
		rf := trace.ResolvedFrame{Function: name, File: f.File, Line: uint32(f.Line), IsInlined: f.IsInlined}
		if f.Column > 0 {
			col := uint32(f.Column)
			rf.Column = &col
		}
		out = append(out, rf)
	}

	if len(out) > 0 {
		out[len(out)-1].IsInlined = false
	}

	return out
}

// loader returns the cached loader for binary, creating and caching it
// (possibly as a permanent nil) on first use.
func (r *Resolver) loader(binary string) frameSource {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loaders[binary]; ok {
		return l
	}

	l, err := r.newLoader(binary)
	if err != nil {
		r.loaders[binary] = nil
		return nil
	}

	r.loaders[binary] = l
	return l
}

// Close releases every loaded binary's file handle.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, l := range r.loaders {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func parseAddress(address string) (uint64, bool) {
	trimmed := strings.TrimPrefix(address, "0x")
	if trimmed == "" {
		return 0, false
	}
	val, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
