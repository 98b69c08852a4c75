package resolver

import (
	"debug/dwarf"
	"debug/elf"
	"sort"
)

// FrameInfo is one frame produced by a Loader for a single address: either
// the real (non-inlined) function containing the address, or one link in
// the inlined-call chain leading to it.
type FrameInfo struct {
	Function  string
	HasName   bool
	File      string
	Line      int
	Column    int
	IsInlined bool
}

// frameSource is the subset of *Loader that Resolver depends on, broken
// out so tests can substitute a fake without touching real binaries.
type frameSource interface {
	FindFrames(pc uint64) []FrameInfo
	Close() error
}

// Loader resolves addresses within a single ELF binary's DWARF debug
// info. One Loader is created per binary path and reused for every
// address looked up in it.
type Loader struct {
	file        *elf.File
	data        *dwarf.Data
	funcs       []function
	lineReaders map[dwarf.Offset]*dwarf.LineReader
}

type function struct {
	entry  *dwarf.Entry
	cu     *dwarf.Entry
	lowPC  uint64
	highPC uint64
}

// NewLoader opens path and indexes its subprogram DIEs by PC range. It
// fails if the binary can't be opened as ELF or carries no DWARF info.
func NewLoader(path string) (*Loader, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := f.DWARF()
	if err != nil {
		f.Close()
		return nil, err
	}

	l := &Loader{file: f, data: data, lineReaders: make(map[dwarf.Offset]*dwarf.LineReader)}
	if err := l.index(); err != nil {
		f.Close()
		return nil, err
	}

	return l, nil
}

func (l *Loader) Close() error {
	return l.file.Close()
}

func (l *Loader) index() error {
	r := l.data.Reader()
	var cu *dwarf.Entry

	for {
		entry, err := r.Next()
		if err != nil {
			return err
		}
		if entry == nil {
			break
		}

		switch entry.Tag {
		case dwarf.TagCompileUnit:
			cu = entry
		case dwarf.TagSubprogram:
			if low, high, ok := pcRange(entry); ok && cu != nil {
				l.funcs = append(l.funcs, function{entry: entry, cu: cu, lowPC: low, highPC: high})
			}
		}
	}

	sort.Slice(l.funcs, func(i, j int) bool { return l.funcs[i].lowPC < l.funcs[j].lowPC })
	return nil
}

// pcRange reads AttrLowpc/AttrHighpc off a DIE, handling both the
// "address" and "constant offset from low_pc" encodings of high_pc.
func pcRange(entry *dwarf.Entry) (low, high uint64, ok bool) {
	lowVal, ok := entry.Val(dwarf.AttrLowpc).(uint64)
	if !ok {
		return 0, 0, false
	}

	switch h := entry.Val(dwarf.AttrHighpc).(type) {
	case uint64:
		return lowVal, h, true
	case int64:
		return lowVal, lowVal + uint64(h), true
	default:
		return 0, 0, false
	}
}

func (l *Loader) findFunction(pc uint64) *function {
	idx := sort.Search(len(l.funcs), func(i int) bool { return l.funcs[i].lowPC > pc }) - 1
	if idx < 0 || idx >= len(l.funcs) {
		return nil
	}
	fn := &l.funcs[idx]
	if pc < fn.lowPC || pc >= fn.highPC {
		return nil
	}
	return fn
}

func (l *Loader) lineReader(cu *dwarf.Entry) (*dwarf.LineReader, error) {
	if lr, ok := l.lineReaders[cu.Offset]; ok {
		return lr, nil
	}
	lr, err := l.data.LineReader(cu)
	if err != nil {
		return nil, err
	}
	l.lineReaders[cu.Offset] = lr
	return lr, nil
}

func entryName(e *dwarf.Entry) (string, bool) {
	name, ok := e.Val(dwarf.AttrName).(string)
	return name, ok
}

// callSite reads the DW_AT_call_file/_line/_column attributes off an
// inlined_subroutine DIE, resolving the file index against files (the
// enclosing compile unit's line-table file list).
func callSite(e *dwarf.Entry, files []*dwarf.LineFile) (file string, line, col int, ok bool) {
	lineVal, lok := e.Val(dwarf.AttrCallLine).(int64)
	if !lok {
		return "", 0, 0, false
	}
	if fileIdx, fok := e.Val(dwarf.AttrCallFile).(int64); fok {
		if int(fileIdx) >= 0 && int(fileIdx) < len(files) && files[fileIdx] != nil {
			file = files[fileIdx].Name
		}
	}
	col64, _ := e.Val(dwarf.AttrCallColumn).(int64)
	return file, int(lineVal), int(col64), true
}

// inlinedChain returns the TagInlinedSubroutine DIEs nested within fn's
// subprogram, outermost first, whose PC range covers pc.
func (l *Loader) inlinedChain(fn *function, pc uint64) []*dwarf.Entry {
	r := l.data.Reader()
	r.Seek(fn.entry.Offset)

	top, err := r.Next()
	if err != nil || top == nil || !top.Children {
		return nil
	}

	return walkInlined(r, pc)
}

// walkInlined consumes sibling entries at the current nesting level until
// the level's null terminator, keeping (and descending into) any
// TagInlinedSubroutine whose range covers pc and skipping every other
// subtree whole.
func walkInlined(r *dwarf.Reader, pc uint64) []*dwarf.Entry {
	var chain []*dwarf.Entry

	for {
		entry, err := r.Next()
		if err != nil || entry == nil || entry.Tag == 0 {
			return chain
		}

		if entry.Tag == dwarf.TagInlinedSubroutine {
			if low, high, ok := pcRange(entry); ok && pc >= low && pc < high {
				chain = append(chain, entry)
				if entry.Children {
					chain = append(chain, walkInlined(r, pc)...)
				}
				continue
			}
		}

		if entry.Children {
			skipSubtree(r)
		}
	}
}

func skipSubtree(r *dwarf.Reader) {
	depth := 1
	for depth > 0 {
		entry, err := r.Next()
		if err != nil || entry == nil {
			return
		}
		if entry.Tag == 0 {
			depth--
			continue
		}
		if entry.Children {
			depth++
		}
	}
}

// FindFrames resolves pc to a chain of frames: zero or more inlined
// frames (innermost first) followed by the real, non-inlined function
// that contains it. Returns nil if pc falls outside any known function
// or its compile unit carries no usable line table.
func (l *Loader) FindFrames(pc uint64) []FrameInfo {
	fn := l.findFunction(pc)
	if fn == nil {
		return nil
	}

	lr, err := l.lineReader(fn.cu)
	if err != nil || lr == nil {
		return nil
	}

	var lineEntry dwarf.LineEntry
	if err := lr.SeekPC(pc, &lineEntry); err != nil {
		return nil
	}

	file := ""
	if lineEntry.File != nil {
		file = lineEntry.File.Name
	}

	chain := l.inlinedChain(fn, pc)
	files := lr.Files()

	frames := make([]FrameInfo, 0, len(chain)+1)

	// Innermost frame first: the deepest inlined routine (or the real
	// function, if there's no inlining) gets the line table's own
	// location for pc.
	curFile, curLine, curCol := file, lineEntry.Line, lineEntry.Column
	for i := len(chain) - 1; i >= 0; i-- {
		name, hasName := entryName(chain[i])
		frames = append(frames, FrameInfo{
			Function: name, HasName: hasName,
			File: curFile, Line: curLine, Column: curCol,
			IsInlined: true,
		})
		// The next frame out (one step toward the real function) is
		// attributed to wherever this inlined call itself was made from.
		if cf, cl, cc, ok := callSite(chain[i], files); ok {
			curFile, curLine, curCol = cf, cl, cc
		}
	}

	name, hasName := entryName(fn.entry)
	frames = append(frames, FrameInfo{
		Function: name, HasName: hasName,
		File: curFile, Line: curLine, Column: curCol,
		IsInlined: false,
	})

	return frames
}
