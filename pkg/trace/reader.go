package trace

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/spkg/bom"
)

const (
	scannerBuffer    = 64 * 1024
	scannerMaxBuffer = 4 * 1024 * 1024
)

// ParseFile opens path, strips a leading UTF-8 BOM if present, and stitches
// its contents into an ordered entry list plus any accumulated parse
// errors. The only fatal error this returns is an I/O failure on the
// initial open/read.
func ParseFile(path string) ([]Entry, []ParseError, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, &ParseError{Kind: IOError, Message: "failed to open " + path + ": " + err.Error()}
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader stitches the contents of r (typically a BOM-tolerant trace
// file) into an ordered entry list plus any accumulated parse errors.
func ParseReader(r io.Reader) ([]Entry, []ParseError, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, &ParseError{Kind: IOError, Message: "failed reading trace: " + err.Error()}
	}
	cleaned := bom.Clean(content)

	scanner := bufio.NewScanner(bytes.NewReader(cleaned))
	buf := make([]byte, scannerBuffer)
	scanner.Buffer(buf, scannerMaxBuffer)

	stitcher := NewStitcher()
	entries := make([]Entry, 0, 1024)

	for scanner.Scan() {
		entries = stitcher.Feed(scanner.Text(), entries)
	}

	if err := scanner.Err(); err != nil {
		return entries, stitcher.Errors, &ParseError{Kind: IOError, Message: "failed reading trace: " + err.Error()}
	}

	return entries, stitcher.Errors, nil
}
