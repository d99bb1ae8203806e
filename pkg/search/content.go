package search

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrBinaryContent marks a file whose extension promised text but whose
// bytes did not. Callers report it like any other unreadable file.
var ErrBinaryContent = errors.New("binary content")

// maxLineBytes caps a single content line. Longer lines make the scan fail,
// which the walker reports as an unreadable file.
const maxLineBytes = 1 << 20

// ContentHit describes the first matching line of a content scan.
type ContentHit struct {
	Line     int // 1-based
	Distance int // fuzzy distance; 0 for exact matches
}

// Scan reads path line by line and reports the first line satisfying the
// matcher: the anchored pattern in exact mode, a case-folded edit distance
// within the threshold in fuzzy mode. The scan stops at the first hit.
//
// Files that cannot be opened or read, and files that sniff as binary
// despite their extension, return an error; callers treat that as "no
// match" and keep walking.
func (c *ContentScanner) Scan(path string, m *Matcher, fuzzy bool) (ContentHit, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return ContentHit{}, false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	binary, err := sniffBinary(f)
	if err != nil {
		return ContentHit{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if binary {
		return ContentHit{}, false, fmt.Errorf("%s: %w", path, ErrBinaryContent)
	}
	// Rewind after the sniff so line numbers count from the top.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ContentHit{}, false, fmt.Errorf("failed to rewind %s: %w", path, err)
	}

	cr := &countingReader{r: f}
	if c.stats != nil {
		defer func() { c.stats.Bytes.Add(cr.n) }()
	}

	scanner := bufio.NewScanner(cr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if fuzzy {
			if d, ok := m.FuzzyDistance(text); ok {
				return ContentHit{Line: line, Distance: d}, true, nil
			}
			continue
		}
		if m.Match(text) {
			return ContentHit{Line: line}, true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return ContentHit{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ContentHit{}, false, nil
}

// sniffBinary samples the first 512 bytes: a NUL byte or a high ratio of
// non-printable bytes marks the content binary no matter what the extension
// claimed.
func sniffBinary(r io.Reader) (bool, error) {
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	buf = buf[:n]
	if len(buf) == 0 {
		return false, nil
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		return true, nil
	}
	nonPrintable := 0
	for _, b := range buf {
		if !printable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(buf)) > 0.3, nil
}

func printable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t'
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
