// Package scanner turns a raw ACMI byte buffer into logical lines:
// physical lines with CRLF normalized, an optional leading UTF-8 BOM
// stripped, comment and blank lines skipped, and backslash-continued
// physical lines joined with an embedded newline.
//
// The two header physical lines are read separately, before logical
// line emission begins, via NextPhysicalLine: the header is always
// consumed ahead of the content loop.
package scanner

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Scanner reads physical lines from an underlying reader, normalizing
// line endings and stripping a leading BOM once.
type Scanner struct {
	r      *bufio.Reader
	lineNo int
	err    error
}

// New returns a Scanner over b, with any leading UTF-8 BOM stripped.
func New(b []byte) *Scanner {
	b = bytes.TrimPrefix(b, utf8BOM)
	return &Scanner{r: bufio.NewReaderSize(bytes.NewReader(b), 64*1024)}
}

// NewFromReader is the io.Reader-based constructor, used when the
// caller streams bytes rather than holding the whole document in
// memory (the BOM, if any, must already have been stripped by the
// caller in this mode).
func NewFromReader(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, 64*1024)}
}

// LineNo reports the 1-based physical line number of the most recently
// returned line.
func (s *Scanner) LineNo() int { return s.lineNo }

// Err returns the first non-EOF error encountered, if any.
func (s *Scanner) Err() error { return s.err }

// readPhysicalLine returns the next raw physical line with its
// terminator stripped (CRLF or LF), or io.EOF.
func (s *Scanner) readPhysicalLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	s.lineNo++
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// NextPhysicalLine returns the next raw physical line verbatim (no
// comment/blank skipping, no continuation joining). Used for the two
// header lines.
func (s *Scanner) NextPhysicalLine() (string, bool) {
	line, err := s.readPhysicalLine()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		return "", false
	}
	return line, true
}

// NextLogicalLine returns the next logical content line: blank and
// "//"-comment lines are skipped, and a physical line ending in an
// unescaped backslash is joined with the following physical line(s),
// separated by '\n'. Reports false at end of input.
func (s *Scanner) NextLogicalLine() (string, bool) {
	for {
		line, err := s.readPhysicalLine()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return "", false
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			continue
		}

		for endsWithUnescapedBackslash(line) {
			line = line[:len(line)-1]
			next, err := s.readPhysicalLine()
			if err != nil {
				// Input ended mid-continuation; return what we have.
				s.err = nil
				return line, true
			}
			line = line + "\n" + next
		}
		return line, true
	}
}

// endsWithUnescapedBackslash reports whether line ends with a
// backslash that is not itself escaped by a preceding backslash.
func endsWithUnescapedBackslash(line string) bool {
	if !strings.HasSuffix(line, "\\") {
		return false
	}
	n := len(line)
	count := 0
	for i := n - 1; i >= 0 && line[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}
