// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/cite-engine/pkg/types"
)

// parseBibLaTeX scans a BibLaTeX document entry by entry. A malformed
// entry is skipped with a diagnostic on w and scanning resumes at the
// next "@"; one bad entry never fails the document. @comment, @preamble
// and @string entries are recognized and skipped.
func parseBibLaTeX(content string, w io.Writer) []RawRecord {
	s := &bibScanner{src: content, line: 1}
	var records []RawRecord

	for s.seekEntry() {
		startLine := s.line
		rec, err := s.scanEntry()
		if err != nil {
			fmt.Fprintf(w, "warning: skipping malformed entry at line %d: %v\n", startLine, err)
			s.recover()
			continue
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}

// bibScanner is a hand-written scanner over a BibLaTeX document. It
// tracks the current line for diagnostics.
type bibScanner struct {
	src  string
	pos  int
	line int
}

// peek returns the current byte, or 0 at end of input.
func (s *bibScanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// advance consumes one byte, keeping the line count current.
func (s *bibScanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
	}
	return c
}

func (s *bibScanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

// seekEntry advances past the next "@" and reports whether one was
// found. Text between entries is ignored, per BibTeX convention.
func (s *bibScanner) seekEntry() bool {
	for s.pos < len(s.src) {
		if s.advance() == '@' {
			return true
		}
	}
	return false
}

// recover skips forward to just before the next "@" so scanning can
// resume after a malformed entry. An "@" inside the bad entry's values
// may cause a second diagnostic; the entries after it still parse.
func (s *bibScanner) recover() {
	for s.pos < len(s.src) && s.peek() != '@' {
		s.advance()
	}
}

// scanIdent reads an entry type or field name: letters, digits and a
// few punctuation characters BibLaTeX allows in names.
func (s *bibScanner) scanIdent() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.peek()
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' || c == ':' || c == '.' || c == '+' {
			s.advance()
			continue
		}
		break
	}
	return s.src[start:s.pos]
}

// scanEntry parses one entry after its "@". It returns (nil, nil) for
// skipped @comment/@preamble/@string entries.
func (s *bibScanner) scanEntry() (*RawRecord, error) {
	entryType := strings.ToLower(s.scanIdent())
	if entryType == "" {
		return nil, fmt.Errorf("missing entry type after @")
	}

	s.skipSpace()
	open := s.peek()
	var closer byte
	switch open {
	case '{':
		closer = '}'
	case '(':
		closer = ')'
	default:
		return nil, fmt.Errorf("expected { after @%s", entryType)
	}
	s.advance()

	switch entryType {
	case "comment", "preamble", "string":
		if err := s.skipBalanced(closer); err != nil {
			return nil, fmt.Errorf("in @%s: %w", entryType, err)
		}
		return nil, nil
	}

	s.skipSpace()
	key := s.scanKey(closer)

	fields := make(map[string]string)
	for {
		s.skipSpace()
		switch s.peek() {
		case 0:
			return nil, fmt.Errorf("unexpected end of input in @%s{%s", entryType, key)
		case closer:
			s.advance()
			return &RawRecord{Format: types.FormatBibLaTeX, Type: entryType, Key: key, Fields: fields}, nil
		case ',':
			s.advance()
			continue
		}

		name := strings.ToLower(s.scanIdent())
		if name == "" {
			return nil, fmt.Errorf("expected field name in @%s{%s", entryType, key)
		}
		s.skipSpace()
		if s.peek() != '=' {
			return nil, fmt.Errorf("expected = after field %q in @%s{%s", name, entryType, key)
		}
		s.advance()

		value, err := s.scanValue(closer)
		if err != nil {
			return nil, fmt.Errorf("field %q in @%s{%s: %w", name, entryType, key, err)
		}
		fields[name] = value
	}
}

// scanKey reads the citation key up to the first comma, closer, or
// whitespace. An empty key is left for the adapter to reject.
func (s *bibScanner) scanKey(closer byte) string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.peek()
		if c == ',' || c == closer || c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			break
		}
		s.advance()
	}
	return strings.TrimSpace(s.src[start:s.pos])
}

// scanValue reads one field value: a braced group, a quoted string, or
// a bare token, possibly joined by the "#" concatenation operator.
func (s *bibScanner) scanValue(closer byte) (string, error) {
	var b strings.Builder
	for {
		s.skipSpace()
		var part string
		var err error
		switch c := s.peek(); {
		case c == '{':
			part, err = s.scanBraced()
		case c == '"':
			part, err = s.scanQuoted()
		default:
			part = s.scanBare(closer)
			if part == "" {
				err = fmt.Errorf("empty value")
			}
		}
		if err != nil {
			return "", err
		}
		b.WriteString(part)

		s.skipSpace()
		if s.peek() != '#' {
			return b.String(), nil
		}
		s.advance()
	}
}

// scanBraced reads a {...} group, honoring nested braces. The outer
// braces are stripped; inner ones are preserved verbatim.
func (s *bibScanner) scanBraced() (string, error) {
	s.advance() // opening brace
	start := s.pos
	depth := 1
	for s.pos < len(s.src) {
		switch s.advance() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s.src[start : s.pos-1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced braces")
}

// scanQuoted reads a "..." value. Braces may nest inside the quotes;
// a quote at brace depth zero terminates the value.
func (s *bibScanner) scanQuoted() (string, error) {
	s.advance() // opening quote
	start := s.pos
	depth := 0
	for s.pos < len(s.src) {
		switch s.advance() {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				return s.src[start : s.pos-1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated quoted value")
}

// scanBare reads an unquoted token: a number or an abbreviation name.
// Abbreviations are preserved as written, never expanded.
func (s *bibScanner) scanBare(closer byte) string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.peek()
		if c == ',' || c == closer || c == '#' || c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			break
		}
		s.advance()
	}
	return strings.TrimSpace(s.src[start:s.pos])
}

// skipBalanced consumes input until the group opened before the call is
// closed, used for @comment/@preamble/@string bodies. Only brace
// nesting is tracked; parenthesized groups end at the matching ")".
func (s *bibScanner) skipBalanced(closer byte) error {
	depth := 1
	for s.pos < len(s.src) {
		c := s.advance()
		switch {
		case c == '{' && closer == '}':
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return fmt.Errorf("unbalanced group")
}
