// Package corpus reads and writes tagged training windows. A corpus line
// holds fifteen groups of the form "word [ POS stem ]".
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"disambig/internal/window"
)

const fieldsPerWord = 5 // word [ POS stem ]

var ErrMalformedLine = errors.New("malformed corpus line")

// ParseLine reads one window. Fields past the fifteenth group are ignored.
func ParseLine(line string, positive bool) (window.Example, error) {
	fields := strings.Fields(line)
	if len(fields) < window.Size*fieldsPerWord {
		return window.Example{}, fmt.Errorf("%w: %d fields, want %d", ErrMalformedLine, len(fields), window.Size*fieldsPerWord)
	}
	words := make([]window.Word, window.Size)
	for i := range words {
		g := fields[i*fieldsPerWord : (i+1)*fieldsPerWord]
		// g[1] and g[4] are the brackets
		words[i] = window.Word{Literal: g[0], POS: g[2], Stem: g[3]}
	}
	return window.NewExample(words, positive)
}

// Parse reads a corpus stream. Lines alternate between correct and incorrect
// usages, starting with a correct one; lines that do not hold a full window
// are skipped without advancing the alternation.
func Parse(r io.Reader) ([]window.Example, error) {
	var examples []window.Example
	positive := true
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		ex, err := ParseLine(s.Text(), positive)
		if err != nil {
			continue
		}
		examples = append(examples, ex)
		positive = !positive
	}
	if err := s.Err(); err != nil {
		return examples, fmt.Errorf("read corpus: %w", err)
	}
	return examples, nil
}

// FormatLine is the inverse of ParseLine.
func FormatLine(ex window.Example) string {
	parts := make([]string, 0, window.Size)
	for _, w := range ex.Words() {
		parts = append(parts, w.Literal+" [ "+w.POS+" "+w.Stem+" ]")
	}
	return strings.Join(parts, " ")
}

// FormatRecord prefixes the line with "+" or "-" so a stored window keeps its
// label regardless of neighbouring records.
func FormatRecord(ex window.Example) string {
	if ex.Positive() {
		return "+ " + FormatLine(ex)
	}
	return "- " + FormatLine(ex)
}

// ParseRecord is the inverse of FormatRecord.
func ParseRecord(record string) (window.Example, error) {
	record = strings.TrimSpace(record)
	switch {
	case strings.HasPrefix(record, "+ "):
		return ParseLine(record[2:], true)
	case strings.HasPrefix(record, "- "):
		return ParseLine(record[2:], false)
	}
	return window.Example{}, fmt.Errorf("%w: record has no label", ErrMalformedLine)
}
