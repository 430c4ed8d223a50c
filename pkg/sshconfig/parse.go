package sshconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parser turns a line stream into records.
type Parser struct {
	// Strict rejects key lines that appear before the first Host line.
	// When false such lines are dropped.
	Strict bool
}

// Parse reads records with the default (non-strict) parser.
func Parse(r io.Reader) ([]Record, error) {
	return Parser{}.Parse(r)
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) ([]Record, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads every line of r and returns the Host blocks in source order.
//
// A key declared twice in the same block keeps the later value.
func (p Parser) Parse(r io.Reader) ([]Record, error) {
	out := make([]Record, 0, 16)
	var current *Record

	flush := func() {
		if current != nil {
			out = append(out, *current)
			current = nil
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := splitKeyVal(line)
		if !ok {
			return nil, &ParseError{Kind: ErrMalformedLine, Line: lineNo, Text: line}
		}

		if key == "Host" {
			flush()
			rec := NewRecord(val)
			current = &rec
			continue
		}

		k, known := ParseKey(key)
		if !known {
			return nil, &ParseError{Kind: ErrUnknownKey, Line: lineNo, Text: line, Key: key}
		}
		if current == nil {
			if p.Strict {
				return nil, &ParseError{Kind: ErrOrphanField, Line: lineNo, Text: line, Key: key}
			}
			continue
		}
		current.Set(k, val)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ssh config: %w", err)
	}
	flush()

	return out, nil
}

// splitKeyVal splits on the first of " =", "=", " " that occurs in line.
// Both halves are trimmed.
func splitKeyVal(line string) (key, val string, ok bool) {
	for _, sep := range []string{" =", "=", " "} {
		if k, v, found := strings.Cut(line, sep); found {
			return strings.TrimSpace(k), strings.TrimSpace(v), true
		}
	}
	return "", "", false
}

// ReadFile opens path and parses it.
func ReadFile(path string, strict bool) ([]Record, error) {
	path = ExpandPath(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ssh config %s: %w", path, err)
	}
	defer f.Close()

	recs, err := Parser{Strict: strict}.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse ssh config %s: %w", path, err)
	}
	return recs, nil
}
