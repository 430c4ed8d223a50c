package sshconfig

import (
	"errors"
	"fmt"
)

// Parse error kinds. A *ParseError unwraps to exactly one of these.
var (
	ErrMalformedLine = errors.New("malformed line")
	ErrUnknownKey    = errors.New("unknown key")
	ErrOrphanField   = errors.New("field outside of a Host block")
)

// ParseError locates a fatal problem in the input.
type ParseError struct {
	Kind error
	// Line is 1-based.
	Line int
	// Text is the trimmed line content.
	Text string
	// Key is the offending key token, when known.
	Key string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrUnknownKey:
		return fmt.Sprintf("line %d: unknown key `%s`", e.Line, e.Key)
	case ErrOrphanField:
		return fmt.Sprintf("line %d: `%s` appears before any Host line", e.Line, e.Key)
	default:
		return fmt.Sprintf("line %d: invalid key value syntax: %q", e.Line, e.Text)
	}
}

func (e *ParseError) Unwrap() error { return e.Kind }
