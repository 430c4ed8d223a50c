package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"sshcfg/pkg/sshconfig"
)

// Mode is the active UI state. Exactly one of MainMode, SelectMode or
// EditMode is active at any time.
type Mode interface {
	modeName() string
}

// MainMode browses the record list.
type MainMode struct{}

// SelectMode browses the fields of one record.
type SelectMode struct {
	Record int
}

// EditMode edits one field of one record.
type EditMode struct {
	Record int
	Key    sshconfig.Key
	Buffer textinput.Model
}

func (MainMode) modeName() string   { return "main" }
func (SelectMode) modeName() string { return "select" }
func (EditMode) modeName() string   { return "edit" }

// newEditBuffer returns a focused single-line buffer holding value with the
// cursor at the end.
func newEditBuffer(value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 1024
	ti.SetValue(value)
	ti.Focus()
	ti.CursorEnd()
	return ti
}

// Value returns the first line of the buffer.
func (e EditMode) Value() string {
	v := e.Buffer.Value()
	if i := strings.IndexAny(v, "\r\n"); i >= 0 {
		v = v[:i]
	}
	return v
}
