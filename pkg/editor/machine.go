package editor

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sshcfg/pkg/sshconfig"
)

// noSelection marks an unset cursor.
const noSelection = -1

// Machine owns the record sequence and the active mode. Handle is the only
// transition function; record mutations happen inside it and nowhere else.
type Machine struct {
	Records []sshconfig.Record
	Mode    Mode

	// ListCursor indexes Records, or is noSelection.
	ListCursor int
	// FieldCursor indexes the canonical key order, or is noSelection.
	FieldCursor int

	Exit  bool
	Dirty bool

	keys KeyMap
}

// Result describes what a single Handle call did.
type Result struct {
	Action  Action
	Mutated bool
	// Cmd is a follow-up command from the edit buffer (cursor blink).
	Cmd tea.Cmd
}

// NewMachine starts in MainMode with nothing selected.
func NewMachine(records []sshconfig.Record, keys KeyMap) *Machine {
	if records == nil {
		records = []sshconfig.Record{}
	}
	return &Machine{
		Records:     records,
		Mode:        MainMode{},
		ListCursor:  noSelection,
		FieldCursor: noSelection,
		keys:        keys,
	}
}

// Handle applies one key press. Every (mode, key) pair is defined; keys a
// mode does not bind leave the machine unchanged.
func (m *Machine) Handle(msg tea.KeyMsg) Result {
	var res Result
	switch mode := m.Mode.(type) {
	case MainMode:
		res = m.handleMain(mode, msg)
	case SelectMode:
		res = m.handleSelect(mode, msg)
	case EditMode:
		res = m.handleEdit(mode, msg)
	default:
		m.Mode = MainMode{}
	}
	if res.Mutated {
		m.Dirty = true
	}
	return res
}

func (m *Machine) handleMain(mode MainMode, msg tea.KeyMsg) Result {
	a := m.keys.classify(msg, mainActions...)
	res := Result{Action: a}
	switch a {
	case ActionQuit, ActionAbort:
		m.Exit = true
	case ActionDown:
		m.FieldCursor = noSelection
		m.ListCursor = stepCursor(m.ListCursor, 1, len(m.Records))
	case ActionUp:
		m.FieldCursor = noSelection
		m.ListCursor = stepCursor(m.ListCursor, -1, len(m.Records))
	case ActionFirst:
		m.FieldCursor = noSelection
		if len(m.Records) > 0 {
			m.ListCursor = 0
		}
	case ActionLast:
		m.FieldCursor = noSelection
		if len(m.Records) > 0 {
			m.ListCursor = len(m.Records) - 1
		}
	case ActionDelete:
		if i := m.ListCursor; i >= 0 && i < len(m.Records) {
			log.Printf("delete record %d (%s)", i, m.Records[i].Host)
			m.Records = append(m.Records[:i], m.Records[i+1:]...)
			m.ListCursor = clampCursor(m.ListCursor, len(m.Records))
			res.Mutated = true
		}
	case ActionOpen:
		if i := m.ListCursor; i >= 0 && i < len(m.Records) {
			m.FieldCursor = 0
			m.Mode = SelectMode{Record: i}
			return res
		}
	}
	m.Mode = mode
	return res
}

func (m *Machine) handleSelect(mode SelectMode, msg tea.KeyMsg) Result {
	a := m.keys.classify(msg, selectActions...)
	res := Result{Action: a}
	switch a {
	case ActionQuit, ActionAbort:
		m.Exit = true
	case ActionDown:
		m.FieldCursor = stepCursor(m.FieldCursor, 1, sshconfig.NumKeys())
	case ActionUp:
		m.FieldCursor = stepCursor(m.FieldCursor, -1, sshconfig.NumKeys())
	case ActionBack:
		m.Mode = MainMode{}
		return res
	case ActionDelete:
		if k, ok := sshconfig.KeyAt(m.FieldCursor); ok {
			if m.Records[mode.Record].Delete(k) {
				log.Printf("delete %s from record %d", k, mode.Record)
				res.Mutated = true
			}
		}
	case ActionOpen:
		if k, ok := sshconfig.KeyAt(m.FieldCursor); ok {
			v, _ := m.Records[mode.Record].Get(k)
			buf := newEditBuffer(v)
			m.Mode = EditMode{Record: mode.Record, Key: k, Buffer: buf}
			res.Cmd = textinput.Blink
			return res
		}
	}
	m.Mode = mode
	return res
}

func (m *Machine) handleEdit(mode EditMode, msg tea.KeyMsg) Result {
	a := m.keys.classify(msg, editActions...)
	res := Result{Action: a}
	switch a {
	case ActionAbort:
		m.Exit = true
		m.Mode = SelectMode{Record: mode.Record}
	case ActionCancel:
		m.Mode = SelectMode{Record: mode.Record}
	case ActionCommit:
		v := strings.TrimSpace(mode.Value())
		rec := &m.Records[mode.Record]
		old, ok := rec.Get(mode.Key)
		switch {
		case v == "":
			// Committing a blank buffer clears the field.
			if rec.Delete(mode.Key) {
				log.Printf("delete %s from record %d", mode.Key, mode.Record)
				res.Mutated = true
			}
		case !ok || old != v:
			rec.Set(mode.Key, v)
			log.Printf("set %s=%q on record %d", mode.Key, v, mode.Record)
			res.Mutated = true
		}
		m.Mode = SelectMode{Record: mode.Record}
	default:
		var cmd tea.Cmd
		mode.Buffer, cmd = mode.Buffer.Update(msg)
		m.Mode = mode
		res.Cmd = cmd
	}
	return res
}

// Selected returns the record under the list cursor.
func (m *Machine) Selected() (*sshconfig.Record, bool) {
	if m.ListCursor < 0 || m.ListCursor >= len(m.Records) {
		return nil, false
	}
	return &m.Records[m.ListCursor], true
}

// Highlighted returns the key under the field cursor together with its value
// in the selected record.
func (m *Machine) Highlighted() (k sshconfig.Key, value string, present bool, ok bool) {
	rec, hasRec := m.Selected()
	if sel, isSelect := m.Mode.(SelectMode); isSelect {
		rec, hasRec = &m.Records[sel.Record], true
	}
	k, ok = sshconfig.KeyAt(m.FieldCursor)
	if !ok || !hasRec {
		return k, "", false, false
	}
	value, present = rec.Get(k)
	return k, value, present, true
}

// stepCursor moves cur by delta within [0,n). From noSelection, moving down
// selects the first item and moving up the last.
func stepCursor(cur, delta, n int) int {
	if n <= 0 {
		return noSelection
	}
	if cur < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return clampCursor(cur+delta, n)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return noSelection
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
