package editor

import (
	"fmt"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sshcfg/pkg/sshconfig"
)

// Model is the bubbletea model around a Machine. It owns presentation state
// only; records and mode live in the machine.
type Model struct {
	machine *Machine
	keys    KeyMap
	theme   Theme
	help    help.Model

	title string

	width  int
	height int
	ready  bool

	status      string
	statusUntil time.Time

	fps       fingerprints
	clipboard func(string) error
}

// NewModel builds a model over a copy of records.
func NewModel(records []sshconfig.Record, opts Options) Model {
	keys := DefaultKeyMap()
	if opts.KeyMap != nil {
		keys = *opts.KeyMap
	}
	theme := LoadTheme("")
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}
	h := help.New()
	h.Styles.ShortKey = theme.Status
	h.Styles.FullKey = theme.Status
	return Model{
		machine:   NewMachine(sshconfig.CloneAll(records), keys),
		keys:      keys,
		theme:     theme,
		help:      h,
		title:     opts.Title,
		fps:       fingerprints{},
		clipboard: clip,
	}
}

// Machine exposes the underlying state machine.
func (m Model) Machine() *Machine { return m.machine }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		_, editing := m.machine.Mode.(EditMode)
		if !editing && key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		before := m.machine.Mode.modeName()
		res := m.machine.Handle(msg)
		if after := m.machine.Mode.modeName(); after != before {
			log.Printf("mode %s -> %s", before, after)
		}
		m.report(res)
		if m.machine.Exit {
			return m, tea.Quit
		}
		return m, res.Cmd
	}

	// Cursor blink and other buffer messages.
	if e, ok := m.machine.Mode.(EditMode); ok {
		var cmd tea.Cmd
		e.Buffer, cmd = e.Buffer.Update(msg)
		m.machine.Mode = e
		return m, cmd
	}
	return m, nil
}

// report turns the outcome of a key press into a status message.
func (m *Model) report(res Result) {
	switch res.Action {
	case ActionYank:
		m.yank()
	case ActionDelete:
		if res.Mutated {
			m.setStatus("deleted", 1500)
		}
	case ActionCommit:
		if k, _, _, ok := m.machine.Highlighted(); ok && res.Mutated {
			m.setStatus(fmt.Sprintf("%s updated", k), 1500)
		}
	}
}

func (m *Model) yank() {
	k, v, present, ok := m.machine.Highlighted()
	switch {
	case !ok:
		m.setStatus("nothing selected", 1500)
	case !present:
		m.setStatus(fmt.Sprintf("%s is not set", k), 2000)
	default:
		if err := m.clipboard(v); err != nil {
			log.Printf("clipboard: %v", err)
			m.setStatus(fmt.Sprintf("copy failed: %v", err), 3500)
			return
		}
		m.setStatus(fmt.Sprintf("copied %s", k), 2000)
	}
}

func (m *Model) setStatus(s string, ms int) {
	m.status = s
	m.statusUntil = time.Now().Add(time.Duration(ms) * time.Millisecond)
}
