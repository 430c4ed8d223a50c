package editor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a key press classified for the state machine.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionAbort
	ActionDown
	ActionUp
	ActionFirst
	ActionLast
	ActionDelete
	ActionOpen
	ActionBack
	ActionYank
	ActionCancel
	ActionCommit
	ActionHelp
)

var actionNames = map[Action]string{
	ActionNone:   "none",
	ActionQuit:   "quit",
	ActionAbort:  "abort",
	ActionDown:   "down",
	ActionUp:     "up",
	ActionFirst:  "first",
	ActionLast:   "last",
	ActionDelete: "delete",
	ActionOpen:   "open",
	ActionBack:   "back",
	ActionYank:   "yank",
	ActionCancel: "cancel",
	ActionCommit: "commit",
	ActionHelp:   "help",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// KeyMap binds keys to actions. Bindings may overlap across modes (esc is
// quit in Main/Select and cancel in Edit); a mode only consults its own set.
type KeyMap struct {
	Quit   key.Binding
	Abort  key.Binding
	Down   key.Binding
	Up     key.Binding
	First  key.Binding
	Last   key.Binding
	Delete key.Binding
	Open   key.Binding
	Back   key.Binding
	Yank   key.Binding
	Cancel key.Binding
	Commit key.Binding
	Help   key.Binding
}

// DefaultKeyMap returns vim-ish bindings with arrow-key equivalents.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "save & quit"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Open: key.NewBinding(
			key.WithKeys("l", "right", "enter"),
			key.WithHelp("→/l", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "back"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy value"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save field"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

func (k *KeyMap) binding(a Action) *key.Binding {
	switch a {
	case ActionQuit:
		return &k.Quit
	case ActionAbort:
		return &k.Abort
	case ActionDown:
		return &k.Down
	case ActionUp:
		return &k.Up
	case ActionFirst:
		return &k.First
	case ActionLast:
		return &k.Last
	case ActionDelete:
		return &k.Delete
	case ActionOpen:
		return &k.Open
	case ActionBack:
		return &k.Back
	case ActionYank:
		return &k.Yank
	case ActionCancel:
		return &k.Cancel
	case ActionCommit:
		return &k.Commit
	case ActionHelp:
		return &k.Help
	}
	return nil
}

// WithOverrides replaces the keys of the named actions. Action names are the
// lowercase names returned by Action.String. Help text is updated to show the
// first key.
func (k KeyMap) WithOverrides(overrides map[string][]string) (KeyMap, error) {
	names := make([]string, 0, len(overrides))
	for n := range overrides {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		keys := overrides[name]
		a, ok := actionByName(name)
		if !ok {
			return k, fmt.Errorf("keys.%s: unknown action", name)
		}
		if len(keys) == 0 {
			return k, fmt.Errorf("keys.%s: at least one key is required", name)
		}
		b := k.binding(a)
		desc := b.Help().Desc
		*b = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], desc),
		)
	}
	return k, nil
}

func actionByName(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if a != ActionNone && n == name {
			return a, true
		}
	}
	return ActionNone, false
}

// classify returns the first action in candidates whose binding matches msg.
func (k KeyMap) classify(msg tea.KeyMsg, candidates ...Action) Action {
	for _, a := range candidates {
		if b := k.binding(a); b != nil && key.Matches(msg, *b) {
			return a
		}
	}
	return ActionNone
}

// Per-mode action sets, in match priority order.
var (
	mainActions   = []Action{ActionAbort, ActionQuit, ActionDown, ActionUp, ActionFirst, ActionLast, ActionDelete, ActionOpen}
	selectActions = []Action{ActionAbort, ActionQuit, ActionDown, ActionUp, ActionBack, ActionDelete, ActionOpen, ActionYank}
	editActions   = []Action{ActionAbort, ActionCancel, ActionCommit}
)

type helpMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h helpMap) ShortHelp() []key.Binding  { return h.short }
func (h helpMap) FullHelp() [][]key.Binding { return h.full }

// helpFor returns the bindings shown in the footer for mode.
func (k KeyMap) helpFor(mode Mode) helpMap {
	switch mode.(type) {
	case SelectMode:
		return helpMap{
			short: []key.Binding{k.Down, k.Up, k.Open, k.Back, k.Delete, k.Help, k.Quit},
			full:  [][]key.Binding{{k.Down, k.Up}, {k.Open, k.Back}, {k.Delete, k.Yank}, {k.Help, k.Quit, k.Abort}},
		}
	case EditMode:
		return helpMap{
			short: []key.Binding{k.Commit, k.Cancel},
			full:  [][]key.Binding{{k.Commit, k.Cancel, k.Abort}},
		}
	default:
		return helpMap{
			short: []key.Binding{k.Down, k.Up, k.Open, k.First, k.Last, k.Delete, k.Help, k.Quit},
			full:  [][]key.Binding{{k.Down, k.Up, k.First, k.Last}, {k.Open, k.Delete}, {k.Help, k.Quit, k.Abort}},
		}
	}
}
