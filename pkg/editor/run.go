package editor

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"sshcfg/pkg/sshconfig"
)

// Options configures an editing session. The zero value is usable.
type Options struct {
	// Title is shown in the header, typically the input path.
	Title string

	KeyMap *KeyMap
	Theme  *Theme

	// Input and Output override the program's terminal (tests).
	Input  io.Reader
	Output io.Writer

	// Clipboard receives yanked values. Defaults to the system clipboard.
	Clipboard func(string) error

	NoAltScreen bool
}

// Run drives an interactive session over records until the operator quits.
// It returns the final records and whether they were modified. The input
// slice is not changed.
func Run(ctx context.Context, records []sshconfig.Record, opts Options) ([]sshconfig.Record, bool, error) {
	m := NewModel(records, opts)

	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !opts.NoAltScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(m, popts...).Run()
	if err != nil {
		return records, false, fmt.Errorf("editor session: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return records, false, fmt.Errorf("editor session: unexpected model %T", final)
	}
	return fm.machine.Records, fm.machine.Dirty, nil
}
