package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"sshcfg/pkg/sshconfig"
)

const (
	noneValue       = "<None>"
	nothingSelected = "Nothing selected"
	editBoxMaxWidth = 72
)

func (m Model) View() string {
	if !m.ready {
		return "sshcfg: loading...\n"
	}

	header := m.headerLine()
	footer := m.help.View(m.keys.helpFor(m.machine.Mode))
	status := m.statusLine()

	var editBox string
	if e, ok := m.machine.Mode.(EditMode); ok {
		editBox = m.editBox(e)
	}

	// header and status take one line each; panel borders take two.
	bodyHeight := m.height - 2 - lipgloss.Height(footer) - 2
	if editBox != "" {
		bodyHeight -= lipgloss.Height(editBox)
	}
	bodyHeight = max(bodyHeight, 1)

	leftWidth := max(m.width/2-2, 4)
	rightWidth := max(m.width-m.width/2-2, 4)

	hostStyle, fieldStyle := m.theme.Inactive, m.theme.Inactive
	switch m.machine.Mode.(type) {
	case MainMode:
		hostStyle = m.theme.Active
	default:
		fieldStyle = m.theme.Active
	}

	left := hostStyle.Width(leftWidth).Height(bodyHeight).
		Render(strings.Join(m.hostLines(leftWidth, bodyHeight), "\n"))
	right := fieldStyle.Width(rightWidth).Height(bodyHeight).
		Render(strings.Join(m.fieldLines(rightWidth, bodyHeight), "\n"))

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n")
	if editBox != "" {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, editBox) + "\n")
	}
	b.WriteString(status + "\n")
	b.WriteString(footer)
	return b.String()
}

func (m Model) headerLine() string {
	title := "sshcfg"
	if m.title != "" {
		title += " - " + m.title
	}
	line := m.theme.Header.Render(title)
	if m.machine.Dirty {
		line += " " + m.theme.Modified.Render("[+]")
	}
	return line
}

func (m Model) statusLine() string {
	if m.status != "" && time.Now().Before(m.statusUntil) {
		return m.theme.Status.Render(m.status)
	}
	n := len(m.machine.Records)
	noun := "hosts"
	if n == 1 {
		noun = "host"
	}
	return m.theme.Dim.Render(fmt.Sprintf("%s · %d %s", m.machine.Mode.modeName(), n, noun))
}

func (m Model) hostLines(width, height int) []string {
	recs := m.machine.Records
	if len(recs) == 0 {
		return []string{m.theme.Dim.Render("(no hosts)")}
	}
	start, end := scrollWindow(len(recs), m.machine.ListCursor, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		name := recs[i].Host
		if name == "" {
			name = "(empty)"
		}
		if i == m.machine.ListCursor {
			lines = append(lines, m.theme.Selected.Render(ansi.Truncate("> "+name, width, "…")))
			continue
		}
		lines = append(lines, ansi.Truncate("  "+name, width, "…"))
	}
	return lines
}

func (m Model) fieldLines(width, height int) []string {
	rec, ok := m.focusedRecord()
	if !ok {
		return []string{m.theme.Dim.Render(nothingSelected)}
	}
	keys := sshconfig.AllKeys()
	start, end := scrollWindow(len(keys), m.machine.FieldCursor, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		k := keys[i]
		v, present := rec.Get(k)
		text := k.String() + ": "
		if present {
			text += v
			if k == sshconfig.IdentityFile {
				if fp := m.fps.lookup(v); fp != "" {
					text += "  " + fp
				}
			}
		} else {
			text += noneValue
		}
		text = ansi.Truncate(text, width, "…")
		switch {
		case i == m.machine.FieldCursor && m.inRecord():
			lines = append(lines, m.theme.Selected.Render(text))
		case !present:
			lines = append(lines, m.theme.Dim.Render(text))
		default:
			lines = append(lines, text)
		}
	}
	return lines
}

func (m Model) editBox(e EditMode) string {
	w := min(editBoxMaxWidth, max(m.width-4, 10))
	e.Buffer.Width = w - 1
	title := m.theme.Header.Render(e.Key.String())
	return m.theme.EditBox.Width(w).Render(title + "\n" + e.Buffer.View())
}

// focusedRecord is the record shown in the field panel: the open record in
// Select and Edit, otherwise the one under the list cursor.
func (m Model) focusedRecord() (sshconfig.Record, bool) {
	switch mode := m.machine.Mode.(type) {
	case SelectMode:
		return m.machine.Records[mode.Record], true
	case EditMode:
		return m.machine.Records[mode.Record], true
	}
	if rec, ok := m.machine.Selected(); ok {
		return *rec, true
	}
	return sshconfig.Record{}, false
}

func (m Model) inRecord() bool {
	_, isMain := m.machine.Mode.(MainMode)
	return !isMain
}

// scrollWindow returns the [start,end) slice of n items to show in height
// rows so that cursor stays visible.
func scrollWindow(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	return start, start + height
}
