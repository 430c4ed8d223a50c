package editor

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the lipgloss styles used by the view.
//
// Resolution order (LoadTheme):
//  1. the name passed in (from the settings file)
//  2. env var SSHCFG_THEME = none | dark | light | catppuccin
//  3. automatic: dark, or none when NO_COLOR is set or TERM is dumb
type Theme struct {
	Name string

	Header   lipgloss.Style
	Modified lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Status   lipgloss.Style

	// Panel borders: Active for the panel that receives keys.
	Active   lipgloss.Style
	Inactive lipgloss.Style
	EditBox  lipgloss.Style
}

// LoadTheme resolves a theme by name, falling back to the environment and
// then to automatic detection. Unknown names fall through to the next source.
func LoadTheme(name string) Theme {
	if t, ok := ThemeByName(name); ok {
		return t
	}
	if t, ok := ThemeByName(os.Getenv("SSHCFG_THEME")); ok {
		return t
	}
	return AutoTheme()
}

// ThemeByName returns the named built-in theme.
func ThemeByName(name string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off", "disabled":
		return NoTheme(), true
	case "dark":
		return DarkTheme(), true
	case "light":
		return LightTheme(), true
	case "catppuccin", "catppuccin-mocha", "mocha":
		return CatppuccinMochaTheme(), true
	}
	return Theme{}, false
}

// AutoTheme picks DarkTheme unless the terminal should not get color.
func AutoTheme() Theme {
	if !terminalSupportsColor() {
		return NoTheme()
	}
	return DarkTheme()
}

// NoTheme keeps layout (borders, markers) but uses no color or attributes.
func NoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:     "none",
		Header:   plain,
		Modified: plain,
		Selected: plain,
		Dim:      plain,
		Status:   plain,
		Active:   plain.Border(lipgloss.ThickBorder()),
		Inactive: plain.Border(lipgloss.NormalBorder()),
		EditBox:  plain.Border(lipgloss.RoundedBorder()),
	}
}

// DarkTheme is the default palette for dark terminals.
func DarkTheme() Theme {
	return palette("dark", "15", "36", "214", "240", "236")
}

// LightTheme is a palette for light terminals.
func LightTheme() Theme {
	return palette("light", "0", "25", "166", "245", "254")
}

// CatppuccinMochaTheme approximates Catppuccin Mocha with 256-color codes.
func CatppuccinMochaTheme() Theme {
	return palette("catppuccin", "183", "44", "216", "245", "237")
}

func palette(name, header, accent, warn, dim, selBG string) Theme {
	return Theme{
		Name:     name,
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(header)),
		Modified: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(warn)),
		Selected: lipgloss.NewStyle().Bold(true).Background(lipgloss.Color(selBG)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(dim)),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color(accent)),
		Active: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(accent)),
		Inactive: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(dim)),
		EditBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(warn)),
	}
}

func terminalSupportsColor() bool {
	// https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return term != "dumb"
}
