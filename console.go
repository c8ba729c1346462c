package prettylogs

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Per-level console styles. Fatal gets a background to stand out in a
// shutdown sequence.
var levelStyles = map[Level]lipgloss.Style{
	LevelTrace:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	LevelWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	LevelFatal:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Bold(true),
}

// levelTag renders the bracketed level token for the console line.
func levelTag(l Level, colorize bool) string {
	tag := "[" + l.String() + "]"
	if !colorize {
		return tag
	}
	if style, ok := levelStyles[l]; ok {
		return style.Render(tag)
	}
	return tag
}

// stdoutIsTerminal decides the default for Config.Colorize so piped output
// stays free of escape sequences.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
