package terminal

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette colors
var (
	colorText   = lipgloss.Color("#cdd6f4")
	colorDim    = lipgloss.Color("#6c7086")
	colorYellow = lipgloss.Color("#f9e2af")
	colorGreen  = lipgloss.Color("#a6e3a1")
	colorRed    = lipgloss.Color("#f38ba8")
	colorCyan   = lipgloss.Color("#89dceb")
)

// Styles renders hook console output. The zero value renders plain text.
type Styles struct {
	enabled bool

	heading lipgloss.Style
	rule    lipgloss.Style
	dim     lipgloss.Style
	warn    lipgloss.Style
	success lipgloss.Style
	errorSt lipgloss.Style
}

// NewStyles returns styled output when enabled, plain text otherwise
func NewStyles(enabled bool) Styles {
	return Styles{
		enabled: enabled,
		heading: lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
		rule:    lipgloss.NewStyle().Foreground(colorText).Bold(true),
		dim:     lipgloss.NewStyle().Foreground(colorDim),
		warn:    lipgloss.NewStyle().Foreground(colorYellow),
		success: lipgloss.NewStyle().Foreground(colorGreen),
		errorSt: lipgloss.NewStyle().Foreground(colorRed),
	}
}

// ForFile enables styling when f is a terminal
func ForFile(f *os.File) Styles {
	return NewStyles(IsTerminal(f))
}

func (s Styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

// Heading is used for section banners
func (s Styles) Heading(text string) string { return s.render(s.heading, text) }

// Rule is used for learning rules
func (s Styles) Rule(text string) string { return s.render(s.rule, text) }

// Dim is used for secondary text such as evidence
func (s Styles) Dim(text string) string { return s.render(s.dim, text) }

// Warn is used for skipped or partial outcomes
func (s Styles) Warn(text string) string { return s.render(s.warn, text) }

// Success is used for applied outcomes
func (s Styles) Success(text string) string { return s.render(s.success, text) }

// Error is used for failures
func (s Styles) Error(text string) string { return s.render(s.errorSt, text) }

// IsTerminal checks if f is a character device
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
