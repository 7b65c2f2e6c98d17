// Package ui holds the lipgloss styling for the steve chat interface.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, shared by both themes.
var (
	colorSuccess = lipgloss.Color("#7cb342")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#fbc02d")
)

// Theme holds one color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light scheme.
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#1a1c23"),
		Primary:    lipgloss.Color("#3949ab"),
		Accent:     lipgloss.Color("#00897b"),
		Muted:      lipgloss.Color("#8a8f98"),
		Border:     lipgloss.Color("#d4d7dd"),
		IsDark:     false,
	}
}

// DarkTheme returns the dark scheme.
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#e8eaed"),
		Primary:    lipgloss.Color("#7986cb"),
		Accent:     lipgloss.Color("#4db6ac"),
		Muted:      lipgloss.Color("#6b7280"),
		Border:     lipgloss.Color("#3a3f4b"),
		IsDark:     true,
	}
}

// DetectTheme picks dark or light from the environment. COLORFGBG is the
// closest thing terminals have to a standard; STEVE_DARK_MODE=1 forces dark.
func DetectTheme() Theme {
	if os.Getenv("STEVE_DARK_MODE") == "1" {
		return DarkTheme()
	}
	if fgbg := os.Getenv("COLORFGBG"); fgbg != "" {
		parts := strings.Split(fgbg, ";")
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if bg >= 0 && bg <= 8 && bg != 7 {
				return DarkTheme()
			}
		}
	}
	return LightTheme()
}

// Styles bundles the rendered lipgloss styles for the chat surface.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserText       lipgloss.Style
	ToolLine       lipgloss.Style
	Muted          lipgloss.Style

	Prompt  lipgloss.Style
	Spinner lipgloss.Style
	Badge   lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Divider lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			MarginTop(1),

		UserLabel: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginTop(1),

		AssistantLabel: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			MarginTop(1),

		UserText: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		ToolLine: lipgloss.NewStyle().
			Foreground(theme.Muted).
			PaddingLeft(2),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider draws a horizontal rule of the given width.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
