// Package ui provides the visual styling and shared widgets for the
// Preserva interactive terminal client, with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"preserva/internal/document"
)

var (
	// Light mode colors
	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#1a2536")
	LightPrimary    = lipgloss.Color("#1d4ed8")
	LightAccent     = lipgloss.Color("#0d9488")
	LightSecondary  = lipgloss.Color("#e1e4e8")
	LightMuted      = lipgloss.Color("#6b7280")
	LightBorder     = lipgloss.Color("#dce0e5")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#141d2b")
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#60a5fa")
	DarkAccent     = lipgloss.Color("#2dd4bf")
	DarkSecondary  = lipgloss.Color("#1e2a3d")
	DarkMuted      = lipgloss.Color("#8b97a8")
	DarkBorder     = lipgloss.Color("#2a3850")
	DarkCard       = lipgloss.Color("#1a2536")

	// Semantic colors (same in both modes); the badge palette mirrors the
	// portal's status colors.
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#2e7d32")
	Warning     = lipgloss.Color("#b45309")
	Info        = lipgloss.Color("#2196F3")
	Neutral     = lipgloss.Color("#6b7280")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from the terminal environment, defaulting to
// light mode.
func DetectTheme() Theme {
	if colorFgBg := os.Getenv("COLORFGBG"); colorFgBg != "" {
		parts := strings.Split(colorFgBg, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM_PROGRAM")), "dark") {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeByName resolves a configured theme name.
func ThemeByName(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}
	return DetectTheme()
}

// Styles holds every pre-built style the pages render with.
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	Dialog       lipgloss.Style
	FieldLabel   lipgloss.Style
	FieldError   lipgloss.Style
	Spinner      lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns styles for the light theme.
func DefaultStyles() Styles {
	return NewStyles(LightTheme())
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		SelectedCard: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent),

		Dialog: lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Primary),

		FieldLabel: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Bold(true),

		FieldError: lipgloss.NewStyle().
			Foreground(Destructive),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// StatusBadge renders the colored badge for a preservation status. Legacy
// lowercase statuses get the palette of their closest canonical stage.
func (s Styles) StatusBadge(st document.Status) string {
	style := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#ffffff"))
	switch st {
	case document.StatusPreservado, "aprovado":
		style = style.Background(Success)
	case document.StatusFalha, "rejeitado":
		style = style.Background(Destructive)
	case document.StatusIniciado, document.StatusProcessando, "pendente", "em análise":
		style = style.Background(Warning)
	default:
		style = style.Background(Neutral)
	}
	return style.Render(st.Label())
}
