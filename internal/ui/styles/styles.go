package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ront3t/beers-table/internal/config"
)

// Theme is the palette the styles are built from.
type Theme struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
}

// ThemeFromConfig converts the configured hex colors.
func ThemeFromConfig(t config.Theme) Theme {
	return Theme{
		Background: lipgloss.Color(t.Background),
		Surface:    lipgloss.Color(t.Surface),
		Primary:    lipgloss.Color(t.Primary),
		Secondary:  lipgloss.Color(t.Secondary),
		Text:       lipgloss.Color(t.Text),
		Muted:      lipgloss.Color(t.Muted),
		Border:     lipgloss.Color(t.Border),
	}
}

// DefaultTheme returns the built-in dark palette.
func DefaultTheme() Theme {
	return ThemeFromConfig(config.DefaultTheme())
}

// Styles contains all the lipgloss styles for the UI
type Styles struct {
	Theme Theme

	Title      lipgloss.Style
	Tab        lipgloss.Style
	TabActive  lipgloss.Style
	Header     lipgloss.Style
	Cell       lipgloss.Style
	Selected   lipgloss.Style
	Editing    lipgloss.Style
	FieldLabel lipgloss.Style
	FieldFocus lipgloss.Style
	Price      lipgloss.Style
	Rating     lipgloss.Style
	Image      lipgloss.Style
	Normal     lipgloss.Style
	Dimmed     lipgloss.Style
	Spinner    lipgloss.Style
	Help       lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
	Error      lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles builds the UI styles from t
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),

		Tab: lipgloss.NewStyle().
			Foreground(t.Muted).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Background(t.Primary).
			Foreground(t.Text).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(t.Border),

		Cell: lipgloss.NewStyle().
			Foreground(t.Text),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Background(t.Surface).
			Foreground(t.Text),

		Editing: lipgloss.NewStyle().
			Bold(true).
			Background(t.Surface).
			Foreground(t.Secondary),

		FieldLabel: lipgloss.NewStyle().
			Foreground(t.Muted),

		FieldFocus: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),

		Price: lipgloss.NewStyle().
			Foreground(t.Secondary),

		Rating: lipgloss.NewStyle().
			Foreground(t.Primary),

		Image: lipgloss.NewStyle().
			Foreground(t.Muted).
			Underline(true),

		Normal: lipgloss.NewStyle().
			Foreground(t.Text),

		Dimmed: lipgloss.NewStyle().
			Foreground(t.Muted),

		Spinner: lipgloss.NewStyle().
			Foreground(t.Primary),

		Help: lipgloss.NewStyle().
			Foreground(t.Muted).
			MarginTop(1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Muted),

		Error: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
	}
}

// DefaultStyles returns the default styles for the UI
func DefaultStyles() Styles {
	return NewStyles(DefaultTheme())
}
