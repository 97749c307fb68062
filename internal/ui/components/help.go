package components

import (
	"strings"

	"github.com/ront3t/beers-table/internal/ui/styles"
)

// Help views.
const (
	HelpTable = "table"
	HelpEdit  = "edit"
)

// Help is a component for displaying help information
type Help struct {
	Styles   styles.Styles
	ShowFull bool
	View     string // HelpTable or HelpEdit
}

// NewHelp creates a new help component
func NewHelp(s styles.Styles) Help {
	return Help{
		Styles:   s,
		ShowFull: false,
		View:     HelpTable,
	}
}

// SetView sets the current view
func (h *Help) SetView(view string) {
	h.View = view
}

// Toggle toggles between short and full help
func (h *Help) Toggle() {
	h.ShowFull = !h.ShowFull
}

// Render renders the help bar
func (h *Help) Render() string {
	if h.ShowFull {
		return h.renderFull()
	}
	return h.renderShort()
}

// renderShort renders the short help bar
func (h *Help) renderShort() string {
	var items []string

	if h.View == HelpEdit {
		items = []string{
			h.formatKey("tab", "next field"),
			h.formatKey("shift+tab", "prev field"),
			h.formatKey("enter", "save"),
			h.formatKey("esc", "cancel"),
		}
	} else {
		items = []string{
			h.formatKey("↑/k", "up"),
			h.formatKey("↓/j", "down"),
			h.formatKey("c", "category"),
			h.formatKey("e", "edit"),
			h.formatKey("x", "delete"),
			h.formatKey("R", "refresh"),
			h.formatKey("?", "help"),
			h.formatKey("q", "quit"),
		}
	}

	return h.Styles.Help.Render(strings.Join(items, "  "))
}

// renderFull renders the full help
func (h *Help) renderFull() string {
	var sb strings.Builder

	sb.WriteString(h.Styles.Title.Render("Keyboard Shortcuts"))
	sb.WriteString("\n\n")

	sb.WriteString(h.Styles.FieldLabel.Render("Navigation"))
	sb.WriteString("\n")
	sb.WriteString(h.formatKeyFull("↑/k", "Move cursor up"))
	sb.WriteString(h.formatKeyFull("↓/j", "Move cursor down, loading more near the end"))
	sb.WriteString(h.formatKeyFull("g/Home", "Go to top"))
	sb.WriteString(h.formatKeyFull("G/End", "Go to bottom"))
	sb.WriteString(h.formatKeyFull("PgUp/ctrl+b", "Page up"))
	sb.WriteString(h.formatKeyFull("PgDn/ctrl+f", "Page down"))
	sb.WriteString("\n")

	sb.WriteString(h.Styles.FieldLabel.Render("Categories"))
	sb.WriteString("\n")
	sb.WriteString(h.formatKeyFull("c/tab", "Pick a category"))
	sb.WriteString(h.formatKeyFull("h/l", "Previous / next category"))
	sb.WriteString(h.formatKeyFull("R", "Reload the category"))
	sb.WriteString("\n")

	sb.WriteString(h.Styles.FieldLabel.Render("Rows"))
	sb.WriteString("\n")
	sb.WriteString(h.formatKeyFull("e/enter", "Edit the selected row"))
	sb.WriteString(h.formatKeyFull("tab", "Next field while editing"))
	sb.WriteString(h.formatKeyFull("enter", "Save the edit"))
	sb.WriteString(h.formatKeyFull("esc", "Discard the edit"))
	sb.WriteString(h.formatKeyFull("x", "Delete the selected row"))
	sb.WriteString("\n")

	sb.WriteString(h.Styles.FieldLabel.Render("General"))
	sb.WriteString("\n")
	sb.WriteString(h.formatKeyFull("?", "Toggle this help"))
	sb.WriteString(h.formatKeyFull("q", "Quit"))

	return sb.String()
}

// formatKey formats a key binding for short help
func (h *Help) formatKey(key, desc string) string {
	return h.Styles.HelpKey.Render(key) + " " + h.Styles.HelpDesc.Render(desc)
}

// formatKeyFull formats a key binding for full help
func (h *Help) formatKeyFull(key, desc string) string {
	return "  " + h.Styles.HelpKey.Render(padRight(key, 15)) + h.Styles.Normal.Render(desc) + "\n"
}

// padRight pads a string to the right
func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
