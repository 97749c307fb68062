package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ront3t/beers-table/internal/api"
	"github.com/ront3t/beers-table/internal/ui/styles"
)

// CategoryPickResult is returned when the picker closes with a selection.
type CategoryPickResult struct {
	Chosen string
}

// CategoryPicker manages the category popover. The typed text is offered
// as the last candidate unless it names a listed category exactly, so any
// name can be loaded verbatim.
type CategoryPicker struct {
	active           bool
	input            textinput.Model
	categories       []string
	suggestionCursor int
	// navigated is set once the cursor moves after the last keystroke
	navigated bool
}

func NewCategoryPicker() CategoryPicker {
	ci := textinput.New()
	ci.Placeholder = "filter categories..."
	ci.CharLimit = 64
	return CategoryPicker{input: ci}
}

// Open activates the picker with the cursor on current.
func (cp *CategoryPicker) Open(categories []string, current string) tea.Cmd {
	cp.active = true
	cp.categories = categories
	cp.input.SetValue("")
	cp.input.Focus()
	cp.suggestionCursor = 0
	cp.navigated = false
	for i, c := range categories {
		if c == current {
			cp.suggestionCursor = i
		}
	}
	return textinput.Blink
}

// Active returns whether the picker is currently showing.
func (cp CategoryPicker) Active() bool { return cp.active }

// Update handles key events while the picker is active.
// Returns (updated picker, cmd, result).
// result is non-nil when the picker closes with a selection.
func (cp CategoryPicker) Update(msg tea.KeyMsg) (CategoryPicker, tea.Cmd, *CategoryPickResult) {
	switch msg.Type {
	case tea.KeyEscape:
		cp.active = false
		cp.input.Blur()
		return cp, nil, nil

	case tea.KeyEnter:
		chosen := cp.typed()
		candidates := cp.candidates()
		if len(candidates) > 0 && (cp.navigated || !slices.Contains(cp.categories, chosen)) {
			chosen = candidates[min(cp.suggestionCursor, len(candidates)-1)]
		}
		cp.active = false
		cp.input.Blur()
		if chosen != "" {
			return cp, nil, &CategoryPickResult{Chosen: chosen}
		}
		return cp, nil, nil

	case tea.KeyUp, tea.KeyShiftTab:
		if cp.suggestionCursor > 0 {
			cp.suggestionCursor--
		}
		cp.navigated = true
		return cp, nil, nil

	case tea.KeyDown, tea.KeyTab:
		if cp.suggestionCursor < len(cp.candidates())-1 {
			cp.suggestionCursor++
		}
		cp.navigated = true
		return cp, nil, nil

	default:
		var cmd tea.Cmd
		cp.input, cmd = cp.input.Update(msg)
		cp.suggestionCursor = 0
		cp.navigated = false
		return cp, cmd, nil
	}
}

func (cp CategoryPicker) typed() string {
	return strings.TrimSpace(cp.input.Value())
}

// verbatim reports whether the typed text needs its own candidate.
func (cp CategoryPicker) verbatim() bool {
	t := cp.typed()
	return t != "" && !slices.Contains(cp.categories, t)
}

// candidates is the filtered list followed by the typed text, if any.
func (cp CategoryPicker) candidates() []string {
	out := cp.filtered()
	if cp.verbatim() {
		out = append(out, cp.typed())
	}
	return out
}

func (cp CategoryPicker) filtered() []string {
	q := strings.ToLower(cp.input.Value())
	var out []string
	for _, c := range cp.categories {
		if q == "" || strings.Contains(strings.ToLower(c), q) {
			out = append(out, c)
		}
	}
	return out
}

// View renders the category input + suggestion list as individual rows.
func (cp CategoryPicker) View(s styles.Styles, width int) []string {
	const maxSugg = 6

	rows := []string{cp.input.View()}
	suggestions := cp.filtered()
	for i, c := range suggestions[:min(maxSugg, len(suggestions))] {
		if i == cp.suggestionCursor {
			rows = append(rows, s.Selected.Render("> "+api.TruncateString(c, width-4)))
		} else {
			rows = append(rows, s.Dimmed.Render("  "+api.TruncateString(c, width-4)))
		}
	}
	if cp.verbatim() {
		label := "↵ load \"" + api.TruncateString(cp.typed(), width-12) + "\""
		if cp.suggestionCursor == len(suggestions) {
			rows = append(rows, s.Selected.Render("> "+label))
		} else {
			rows = append(rows, s.Dimmed.Render("  "+label))
		}
	}
	return rows
}

// HelpView returns the help bar text when the picker is active.
func (cp CategoryPicker) HelpView(s styles.Styles) string {
	return s.Dimmed.Render("↑/↓ navigate  ↵ load  esc cancel")
}
