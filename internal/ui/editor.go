package ui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ront3t/beers-table/internal/loader"
	"github.com/ront3t/beers-table/internal/ui/keys"
	"github.com/ront3t/beers-table/internal/ui/styles"
)

// EditOutcome reports how an edit session ended.
type EditOutcome int

const (
	EditCommitted EditOutcome = iota + 1
	EditCancelled
)

// RowEditor edits the loader's draft one field at a time. Every keystroke
// is written through to the draft.
type RowEditor struct {
	active bool
	input  textinput.Model
	fields []string
	idx    int
}

func NewRowEditor() RowEditor {
	in := textinput.New()
	in.CharLimit = 256
	in.Prompt = "› "
	return RowEditor{input: in}
}

// Open starts editing draft from its first field.
func (re *RowEditor) Open(draft loader.Draft) tea.Cmd {
	re.active = true
	re.fields = draft.EditableFields()
	re.idx = 0
	re.load(draft)
	re.input.Focus()
	return textinput.Blink
}

// Close hides the editor without touching the loader.
func (re *RowEditor) Close() {
	re.active = false
	re.input.Blur()
}

// Active returns whether the editor is currently showing.
func (re RowEditor) Active() bool { return re.active }

// Field returns the field under the cursor.
func (re RowEditor) Field() string {
	if len(re.fields) == 0 {
		return ""
	}
	return re.fields[re.idx]
}

func (re *RowEditor) load(draft loader.Draft) {
	re.input.SetValue(draft.Value(re.Field()))
	re.input.CursorEnd()
}

// Update handles key events while editing. The outcome is non-zero when the
// session ends; the caller commits or cancels on the loader.
func (re RowEditor) Update(msg tea.KeyMsg, km keys.KeyMap, l *loader.Loader) (RowEditor, tea.Cmd, EditOutcome) {
	switch {
	case key.Matches(msg, km.Back):
		re.Close()
		return re, nil, EditCancelled

	case key.Matches(msg, km.Commit):
		re.Close()
		return re, nil, EditCommitted

	case key.Matches(msg, km.NextField):
		re.idx = (re.idx + 1) % len(re.fields)
		re.load(l.Draft())
		return re, nil, 0

	case key.Matches(msg, km.PrevField):
		re.idx = (re.idx - 1 + len(re.fields)) % len(re.fields)
		re.load(l.Draft())
		return re, nil, 0
	}

	var cmd tea.Cmd
	re.input, cmd = re.input.Update(msg)
	if err := l.UpdateField(re.Field(), re.input.Value()); err != nil {
		slog.Warn("update draft field", "field", re.Field(), "error", err)
	}
	return re, cmd, 0
}

// View renders the field tabs and the input.
func (re RowEditor) View(s styles.Styles) string {
	tabs := make([]string, len(re.fields))
	for i, f := range re.fields {
		if i == re.idx {
			tabs[i] = s.FieldFocus.Render(f)
		} else {
			tabs[i] = s.FieldLabel.Render(f)
		}
	}
	return strings.Join(tabs, s.Dimmed.Render(" · ")) + "\n" + re.input.View()
}
