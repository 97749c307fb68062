package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ront3t/beers-table/internal/api"
	"github.com/ront3t/beers-table/internal/ui/styles"
)

// DeleteRequest is returned when the user confirms a row deletion.
type DeleteRequest struct {
	ID int
}

// ConfirmDialog handles the delete confirmation prompt (y/esc).
type ConfirmDialog struct {
	active bool
	id     int
	name   string
}

func (cd *ConfirmDialog) Open(id int, name string) {
	cd.active = true
	cd.id = id
	cd.name = name
}

func (cd ConfirmDialog) Active() bool { return cd.active }

// Update handles key input. A non-nil request means the user confirmed.
func (cd ConfirmDialog) Update(msg tea.KeyMsg) (ConfirmDialog, *DeleteRequest) {
	switch msg.String() {
	case "y":
		cd.active = false
		return cd, &DeleteRequest{ID: cd.id}
	case "n", "esc", "q":
		cd.active = false
	}
	return cd, nil
}

// HelpView returns the help bar when the confirm dialog is active.
func (cd ConfirmDialog) HelpView(s styles.Styles) string {
	return s.Normal.Render("delete "+api.TruncateString(cd.name, 40)+"?") + "  " +
		s.HelpKey.Render("y") + " " + s.HelpDesc.Render("yes") + "  " +
		s.HelpKey.Render("esc") + " " + s.HelpDesc.Render("cancel")
}
