package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ront3t/beers-table/internal/ui/styles"
)

func TestConfirmDialog(t *testing.T) {
	t.Run("open and cancel", func(t *testing.T) {
		var cd ConfirmDialog
		assert.False(t, cd.Active())

		cd.Open(7, "Porter")
		assert.True(t, cd.Active())

		cd, req := cd.Update(tea.KeyMsg{Type: tea.KeyEscape})
		assert.False(t, cd.Active())
		assert.Nil(t, req)
	})

	t.Run("confirm with y", func(t *testing.T) {
		var cd ConfirmDialog
		cd.Open(7, "Porter")

		cd, req := cd.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
		assert.False(t, cd.Active())
		require.NotNil(t, req)
		assert.Equal(t, 7, req.ID)
	})

	t.Run("other keys keep it open", func(t *testing.T) {
		var cd ConfirmDialog
		cd.Open(7, "Porter")

		cd, req := cd.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
		assert.True(t, cd.Active())
		assert.Nil(t, req)
	})

	t.Run("help view names the row", func(t *testing.T) {
		var cd ConfirmDialog
		cd.Open(3, "Imperial Stout")
		assert.Contains(t, cd.HelpView(styles.DefaultStyles()), "Imperial Stout")
	})
}
