package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a App) View() string {
	w, h := a.width, a.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	if a.help.ShowFull {
		return lipgloss.NewStyle().Width(w).Height(h).Render(a.help.Render())
	}

	body := a.table.View(a.loader.Loading(), a.spinner.View())
	if a.picker.Active() {
		body = lipgloss.JoinVertical(lipgloss.Left,
			a.styles.Border.Render(strings.Join(a.picker.View(a.styles, min(w-4, 40)), "\n")),
			body,
		)
	}

	footer := a.renderFooter(w)
	bodyH := max(1, h-1-lipgloss.Height(footer))

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderTitle(w),
		lipgloss.NewStyle().Width(w).Height(bodyH).MaxHeight(bodyH).Render(body),
		footer,
	)
}

// renderTitle renders "BeerTok" followed by the category tabs.
func (a App) renderTitle(width int) string {
	title := a.styles.Title.Render("BeerTok") + " " + a.styles.Dimmed.Render(Version)

	active := a.loader.Category()
	parts := make([]string, 0, len(a.categories))
	for _, c := range a.categories {
		if c == active {
			parts = append(parts, a.styles.TabActive.Render(c))
		} else {
			parts = append(parts, a.styles.Tab.Render(c))
		}
	}
	tabs := strings.Join(parts, " ")

	status := a.styles.Dimmed.Render(fmt.Sprintf("%d rows", a.loader.Len()))
	if !a.loader.HasMore() {
		status += a.styles.Dimmed.Render(" · end")
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(tabs) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	return title + " " + tabs + strings.Repeat(" ", gap) + status
}

func (a App) renderFooter(width int) string {
	switch {
	case a.confirm.Active():
		return a.confirm.HelpView(a.styles)
	case a.picker.Active():
		return a.picker.HelpView(a.styles)
	case a.editor.Active():
		return a.editor.View(a.styles) + "\n" + a.help.Render()
	case a.message != "":
		return a.styles.Dimmed.Render(a.message)
	case a.loader.LastError() != nil:
		return a.styles.Error.Render("could not load beers") + "  " + a.help.Render()
	}
	return a.help.Render()
}
