package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ront3t/beers-table/internal/api"
	"github.com/ront3t/beers-table/internal/types"
	"github.com/ront3t/beers-table/internal/ui/styles"
)

const (
	colGap    = 2
	colMin    = 6
	colMaxStd = 32
	colMaxImg = 48
)

// BeerTable is a component that displays the accumulated beer rows
type BeerTable struct {
	Rows     []types.Beer
	Selected int
	Styles   styles.Styles
	Width    int
	Height   int

	// row shown in place of the stored one while it is being edited
	Editing bool
	EditID  int
	Draft   types.Beer
	Focus   string // field under the editor cursor
}

// NewBeerTable creates a new table component
func NewBeerTable(s styles.Styles) BeerTable {
	return BeerTable{
		Rows:   []types.Beer{},
		Styles: s,
	}
}

// SetRows sets the rows, keeping the selection in range
func (t *BeerTable) SetRows(rows []types.Beer) {
	t.Rows = rows
	if t.Selected >= len(rows) {
		t.Selected = max(0, len(rows)-1)
	}
}

// SetSize sets the dimensions of the table
func (t *BeerTable) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// MoveUp moves the selection up
func (t *BeerTable) MoveUp() {
	if t.Selected > 0 {
		t.Selected--
	}
}

// MoveDown moves the selection down
func (t *BeerTable) MoveDown() {
	if t.Selected < len(t.Rows)-1 {
		t.Selected++
	}
}

// PageUp moves the selection up by a page
func (t *BeerTable) PageUp() {
	t.Selected = max(0, t.Selected-t.visibleRows())
}

// PageDown moves the selection down by a page
func (t *BeerTable) PageDown() {
	t.Selected = max(0, min(len(t.Rows)-1, t.Selected+t.visibleRows()))
}

// GoToTop moves the selection to the top
func (t *BeerTable) GoToTop() {
	t.Selected = 0
}

// GoToBottom moves the selection to the bottom
func (t *BeerTable) GoToBottom() {
	if len(t.Rows) > 0 {
		t.Selected = len(t.Rows) - 1
	}
}

// SelectedBeer returns the currently selected row
func (t *BeerTable) SelectedBeer() *types.Beer {
	if t.Selected >= 0 && t.Selected < len(t.Rows) {
		return &t.Rows[t.Selected]
	}
	return nil
}

// NearEnd reports whether the selection is within threshold rows of the last row.
func (t *BeerTable) NearEnd(threshold int) bool {
	if len(t.Rows) == 0 {
		return false
	}
	return t.Selected >= len(t.Rows)-1-threshold
}

func (t *BeerTable) visibleRows() int {
	// header, its border, loading row and scroll indicator
	n := t.Height - 4
	if n < 1 {
		n = 10
	}
	return n
}

// Columns derives the display columns: the known fields, then every
// extension field seen in rows, sorted.
func Columns(rows []types.Beer) []string {
	if len(rows) == 0 {
		return types.FallbackColumns
	}
	cols := types.Beer{}.Columns()
	seen := make(map[string]bool)
	var extra []string
	for _, r := range rows {
		for k := range r.Extra {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

// View renders the table. loading appends spinnerView as a trailing row.
func (t *BeerTable) View(loading bool, spinnerView string) string {
	cols := Columns(t.Rows)
	widths := t.columnWidths(cols)

	rows := []string{t.renderHeader(cols, widths)}

	if len(t.Rows) == 0 && !loading {
		rows = append(rows, t.Styles.Dimmed.Render("No data found."))
		return strings.Join(rows, "\n")
	}

	visible := t.visibleRows()
	startIdx := 0
	if t.Selected >= visible {
		startIdx = t.Selected - visible + 1
	}
	endIdx := min(startIdx+visible, len(t.Rows))

	for i := startIdx; i < endIdx; i++ {
		rows = append(rows, t.renderRow(t.Rows[i], cols, widths, i == t.Selected))
	}

	if loading {
		rows = append(rows, spinnerView+" "+t.Styles.Dimmed.Render("loading beers..."))
	}

	if len(t.Rows) > visible {
		rows = append(rows, t.Styles.Dimmed.Render(fmt.Sprintf(" %d/%d ", t.Selected+1, len(t.Rows))))
	}

	return strings.Join(rows, "\n")
}

func (t *BeerTable) columnWidths(cols []string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		w := lipgloss.Width(c)
		for _, r := range t.Rows {
			w = max(w, lipgloss.Width(r.Field(c)))
		}
		limit := colMaxStd
		if c == types.FieldImage {
			limit = colMaxImg
		}
		widths[i] = max(colMin, min(w, limit))
	}

	if t.Width <= 0 {
		return widths
	}
	avail := t.Width - colGap*(len(cols)-1)
	for sum(widths) > avail {
		// shrink the widest column first
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= colMin {
			break
		}
		widths[widest]--
	}
	return widths
}

func sum(ns []int) int {
	total := 0
	for _, n := range ns {
		total += n
	}
	return total
}

// renderHeader renders the header row
func (t *BeerTable) renderHeader(cols []string, widths []int) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = pad(strings.ToUpper(c), widths[i])
	}
	return t.Styles.Header.Render(strings.Join(cells, strings.Repeat(" ", colGap)))
}

// renderRow renders a single row
func (t *BeerTable) renderRow(b types.Beer, cols []string, widths []int, selected bool) string {
	editing := t.Editing && b.ID == t.EditID
	if editing {
		b = t.Draft
	}

	cells := make([]string, len(cols))
	for i, c := range cols {
		text := pad(b.Field(c), widths[i])
		switch {
		case editing && (c == t.Focus || (c == types.FieldRating && strings.HasPrefix(t.Focus, "rating."))):
			cells[i] = t.Styles.FieldFocus.Render(text)
		case selected || editing:
			cells[i] = text
		case c == types.FieldPrice:
			cells[i] = t.Styles.Price.Render(text)
		case c == types.FieldRating:
			cells[i] = t.Styles.Rating.Render(text)
		case c == types.FieldImage:
			cells[i] = t.Styles.Image.Render(text)
		default:
			cells[i] = t.Styles.Cell.Render(text)
		}
	}
	row := strings.Join(cells, strings.Repeat(" ", colGap))

	switch {
	case editing:
		return t.Styles.Editing.Render(row)
	case selected:
		return t.Styles.Selected.Render(row)
	}
	return row
}

func pad(s string, width int) string {
	s = api.TruncateString(s, width)
	if gap := width - lipgloss.Width(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}
