package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ront3t/beers-table/internal/api"
	"github.com/ront3t/beers-table/internal/config"
	"github.com/ront3t/beers-table/internal/loader"
	"github.com/ront3t/beers-table/internal/types"
	"github.com/ront3t/beers-table/internal/ui/components"
	"github.com/ront3t/beers-table/internal/ui/keys"
	"github.com/ront3t/beers-table/internal/ui/styles"
)

// override at build time
//
//	go build -ldflags "-X 'github.com/ront3t/beers-table/internal/ui.Version=1.2.3'"
var Version string = "dev"

// Fetcher loads one window of a category.
type Fetcher interface {
	FetchPage(ctx context.Context, category string, limit, offset int) ([]types.Beer, error)
}

// App is the top-level tea.Model.
type App struct {
	config *config.Config
	client Fetcher
	styles styles.Styles
	keys   keys.KeyMap

	loader     *loader.Loader
	categories []string
	initial    loader.Request

	width, height int
	message       string
	msgSeq        int

	table   components.BeerTable
	help    components.Help
	spinner spinner.Model
	picker  CategoryPicker
	confirm ConfirmDialog
	editor  RowEditor
}

// NewApp builds the app against the proxy named in cfg.
func NewApp(cfg *config.Config) App {
	client := api.NewClient(cfg.APIURL, time.Duration(cfg.RequestTimeout)*time.Second)
	return NewAppWithClient(cfg, client)
}

// NewAppWithClient builds the app against any Fetcher.
func NewAppWithClient(cfg *config.Config, client Fetcher) App {
	s := styles.NewStyles(styles.ThemeFromConfig(cfg.Theme))
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner))

	l := loader.New(cfg.PageSize)
	initial := l.SelectCategory(cfg.DefaultCategory)

	return App{
		config:     cfg,
		client:     client,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		loader:     l,
		categories: cfg.Categories,
		initial:    initial,
		table:      components.NewBeerTable(s),
		help:       components.NewHelp(s),
		spinner:    sp,
		picker:     NewCategoryPicker(),
		editor:     NewRowEditor(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.fetch(a.initial), a.spinner.Tick)
}

func (a App) fetch(req loader.Request) tea.Cmd {
	return fetchPage(a.client, req, time.Duration(a.config.RequestTimeout)*time.Second)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.table.SetSize(msg.Width, a.tableHeight())
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		if a.overlayActive() || msg.Action != tea.MouseActionPress {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.table.MoveUp()
		case tea.MouseButtonWheelDown:
			a.table.MoveDown()
			return a, a.maybeLoadMore()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loader.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case pageLoadedMsg:
		if !a.loader.Resolve(msg.req, msg.beers, msg.err) {
			return a, nil
		}
		a.syncTable()
		if msg.err != nil {
			return a, a.flash("error: " + msg.err.Error())
		}
		return a, nil

	case clearMsgMsg:
		if msg.seq == a.msgSeq {
			a.message = ""
		}
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch {
	case a.confirm.Active():
		var req *DeleteRequest
		a.confirm, req = a.confirm.Update(msg)
		if req == nil {
			return a, nil
		}
		if !a.loader.DeleteRow(req.ID) {
			return a, a.flash(fmt.Sprintf("row %d is gone", req.ID))
		}
		a.syncTable()
		return a, a.flash("deleted")

	case a.picker.Active():
		var (
			cmd    tea.Cmd
			result *CategoryPickResult
		)
		a.picker, cmd, result = a.picker.Update(msg)
		if result != nil {
			return a, a.selectCategory(result.Chosen)
		}
		return a, cmd

	case a.editor.Active():
		var (
			cmd     tea.Cmd
			outcome EditOutcome
		)
		a.editor, cmd, outcome = a.editor.Update(msg, a.keys, a.loader)
		switch outcome {
		case EditCommitted:
			if err := a.loader.CommitEdit(); err != nil {
				slog.Error("commit edit", "error", err)
			}
			a.help.SetView(components.HelpTable)
			a.syncTable()
			return a, a.flash("saved")
		case EditCancelled:
			a.loader.CancelEdit()
			a.help.SetView(components.HelpTable)
			a.syncTable()
			return a, nil
		}
		a.syncTable()
		return a, cmd
	}

	km := a.keys
	switch {
	case key.Matches(msg, km.Quit):
		return a, tea.Quit

	case key.Matches(msg, km.Help):
		a.help.Toggle()

	case a.help.ShowFull && key.Matches(msg, km.Back):
		a.help.Toggle()

	case key.Matches(msg, km.Up):
		a.table.MoveUp()

	case key.Matches(msg, km.Down):
		a.table.MoveDown()
		return a, a.maybeLoadMore()

	case key.Matches(msg, km.PageUp):
		a.table.PageUp()

	case key.Matches(msg, km.PageDown):
		a.table.PageDown()
		return a, a.maybeLoadMore()

	case key.Matches(msg, km.Top):
		a.table.GoToTop()

	case key.Matches(msg, km.Bottom):
		a.table.GoToBottom()
		return a, a.maybeLoadMore()

	case key.Matches(msg, km.Category):
		return a, a.picker.Open(a.categories, a.loader.Category())

	case key.Matches(msg, km.PrevCategory):
		return a, a.selectCategory(cycle(a.categories, a.loader.Category(), -1))

	case key.Matches(msg, km.NextCategory):
		return a, a.selectCategory(cycle(a.categories, a.loader.Category(), 1))

	case key.Matches(msg, km.Refresh):
		return a, a.selectCategory(a.loader.Category())

	case key.Matches(msg, km.Edit):
		b := a.table.SelectedBeer()
		if b == nil {
			return a, nil
		}
		if err := a.loader.BeginEdit(b.ID); err != nil {
			return a, a.flash("error: " + err.Error())
		}
		a.help.SetView(components.HelpEdit)
		cmd := a.editor.Open(a.loader.Draft())
		a.syncTable()
		return a, cmd

	case key.Matches(msg, km.Delete):
		if b := a.table.SelectedBeer(); b != nil {
			a.confirm.Open(b.ID, b.Name)
		}
	}
	return a, nil
}

// selectCategory resets the loader to c and starts its first fetch.
func (a *App) selectCategory(c string) tea.Cmd {
	a.editor.Close()
	a.help.SetView(components.HelpTable)
	a.categories = withCategory(a.categories, c)
	req := a.loader.SelectCategory(c)
	a.table.SetRows(nil)
	a.table.GoToTop()
	a.syncTable()
	slog.Info("category selected", "category", c)
	return tea.Batch(a.fetch(req), a.spinner.Tick)
}

// maybeLoadMore requests the next window once the cursor is near the end.
func (a *App) maybeLoadMore() tea.Cmd {
	if !a.table.NearEnd(a.config.ScrollThreshold) {
		return nil
	}
	req, ok := a.loader.LoadMore()
	if !ok {
		return nil
	}
	return tea.Batch(a.fetch(req), a.spinner.Tick)
}

// syncTable copies the loader's rows and edit state into the table.
func (a *App) syncTable() {
	a.table.SetRows(a.loader.Items())
	id, editing := a.loader.Editing()
	a.table.Editing = editing
	a.table.EditID = id
	a.table.Draft = types.Beer{}
	a.table.Focus = ""
	if editing {
		a.table.Draft = a.loader.Draft().Beer()
		a.table.Focus = a.editor.Field()
	}
}

func (a *App) flash(msg string) tea.Cmd {
	a.msgSeq++
	a.message = msg
	return clearMsg(a.msgSeq, time.Duration(a.config.MsgTimeout)*time.Second)
}

func (a App) overlayActive() bool {
	return a.confirm.Active() || a.picker.Active() || a.editor.Active()
}

// tableHeight is the room left after the title bar and the footer.
func (a App) tableHeight() int {
	return max(5, a.height-4)
}
