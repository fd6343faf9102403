// Package tui is the terminal front end. It paints the live regions and
// turns key presses into controller calls.
package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/forkify/internal/controller"
	"github.com/nikbrunner/forkify/internal/tui/layout"
)

// Mode is the input mode of the app.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeUpload
)

// Pane identifies a focusable pane.
type Pane int

const (
	PaneResults Pane = iota
	PaneBookmarks
	PaneRecipe
	paneCount
)

// doneMsg reports the end of a controller call run in the background.
type doneMsg struct {
	err error
}

// uploadDoneMsg reports the end of an upload.
type uploadDoneMsg struct {
	closeAfter time.Duration
	err        error
}

// closeUploadMsg closes the upload panel after a successful upload.
type closeUploadMsg struct{}

// App is the main bubbletea model.
type App struct {
	ctrl         *controller.Controller
	regions      controller.Regions
	history      *controller.MemoryHistory
	ctx          context.Context
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	copyToClip   func(string) error

	mode  Mode
	focus Pane

	resultsCursor   int
	bookmarksCursor int
	recipeScroll    int

	searchInput textinput.Model
	upload      UploadState
	spinner     spinner.Model
	pending     int    // background calls in flight
	status      string // transient status line

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Controller   *controller.Controller
	Regions      controller.Regions
	History      *controller.MemoryHistory
	Context      context.Context     // optional, defaults to context.Background()
	Keys         *KeyMap             // optional, uses default if nil
	Styles       *Styles             // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Clipboard    func(string) error  // optional, defaults to the system clipboard
}

// NewApp creates a new App and draws the initial screen.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search over 1,000,000 recipes..."
	searchInput.CharLimit = layoutCfg.Input.SearchCharLimit
	searchInput.Width = layoutCfg.Input.SearchWidth

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Title

	app := App{
		ctrl:         params.Controller,
		regions:      params.Regions,
		history:      params.History,
		ctx:          ctx,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		copyToClip:   copyFn,
		searchInput:  searchInput,
		upload:       NewUploadState(layoutCfg),
		spinner:      spin,
		width:        80,
		height:       24,
	}

	app.ctrl.Start()
	if app.history.Fragment() != "" {
		app.pending = 1
	}
	return app
}

// WithDimensions returns a copy of the app with the given window size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Focus returns the focused pane.
func (a App) Focus() Pane {
	return a.focus
}

// Status returns the transient status line.
func (a App) Status() string {
	return a.status
}

// Loading reports whether background calls are in flight.
func (a App) Loading() bool {
	return a.pending > 0
}

// Init implements tea.Model. It loads the recipe the history points at.
func (a App) Init() tea.Cmd {
	id := a.history.Fragment()
	if id == "" {
		return nil
	}
	ctrl, ctx := a.ctrl, a.ctx
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		return doneMsg{err: ctrl.ControlRecipes(ctx, id)}
	})
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		if a.pending == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case doneMsg:
		a.finish()
		a.clampCursors()
		return a, nil

	case uploadDoneMsg:
		a.finish()
		if msg.err != nil {
			return a, nil
		}
		a.clampCursors()
		return a, tea.Tick(msg.closeAfter, func(time.Time) tea.Msg {
			return closeUploadMsg{}
		})

	case closeUploadMsg:
		if a.mode == ModeUpload {
			a.closeUpload()
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeUpload:
			return a.updateUpload(msg)
		default:
			return a.updateNormal(msg)
		}
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.status = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.searchInput.Reset()
		a.searchInput.Focus()
		return a, nil

	case key.Matches(msg, a.keys.NextPane):
		a.focus = (a.focus + 1) % paneCount
		return a, nil

	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
		return a, nil

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
		return a, nil

	case key.Matches(msg, a.keys.Select):
		if id := a.selectedID(); id != "" {
			return a, a.openRecipe(id)
		}
		return a, nil

	case key.Matches(msg, a.keys.Back):
		prev := a.history.Back()
		if prev == "" {
			return a, nil
		}
		ctrl, ctx := a.ctrl, a.ctx
		return a, a.dispatch(func() error { return ctrl.ControlRecipes(ctx, prev) })

	case key.Matches(msg, a.keys.NextPage), key.Matches(msg, a.keys.PrevPage):
		prev, next := ReadPagination(a.regions.Pagination)
		page := next
		if key.Matches(msg, a.keys.PrevPage) {
			page = prev
		}
		if page > 0 {
			a.ctrl.ControlPagination(page)
			a.resultsCursor = 0
		}
		return a, nil

	case key.Matches(msg, a.keys.ServingsUp), key.Matches(msg, a.keys.ServingsDown):
		if !a.recipeReady() {
			return a, nil
		}
		card, _, _ := ReadRecipe(a.regions.Recipe)
		target := card.ServingsUp
		if key.Matches(msg, a.keys.ServingsDown) {
			target = card.ServingsDown
		}
		if target > 0 {
			_ = a.ctrl.ControlServings(target)
		}
		return a, nil

	case key.Matches(msg, a.keys.Bookmark):
		if a.recipeReady() {
			_ = a.ctrl.ControlAddBookmark()
			a.clampCursors()
		}
		return a, nil

	case key.Matches(msg, a.keys.Delete):
		if a.focus != PaneBookmarks {
			return a, nil
		}
		if id := a.selectedID(); id != "" {
			_ = a.ctrl.ControlDeleteBookmark(id)
			a.clampCursors()
		}
		return a, nil

	case key.Matches(msg, a.keys.Upload):
		a.mode = ModeUpload
		a.upload.Reset()
		a.ctrl.ResetUpload()
		return a, nil

	case key.Matches(msg, a.keys.YankURL):
		a.yankURL()
		return a, nil
	}

	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.searchInput.Blur()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		query := a.searchInput.Value()
		a.mode = ModeNormal
		a.searchInput.Blur()
		a.focus = PaneResults
		a.resultsCursor = 0
		ctrl, ctx := a.ctrl, a.ctx
		return a, a.dispatch(func() error { return ctrl.ControlSearchResults(ctx, query) })
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a App) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.closeUpload()
		return a, nil

	case key.Matches(msg, a.keys.Submit),
		key.Matches(msg, a.keys.Confirm) && a.upload.OnLastField():
		return a, a.submitUpload()

	case key.Matches(msg, a.keys.NextField), key.Matches(msg, a.keys.Confirm):
		a.upload.Next()
		return a, nil

	case key.Matches(msg, a.keys.PrevField):
		a.upload.Prev()
		return a, nil
	}

	return a, a.upload.Update(msg)
}

// dispatch runs fn in the background and starts the spinner.
func (a *App) dispatch(fn func() error) tea.Cmd {
	a.pending++
	run := func() tea.Msg { return doneMsg{err: fn()} }
	if a.pending == 1 {
		return tea.Batch(run, a.spinner.Tick)
	}
	return run
}

func (a *App) finish() {
	if a.pending > 0 {
		a.pending--
	}
}

func (a *App) openRecipe(id string) tea.Cmd {
	a.history.PushFragment(id)
	a.recipeScroll = 0
	ctrl, ctx := a.ctrl, a.ctx
	return a.dispatch(func() error { return ctrl.ControlRecipes(ctx, id) })
}

func (a *App) submitUpload() tea.Cmd {
	form := a.upload.Form()
	ctrl, ctx := a.ctrl, a.ctx
	a.pending++
	run := func() tea.Msg {
		delay, err := ctrl.ControlAddRecipe(ctx, form)
		return uploadDoneMsg{closeAfter: delay, err: err}
	}
	if a.pending == 1 {
		return tea.Batch(run, a.spinner.Tick)
	}
	return run
}

func (a *App) closeUpload() {
	a.mode = ModeNormal
	a.upload.Reset()
	a.ctrl.ResetUpload()
}

// recipeReady reports whether a recipe is shown and not being replaced.
func (a App) recipeReady() bool {
	if a.ctrl.RecipeStatus() == controller.StatusLoading {
		return false
	}
	_, _, ok := ReadRecipe(a.regions.Recipe)
	return ok
}

func (a *App) yankURL() {
	card, _, ok := ReadRecipe(a.regions.Recipe)
	if !ok || card.SourceURL == "" {
		a.status = "No recipe to copy"
		return
	}
	if err := a.copyToClip(card.SourceURL); err != nil {
		a.status = "Copy failed: " + err.Error()
		return
	}
	a.status = "Copied " + card.SourceURL
}

func (a *App) moveCursor(delta int) {
	switch a.focus {
	case PaneResults:
		previews, _ := ReadPreviews(a.regions.Results)
		a.resultsCursor = clamp(a.resultsCursor+delta, len(previews))
	case PaneBookmarks:
		previews, _ := ReadPreviews(a.regions.Bookmarks)
		a.bookmarksCursor = clamp(a.bookmarksCursor+delta, len(previews))
	case PaneRecipe:
		a.recipeScroll += delta
		if a.recipeScroll < 0 {
			a.recipeScroll = 0
		}
	}
}

func (a *App) clampCursors() {
	results, _ := ReadPreviews(a.regions.Results)
	a.resultsCursor = clamp(a.resultsCursor, len(results))
	bookmarks, _ := ReadPreviews(a.regions.Bookmarks)
	a.bookmarksCursor = clamp(a.bookmarksCursor, len(bookmarks))
}

// selectedID returns the id of the preview under the cursor in the
// focused list, or "".
func (a App) selectedID() string {
	var previews []Preview
	var cursor int
	switch a.focus {
	case PaneResults:
		previews, _ = ReadPreviews(a.regions.Results)
		cursor = a.resultsCursor
	case PaneBookmarks:
		previews, _ = ReadPreviews(a.regions.Bookmarks)
		cursor = a.bookmarksCursor
	default:
		return ""
	}
	if cursor < 0 || cursor >= len(previews) {
		return ""
	}
	return previews[cursor].ID
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
