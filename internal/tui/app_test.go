package tui_test

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/forkify/internal/api"
	"github.com/nikbrunner/forkify/internal/controller"
	"github.com/nikbrunner/forkify/internal/forkifytest"
	"github.com/nikbrunner/forkify/internal/state"
	"github.com/nikbrunner/forkify/internal/storage"
	"github.com/nikbrunner/forkify/internal/tui"
	"github.com/sirupsen/logrus"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type testEnv struct {
	app     tui.App
	regions controller.Regions
	history *controller.MemoryHistory
	copied  []string
	clipErr error
}

func newTestEnv(t *testing.T, fragment string, recipes ...forkifytest.Recipe) *testEnv {
	t.Helper()

	server := forkifytest.NewServer(recipes...)
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	client := api.NewClient(api.ClientParams{
		BaseURL: server.BaseURL(),
		APIKey:  "test-key",
		Logger:  log,
	})
	store, err := state.New(state.StoreParams{
		Gateway: client,
		Storage: storage.NewFileStorage(filepath.Join(t.TempDir(), "bookmarks.json")),
		Logger:  log,
	})
	assert.NilError(t, err)

	env := &testEnv{
		regions: controller.NewRegions(),
		history: controller.NewMemoryHistory(fragment),
	}
	ctrl := controller.New(controller.Params{
		Store:           store,
		Regions:         env.regions,
		History:         env.history,
		ModalCloseDelay: 10 * time.Millisecond,
		Logger:          log,
	})
	env.app = tui.NewApp(tui.AppParams{
		Controller: ctrl,
		Regions:    env.regions,
		History:    env.history,
		Clipboard: func(s string) error {
			if env.clipErr != nil {
				return env.clipErr
			}
			env.copied = append(env.copied, s)
			return nil
		},
	}).WithDimensions(120, 40)

	env.drain(env.app.Init())
	return env
}

// press sends keys to the app. Commands returned by plain key presses are
// input housekeeping and are dropped.
func (e *testEnv) press(keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = e.app.Update(k)
		e.app = m.(tui.App)
	}
	return cmd
}

// run sends keys and runs the command of the last one to completion.
func (e *testEnv) run(keys ...tea.KeyMsg) {
	e.drain(e.press(keys...))
}

// drain runs cmd and feeds its messages back into the app until no work
// is left. Spinner ticks are dropped so animations never block.
func (e *testEnv) drain(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg, tea.QuitMsg, nil:
		default:
			m, c := e.app.Update(msg)
			e.app = m.(tui.App)
			queue = append(queue, c)
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return keys
}

var (
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	esc      = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlS    = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func (e *testEnv) search(query string) {
	e.press(runes("/"))
	e.press(typeText(query)...)
	e.run(enter)
}

func previewIDs(previews []tui.Preview) []string {
	ids := make([]string, len(previews))
	for i, p := range previews {
		ids[i] = p.ID
	}
	return ids
}

func TestApp_StartShowsWelcome(t *testing.T) {
	env := newTestEnv(t, "")

	assert.Equal(t, env.app.Mode(), tui.ModeNormal)
	assert.Equal(t, env.app.Focus(), tui.PaneResults)
	assert.Assert(t, !env.app.Loading())

	view := env.app.View()
	assert.Assert(t, is.Contains(view, "Start by searching"))
	assert.Assert(t, is.Contains(view, "No bookmarks yet"))
}

func TestApp_InitLoadsFragment(t *testing.T) {
	pizza := forkifytest.Pizza()
	env := newTestEnv(t, pizza.ID, pizza)

	card, _, ok := tui.ReadRecipe(env.regions.Recipe)
	assert.Assert(t, ok)
	assert.Equal(t, card.Title, "Pizza Dough")
	assert.Assert(t, !env.app.Loading())
	assert.Assert(t, is.Contains(env.app.View(), "Pizza Dough"))
}

func TestApp_SearchAndOpen(t *testing.T) {
	env := newTestEnv(t, "", forkifytest.Pastas(25)...)

	env.press(runes("/"))
	assert.Equal(t, env.app.Mode(), tui.ModeSearch)

	env.press(typeText("pasta")...)
	env.run(enter)
	assert.Equal(t, env.app.Mode(), tui.ModeNormal)

	previews, notice := tui.ReadPreviews(env.regions.Results)
	assert.Equal(t, notice.Kind, tui.NoticeNone)
	assert.Equal(t, len(previews), 10)

	env.press(runes("j"))
	env.run(enter)

	assert.Equal(t, env.history.Fragment(), "pasta-2")
	card, _, ok := tui.ReadRecipe(env.regions.Recipe)
	assert.Assert(t, ok)
	assert.Equal(t, card.Title, "Pasta Dish 2")

	previews, _ = tui.ReadPreviews(env.regions.Results)
	assert.Assert(t, !previews[0].Active)
	assert.Assert(t, previews[1].Active)
}

func TestApp_SearchCancel(t *testing.T) {
	env := newTestEnv(t, "", forkifytest.Pastas(3)...)

	env.press(runes("/"))
	env.press(typeText("pasta")...)
	env.press(esc)

	assert.Equal(t, env.app.Mode(), tui.ModeNormal)
	previews, _ := tui.ReadPreviews(env.regions.Results)
	assert.Equal(t, len(previews), 0)
}

func TestApp_SearchNoResults(t *testing.T) {
	env := newTestEnv(t, "", forkifytest.Pastas(3)...)

	env.search("curry")

	_, notice := tui.ReadPreviews(env.regions.Results)
	assert.Equal(t, notice.Kind, tui.NoticeError)
	assert.Equal(t, notice.Text, controller.ResultsErrorMessage)
}

func TestApp_Pagination(t *testing.T) {
	env := newTestEnv(t, "", forkifytest.Pastas(25)...)
	env.search("pasta")

	env.press(runes("n"))
	previews, _ := tui.ReadPreviews(env.regions.Results)
	assert.Equal(t, previews[0].ID, "pasta-11")

	env.press(runes("n"))
	previews, _ = tui.ReadPreviews(env.regions.Results)
	assert.DeepEqual(t, previewIDs(previews), []string{"pasta-21", "pasta-22", "pasta-23", "pasta-24", "pasta-25"})

	// No next page on the last page
	env.press(runes("n"))
	previews, _ = tui.ReadPreviews(env.regions.Results)
	assert.Equal(t, previews[0].ID, "pasta-21")

	env.press(runes("p"))
	previews, _ = tui.ReadPreviews(env.regions.Results)
	assert.Equal(t, previews[0].ID, "pasta-11")
}

func TestApp_Servings(t *testing.T) {
	pizza := forkifytest.Pizza()
	env := newTestEnv(t, pizza.ID, pizza)

	env.press(runes("+"))
	card, _, _ := tui.ReadRecipe(env.regions.Recipe)
	assert.Equal(t, card.Servings, "5")

	env.press(runes("-"), runes("-"), runes("-"), runes("-"))
	card, _, _ = tui.ReadRecipe(env.regions.Recipe)
	assert.Equal(t, card.Servings, "1")
	assert.Equal(t, card.ServingsDown, 0)

	// Below one serving is ignored
	env.press(runes("-"))
	card, _, _ = tui.ReadRecipe(env.regions.Recipe)
	assert.Equal(t, card.Servings, "1")
}

func TestApp_ServingsWithoutRecipe(t *testing.T) {
	env := newTestEnv(t, "")

	env.press(runes("+"))

	_, notice, ok := tui.ReadRecipe(env.regions.Recipe)
	assert.Assert(t, !ok)
	assert.Equal(t, notice.Kind, tui.NoticeMessage)
}

func TestApp_BookmarkAndDelete(t *testing.T) {
	pizza := forkifytest.Pizza()
	env := newTestEnv(t, pizza.ID, pizza)

	env.press(runes("b"))

	card, _, _ := tui.ReadRecipe(env.regions.Recipe)
	assert.Assert(t, card.Bookmarked)
	bookmarks, _ := tui.ReadPreviews(env.regions.Bookmarks)
	assert.DeepEqual(t, previewIDs(bookmarks), []string{pizza.ID})
	assert.Assert(t, bookmarks[0].Active)

	// Delete only acts on the bookmarks pane
	env.press(runes("d"))
	bookmarks, _ = tui.ReadPreviews(env.regions.Bookmarks)
	assert.Equal(t, len(bookmarks), 1)

	env.press(tab)
	assert.Equal(t, env.app.Focus(), tui.PaneBookmarks)
	env.press(runes("d"))

	bookmarks, notice := tui.ReadPreviews(env.regions.Bookmarks)
	assert.Equal(t, len(bookmarks), 0)
	assert.Equal(t, notice.Text, controller.BookmarksErrorMessage)
	card, _, _ = tui.ReadRecipe(env.regions.Recipe)
	assert.Assert(t, !card.Bookmarked)
}

func TestApp_OpenBookmarkAndBack(t *testing.T) {
	recipes := append(forkifytest.Pastas(2), forkifytest.Pizza())
	env := newTestEnv(t, "", recipes...)

	env.search("pasta")
	env.run(enter)
	env.press(runes("b"))
	assert.Equal(t, env.history.Fragment(), "pasta-1")

	env.press(runes("j"))
	env.run(enter)
	assert.Equal(t, env.history.Fragment(), "pasta-2")

	env.press(tab)
	env.run(enter)
	card, _, _ := tui.ReadRecipe(env.regions.Recipe)
	assert.Equal(t, card.Title, "Pasta Dish 1")

	env.run(runes("h"))
	assert.Equal(t, env.history.Fragment(), "pasta-2")
	card, _, _ = tui.ReadRecipe(env.regions.Recipe)
	assert.Equal(t, card.Title, "Pasta Dish 2")
}

func TestApp_FocusCycle(t *testing.T) {
	env := newTestEnv(t, "")

	var got []tui.Pane
	for range 4 {
		env.press(tab)
		got = append(got, env.app.Focus())
	}
	assert.DeepEqual(t, got, []tui.Pane{tui.PaneBookmarks, tui.PaneRecipe, tui.PaneResults, tui.PaneBookmarks})
}

func TestApp_YankURL(t *testing.T) {
	pizza := forkifytest.Pizza()
	env := newTestEnv(t, pizza.ID, pizza)

	env.press(runes("Y"))

	assert.DeepEqual(t, env.copied, []string{pizza.SourceURL})
	assert.Assert(t, is.Contains(env.app.Status(), pizza.SourceURL))
}

func TestApp_YankURLWithoutRecipe(t *testing.T) {
	env := newTestEnv(t, "")

	env.press(runes("Y"))

	assert.Equal(t, len(env.copied), 0)
	assert.Equal(t, env.app.Status(), "No recipe to copy")
}

func TestApp_YankURLFails(t *testing.T) {
	pizza := forkifytest.Pizza()
	env := newTestEnv(t, pizza.ID, pizza)
	env.clipErr = errors.New("no clipboard")

	env.press(runes("Y"))
	assert.Equal(t, env.app.Status(), "Copy failed: no clipboard")
}

func TestApp_Upload(t *testing.T) {
	env := newTestEnv(t, "")

	env.press(runes("u"))
	assert.Equal(t, env.app.Mode(), tui.ModeUpload)
	assert.Assert(t, is.Contains(env.app.View(), "Add recipe"))

	fields := []string{"Test Soup", "https://example.com/soup", "https://example.com/soup.jpg", "Me", "20", "2", "0.5,kg,carrots"}
	for i, value := range fields {
		if i > 0 {
			env.press(tab)
		}
		env.press(typeText(value)...)
	}
	env.run(ctrlS)

	assert.Equal(t, env.app.Mode(), tui.ModeNormal)
	assert.Assert(t, env.history.Fragment() != "")

	card, _, ok := tui.ReadRecipe(env.regions.Recipe)
	assert.Assert(t, ok)
	assert.Equal(t, card.Title, "Test Soup")
	assert.Assert(t, card.User)
	assert.Assert(t, card.Bookmarked)
	assert.DeepEqual(t, card.Ingredients, []string{"1/2 kg carrots"})

	bookmarks, _ := tui.ReadPreviews(env.regions.Bookmarks)
	assert.Equal(t, len(bookmarks), 1)
	assert.Assert(t, bookmarks[0].User)

	// The panel reopens empty
	env.press(runes("u"))
	assert.Assert(t, env.regions.Upload.IsEmpty())
}

func TestApp_UploadInvalidIngredient(t *testing.T) {
	env := newTestEnv(t, "")

	env.press(runes("u"))
	// Wrap around to the last ingredient field
	env.press(shiftTab)
	env.press(typeText("just flour")...)
	env.run(ctrlS)

	assert.Equal(t, env.app.Mode(), tui.ModeUpload)
	view := env.app.View()
	assert.Assert(t, is.Contains(view, "wrong ingredient format"))
	assert.Equal(t, env.history.Fragment(), "")

	env.press(esc)
	assert.Equal(t, env.app.Mode(), tui.ModeNormal)
	assert.Assert(t, env.regions.Upload.IsEmpty())
}

func TestApp_Quit(t *testing.T) {
	env := newTestEnv(t, "")

	cmd := env.press(runes("q"))
	assert.Assert(t, cmd != nil)
	_, ok := cmd().(tea.QuitMsg)
	assert.Assert(t, ok)
}

func TestApp_View_Dimensions(t *testing.T) {
	pizza := forkifytest.Pizza()
	env := newTestEnv(t, pizza.ID, pizza)

	view := env.app.View()
	lines := strings.Split(view, "\n")
	assert.Equal(t, len(lines), 40)
	assert.Assert(t, is.Contains(view, "Recipe ingredients"))
	assert.Assert(t, is.Contains(view, "2 cups flour"))
}
