package controller_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nikbrunner/forkify/internal/api"
	"github.com/nikbrunner/forkify/internal/controller"
	"github.com/nikbrunner/forkify/internal/forkifytest"
	"github.com/nikbrunner/forkify/internal/model"
	"github.com/nikbrunner/forkify/internal/render"
	"github.com/nikbrunner/forkify/internal/state"
	"github.com/nikbrunner/forkify/internal/storage"
	"github.com/sirupsen/logrus"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type harness struct {
	server  *forkifytest.Server
	store   *state.Store
	regions controller.Regions
	history *controller.MemoryHistory
	ctrl    *controller.Controller
}

func newHarness(t *testing.T, recipes ...forkifytest.Recipe) *harness {
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

	h := &harness{
		server:  server,
		store:   store,
		regions: controller.NewRegions(),
		history: controller.NewMemoryHistory(""),
	}
	h.ctrl = controller.New(controller.Params{
		Store:           store,
		Regions:         h.regions,
		History:         h.history,
		ModalCloseDelay: 100 * time.Millisecond,
		Logger:          log,
	})
	return h
}

// open simulates a location change to id.
func (h *harness) open(t *testing.T, id string) error {
	t.Helper()
	h.history.PushFragment(id)
	return h.ctrl.ControlRecipes(context.Background(), id)
}

func query(t *testing.T, r *render.Region) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.HTML()))
	assert.NilError(t, err)
	return doc
}

func findNode(r *render.Region, class string) *goquery.Selection {
	doc := goquery.NewDocumentFromNode(r.Elements()[0].Parent)
	return doc.Find("." + class)
}

func TestStart(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Start()

	assert.Equal(t, query(t, h.regions.Recipe).Find(".message p").Text(), controller.RecipeMessage)
	assert.Equal(t, query(t, h.regions.Bookmarks).Find(".error p").Text(), controller.BookmarksErrorMessage)
	assert.Equal(t, h.ctrl.RecipeStatus(), controller.StatusIdle)
}

func TestControlRecipes(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())

	err := h.open(t, forkifytest.Pizza().ID)
	assert.NilError(t, err)

	doc := query(t, h.regions.Recipe)
	assert.Equal(t, doc.Find(".recipe__title").Text(), "Pizza Dough")
	assert.Equal(t, doc.Find(".recipe__info-data--people").Text(), "4")
	assert.Equal(t, doc.Find(".recipe__ingredient").Length(), 3)
	assert.Equal(t, h.ctrl.RecipeStatus(), controller.StatusLoaded)
}

func TestControlRecipes_NotFound(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())

	err := h.open(t, "nope")
	assert.ErrorContains(t, err, "Invalid _id: nope")

	assert.Equal(t, query(t, h.regions.Recipe).Find(".error p").Text(), controller.RecipeErrorMessage)
	assert.Equal(t, h.ctrl.RecipeStatus(), controller.StatusFailed)
}

func TestControlRecipes_EmptyID(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())

	assert.NilError(t, h.ctrl.ControlRecipes(context.Background(), ""))

	assert.Check(t, h.regions.Recipe.IsEmpty())
	assert.Equal(t, len(h.server.Requests()), 0)
	assert.Equal(t, h.ctrl.RecipeStatus(), controller.StatusIdle)
}

func TestControlSearchResults_Pagination(t *testing.T) {
	h := newHarness(t, forkifytest.Pastas(25)...)
	ctx := context.Background()

	assert.NilError(t, h.ctrl.ControlSearchResults(ctx, "pasta"))

	results := query(t, h.regions.Results)
	assert.Equal(t, results.Find(".preview").Length(), 10)
	assert.Equal(t, results.Find(".preview").First().AttrOr("data-key", ""), "pasta-1")
	assertGoto(t, h.regions.Pagination, "2")

	h.ctrl.ControlPagination(2)
	assert.Equal(t, query(t, h.regions.Results).Find(".preview").First().AttrOr("data-key", ""), "pasta-11")
	assertGoto(t, h.regions.Pagination, "1", "3")

	h.ctrl.ControlPagination(3)
	assert.Equal(t, query(t, h.regions.Results).Find(".preview").Length(), 5)
	assertGoto(t, h.regions.Pagination, "2")
}

func assertGoto(t *testing.T, r *render.Region, want ...string) {
	t.Helper()
	var got []string
	query(t, r).Find("button").Each(func(_ int, s *goquery.Selection) {
		got = append(got, s.AttrOr("data-goto", ""))
	})
	assert.DeepEqual(t, got, want)
}

func TestControlSearchResults_NoResults(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())

	assert.NilError(t, h.ctrl.ControlSearchResults(context.Background(), "sushi"))

	assert.Equal(t, query(t, h.regions.Results).Find(".error p").Text(), controller.ResultsErrorMessage)
	assert.Equal(t, h.regions.Pagination.HTML(), "")
}

func TestControlSearchResults_BlankQuery(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())

	assert.NilError(t, h.ctrl.ControlSearchResults(context.Background(), "   "))

	assert.Check(t, h.regions.Results.IsEmpty())
	assert.Equal(t, len(h.server.Requests()), 0)
}

func TestControlSearchResults_Failure(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())
	h.server.FailNext(http.StatusInternalServerError, "")

	err := h.ctrl.ControlSearchResults(context.Background(), "pizza")
	assert.ErrorIs(t, err, api.ErrRequest)

	assert.Equal(t, query(t, h.regions.Results).Find(".error p").Text(), "Internal Server Error (500)")
}

func TestControlServings_PatchesInPlace(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())
	assert.NilError(t, h.open(t, forkifytest.Pizza().ID))

	people := findNode(h.regions.Recipe, "recipe__info-data--people").Get(0)
	quantity := findNode(h.regions.Recipe, "recipe__quantity").Get(0)
	before := h.regions.Recipe.Elements()

	assert.NilError(t, h.ctrl.ControlServings(8))

	after := h.regions.Recipe.Elements()
	assert.Equal(t, len(after), len(before))
	for i := range before {
		assert.Check(t, before[i] == after[i], "element %d was replaced", i)
	}
	assert.Equal(t, render.TextContent(people), "8")
	assert.Equal(t, render.TextContent(quantity), "4")

	doc := query(t, h.regions.Recipe)
	var targets []string
	doc.Find(".btn--update-servings").Each(func(_ int, s *goquery.Selection) {
		targets = append(targets, s.AttrOr("data-update-to", ""))
	})
	assert.DeepEqual(t, targets, []string{"7", "9"})
	// Unquantified ingredient stays blank
	assert.Equal(t, doc.Find(".recipe__quantity").Eq(2).Text(), "")
}

func TestControlServings_Invalid(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())
	assert.NilError(t, h.open(t, forkifytest.Pizza().ID))

	var verr *model.ValidationError
	assert.Assert(t, errors.As(h.ctrl.ControlServings(0), &verr))
	assert.Equal(t, query(t, h.regions.Recipe).Find(".recipe__info-data--people").Text(), "4")
}

func TestControlAddBookmark_Toggle(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())
	id := forkifytest.Pizza().ID
	assert.NilError(t, h.open(t, id))
	button := findNode(h.regions.Recipe, "btn--bookmark").Get(0)

	assert.NilError(t, h.ctrl.ControlAddBookmark())

	assert.Equal(t, render.GetAttr(button, "data-bookmarked"), "true")
	assert.Equal(t, query(t, h.regions.Recipe).Find(".recipe__bookmark").Text(), "bookmark-fill")
	bookmarks := query(t, h.regions.Bookmarks)
	assert.Equal(t, bookmarks.Find(".preview").AttrOr("data-key", ""), id)
	assert.Check(t, bookmarks.Find(".preview__link").HasClass("preview__link--active"))
	assert.Check(t, h.store.IsBookmarked(id))

	assert.NilError(t, h.ctrl.ControlAddBookmark())

	assert.Equal(t, render.GetAttr(button, "data-bookmarked"), "false")
	assert.Equal(t, query(t, h.regions.Bookmarks).Find(".error p").Text(), controller.BookmarksErrorMessage)
}

func TestControlAddBookmark_NoRecipe(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.ctrl.ControlAddBookmark(), model.ErrNoRecipe)
}

func TestControlDeleteBookmark(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())
	id := forkifytest.Pizza().ID
	assert.NilError(t, h.open(t, id))
	assert.NilError(t, h.ctrl.ControlAddBookmark())

	assert.NilError(t, h.ctrl.ControlDeleteBookmark(id))

	assert.Check(t, !h.store.IsBookmarked(id))
	assert.Equal(t, query(t, h.regions.Recipe).Find(".recipe__bookmark").Text(), "bookmark")
}

// A failed load leaves the previous recipe in the store. Deleting its
// bookmark must not patch it over the error panel.
func TestControlDeleteBookmark_AfterFailedLoad(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())
	id := forkifytest.Pizza().ID
	assert.NilError(t, h.open(t, id))
	assert.NilError(t, h.ctrl.ControlAddBookmark())
	assert.Assert(t, h.open(t, "missing") != nil)
	before := h.regions.Recipe.HTML()

	assert.NilError(t, h.ctrl.ControlDeleteBookmark(id))

	assert.Equal(t, h.regions.Recipe.HTML(), before)
	recipe := query(t, h.regions.Recipe)
	assert.Equal(t, recipe.Find(".error p").Text(), controller.RecipeErrorMessage)
	assert.Equal(t, recipe.Find(".recipe__title").Length(), 0)
	assert.Check(t, !h.store.IsBookmarked(id))
	assert.Equal(t, query(t, h.regions.Bookmarks).Find(".error p").Text(), controller.BookmarksErrorMessage)
}

func TestControlAddBookmark_AfterFailedLoad(t *testing.T) {
	h := newHarness(t, forkifytest.Pizza())
	assert.NilError(t, h.open(t, forkifytest.Pizza().ID))
	assert.Assert(t, h.open(t, "missing") != nil)
	before := h.regions.Recipe.HTML()

	assert.NilError(t, h.ctrl.ControlAddBookmark())

	assert.Equal(t, h.regions.Recipe.HTML(), before)
}

// After a failed search the results region keeps the error while other
// recipes are opened.
func TestControlRecipes_AfterFailedSearch(t *testing.T) {
	h := newHarness(t, forkifytest.Pastas(3)...)
	ctx := context.Background()
	assert.NilError(t, h.ctrl.ControlSearchResults(ctx, "pasta"))
	h.server.FailNext(http.StatusInternalServerError, "boom")
	assert.Assert(t, h.ctrl.ControlSearchResults(ctx, "pasta") != nil)
	before := h.regions.Results.HTML()

	assert.NilError(t, h.open(t, "pasta-1"))

	assert.Equal(t, h.regions.Results.HTML(), before)
	results := query(t, h.regions.Results)
	assert.Equal(t, results.Find(".error p").Text(), "boom (500)")
	assert.Equal(t, results.Find(".preview").Length(), 0)
}

func TestResetUpload(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctrl.ControlAddRecipe(context.Background(), uploadForm("0.5 kg carrots"))
	assert.Assert(t, err != nil)

	h.ctrl.ResetUpload()

	assert.Check(t, h.regions.Upload.IsEmpty())
}

// Selecting another recipe moves the active marker without replacing the
// result nodes.
func TestControlRecipes_ActiveMarker(t *testing.T) {
	h := newHarness(t, forkifytest.Pastas(3)...)
	assert.NilError(t, h.ctrl.ControlSearchResults(context.Background(), "pasta"))
	before := h.regions.Results.Elements()

	assert.NilError(t, h.open(t, "pasta-2"))

	after := h.regions.Results.Elements()
	assert.Equal(t, len(after), len(before))
	for i := range before {
		assert.Check(t, before[i] == after[i], "element %d was replaced", i)
	}
	links := query(t, h.regions.Results).Find(".preview__link")
	assert.Check(t, !links.Eq(0).HasClass("preview__link--active"))
	assert.Check(t, links.Eq(1).HasClass("preview__link--active"))
}

func uploadForm(ingredient string) model.UploadForm {
	return model.UploadForm{
		{Key: "title", Value: "Test Soup"},
		{Key: "sourceUrl", Value: "https://example.com/soup"},
		{Key: "image", Value: "https://example.com/soup.jpg"},
		{Key: "publisher", Value: "Me"},
		{Key: "cookingTime", Value: "20"},
		{Key: "servings", Value: "2"},
		{Key: "ingredient-1", Value: ingredient},
		{Key: "ingredient-2", Value: ""},
	}
}

func TestControlAddRecipe(t *testing.T) {
	h := newHarness(t)

	delay, err := h.ctrl.ControlAddRecipe(context.Background(), uploadForm("0.5,kg,carrots"))
	assert.NilError(t, err)
	assert.Equal(t, delay, 100*time.Millisecond)

	created := h.server.Recipes()
	assert.Equal(t, len(created), 1)
	assert.Equal(t, h.history.Fragment(), created[0].ID)

	assert.Equal(t, query(t, h.regions.Upload).Find(".message p").Text(), controller.UploadMessage)
	recipe := query(t, h.regions.Recipe)
	assert.Equal(t, recipe.Find(".recipe__title").Text(), "Test Soup")
	assert.Equal(t, recipe.Find(".recipe__quantity").Text(), "1/2")
	assert.Check(t, !recipe.Find(".recipe__user-generated").HasClass("hidden"))
	assert.Equal(t, query(t, h.regions.Bookmarks).Find(".preview").AttrOr("data-key", ""), created[0].ID)
}

func TestControlAddRecipe_InvalidIngredient(t *testing.T) {
	h := newHarness(t)

	_, err := h.ctrl.ControlAddRecipe(context.Background(), uploadForm("0.5 kg carrots"))

	var verr *model.ValidationError
	assert.Assert(t, errors.As(err, &verr))
	assert.Check(t, is.Contains(query(t, h.regions.Upload).Find(".error p").Text(), "wrong ingredient format"))
	assert.Equal(t, len(h.server.Requests()), 0)
	assert.Check(t, h.regions.Recipe.IsEmpty())
	assert.Equal(t, len(h.store.Bookmarks()), 0)
}

func TestControlAddRecipe_Rejected(t *testing.T) {
	h := newHarness(t)
	h.server.FailNext(http.StatusUnauthorized, "Invalid API key")

	_, err := h.ctrl.ControlAddRecipe(context.Background(), uploadForm("1,,egg"))
	assert.ErrorIs(t, err, api.ErrRequest)

	assert.Equal(t, query(t, h.regions.Upload).Find(".error p").Text(), "Invalid API key (401)")
	assert.Equal(t, h.history.Fragment(), "")
}

func TestMemoryHistory(t *testing.T) {
	h := controller.NewMemoryHistory("a")
	h.PushFragment("b")

	assert.Equal(t, h.Fragment(), "b")
	assert.Equal(t, h.Back(), "a")
	assert.Equal(t, h.Back(), "")
	assert.Equal(t, h.Back(), "")
}
