// Package controller maps user events to store operations and view updates.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/forkify/internal/api"
	"github.com/nikbrunner/forkify/internal/markup"
	"github.com/nikbrunner/forkify/internal/model"
	"github.com/nikbrunner/forkify/internal/render"
	"github.com/nikbrunner/forkify/internal/state"
	"github.com/sirupsen/logrus"
)

// User-facing messages.
const (
	RecipeMessage         = "Start by searching for a recipe or an ingredient. Have fun!"
	RecipeErrorMessage    = "We could not find that recipe. Please try another one!"
	ResultsErrorMessage   = "No recipes found for your query! Please try again ;)"
	BookmarksErrorMessage = "No bookmarks yet. Find a nice recipe and bookmark it ;)"
	UploadMessage         = "Recipe was successfully uploaded :)"
)

// DefaultModalCloseDelay is used when Params.ModalCloseDelay is unset.
const DefaultModalCloseDelay = 2500 * time.Millisecond

// Status is the recipe loading state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Regions are the render targets the controller draws into.
type Regions struct {
	Recipe     *render.Region
	Results    *render.Region
	Pagination *render.Region
	Bookmarks  *render.Region
	Upload     *render.Region
}

// NewRegions creates one empty region of each kind.
func NewRegions() Regions {
	return Regions{
		Recipe:     render.NewRegion("recipe"),
		Results:    render.NewRegion("results"),
		Pagination: render.NewRegion("pagination"),
		Bookmarks:  render.NewRegion("bookmarks"),
		Upload:     render.NewRegion("upload"),
	}
}

// Controller handles user events.
type Controller struct {
	store      *state.Store
	history    History
	log        logrus.FieldLogger
	closeDelay time.Duration

	recipeView     *render.View[model.Recipe]
	resultsView    *render.View[[]model.SearchResult]
	paginationView *render.View[markup.PageInfo]
	bookmarksView  *render.View[[]model.Recipe]
	uploadView     *render.View[string]

	mu     sync.Mutex
	status Status
}

// Params holds parameters for creating a new Controller.
type Params struct {
	Store           *state.Store
	Regions         Regions
	History         History
	ModalCloseDelay time.Duration      // optional, defaults to DefaultModalCloseDelay
	Logger          logrus.FieldLogger // optional
}

// New creates a Controller drawing into params.Regions.
func New(params Params) *Controller {
	log := params.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	history := params.History
	if history == nil {
		history = NewMemoryHistory("")
	}
	delay := params.ModalCloseDelay
	if delay <= 0 {
		delay = DefaultModalCloseDelay
	}

	c := &Controller{
		store:      params.Store,
		history:    history,
		log:        log,
		closeDelay: delay,
	}

	templates := render.Templates{
		Spinner: markup.Spinner,
		Error:   markup.Error,
		Message: markup.Message,
	}
	c.recipeView = render.NewView(render.ViewParams[model.Recipe]{
		Region:       params.Regions.Recipe,
		Generate:     markup.Recipe,
		Templates:    templates,
		ErrorMessage: RecipeErrorMessage,
		Message:      RecipeMessage,
	})
	c.resultsView = render.NewView(render.ViewParams[[]model.SearchResult]{
		Region: params.Regions.Results,
		Generate: func(results []model.SearchResult) string {
			return markup.Results(results, c.history.Fragment())
		},
		Templates:    templates,
		ErrorMessage: ResultsErrorMessage,
	})
	c.paginationView = render.NewView(render.ViewParams[markup.PageInfo]{
		Region:    params.Regions.Pagination,
		Generate:  markup.Pagination,
		Templates: templates,
	})
	c.bookmarksView = render.NewView(render.ViewParams[[]model.Recipe]{
		Region: params.Regions.Bookmarks,
		Generate: func(bookmarks []model.Recipe) string {
			return markup.Bookmarks(bookmarks, c.history.Fragment())
		},
		Templates:    templates,
		ErrorMessage: BookmarksErrorMessage,
	})
	// The upload region only ever shows notices.
	c.uploadView = render.NewView(render.ViewParams[string]{
		Region:    params.Regions.Upload,
		Generate:  markup.Message,
		Templates: templates,
		Message:   UploadMessage,
	})

	return c
}

// Start draws the initial screen: the welcome message and the bookmarks.
func (c *Controller) Start() {
	c.show(c.recipeView.RenderMessage(""), "recipe")
	c.ControlBookmarks()
}

// RecipeStatus returns the state of the last recipe load.
func (c *Controller) RecipeStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Fragment returns the id of the recipe the location points at.
func (c *Controller) Fragment() string {
	return c.history.Fragment()
}

// ControlRecipes loads and shows the recipe with the given id. It is
// triggered by a location change; an empty id does nothing.
func (c *Controller) ControlRecipes(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	log := c.log.WithField("recipe", id)

	c.setStatus(StatusLoading)
	c.show(c.recipeView.RenderSpinner(), "recipe")

	// Refresh the active marker in both lists
	c.show(c.resultsView.Update(c.store.SearchResultsPage(0)), "results")
	c.show(c.bookmarksView.Update(c.store.Bookmarks()), "bookmarks")

	if err := c.store.LoadRecipe(ctx, id); err != nil {
		log.WithError(err).Error("load recipe failed")
		c.setStatus(StatusFailed)
		c.show(c.recipeView.RenderError(""), "recipe")
		return err
	}

	rec, _ := c.store.Recipe()
	c.show(c.recipeView.Render(rec), "recipe")
	c.setStatus(StatusLoaded)
	log.Debug("recipe loaded")
	return nil
}

// ControlSearchResults runs a search and shows the first page of results.
// A blank query is ignored.
func (c *Controller) ControlSearchResults(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	log := c.log.WithField("query", query)

	c.show(c.resultsView.RenderSpinner(), "results")

	if err := c.store.LoadSearchResults(ctx, query); err != nil {
		log.WithError(err).Error("search failed")
		c.show(c.resultsView.RenderError(errorMessage(err)), "results")
		return err
	}

	c.show(c.resultsView.Render(c.store.SearchResultsPage(1)), "results")
	c.show(c.paginationView.Render(c.pageInfo()), "pagination")
	log.WithField("results", len(c.store.Search().Results)).Debug("search done")
	return nil
}

// ControlPagination shows the given results page.
func (c *Controller) ControlPagination(page int) {
	c.show(c.resultsView.Render(c.store.SearchResultsPage(page)), "results")
	c.show(c.paginationView.Render(c.pageInfo()), "pagination")
}

// ControlServings rescales the current recipe and patches the recipe view.
func (c *Controller) ControlServings(servings int) error {
	if err := c.store.UpdateServings(servings); err != nil {
		c.log.WithError(err).WithField("servings", servings).Warn("update servings failed")
		return err
	}

	rec, _ := c.store.Recipe()
	c.show(c.recipeView.Update(rec), "recipe")
	return nil
}

// ControlAddBookmark toggles the bookmark of the current recipe.
func (c *Controller) ControlAddBookmark() error {
	err := c.store.ToggleBookmark()
	if err != nil {
		c.log.WithError(err).Error("toggle bookmark failed")
	}

	if rec, ok := c.store.Recipe(); ok {
		c.show(c.recipeView.Update(rec), "recipe")
	}
	c.show(c.bookmarksView.Render(c.store.Bookmarks()), "bookmarks")
	return err
}

// ControlDeleteBookmark removes a bookmark from the bookmarks list.
func (c *Controller) ControlDeleteBookmark(id string) error {
	err := c.store.DeleteBookmark(id)
	if err != nil {
		c.log.WithError(err).WithField("recipe", id).Error("delete bookmark failed")
	}

	if rec, ok := c.store.Recipe(); ok {
		c.show(c.recipeView.Update(rec), "recipe")
	}
	c.show(c.bookmarksView.Render(c.store.Bookmarks()), "bookmarks")
	return err
}

// ControlBookmarks draws the bookmarks list.
func (c *Controller) ControlBookmarks() {
	c.show(c.bookmarksView.Render(c.store.Bookmarks()), "bookmarks")
}

// ControlAddRecipe uploads a new recipe. On success the recipe is shown,
// bookmarked and pushed to the history, and the returned delay tells the
// caller when to close the upload panel. On failure the error is shown in
// the upload region.
func (c *Controller) ControlAddRecipe(ctx context.Context, form model.UploadForm) (time.Duration, error) {
	c.show(c.uploadView.RenderSpinner(), "upload")

	if err := c.store.UploadRecipe(ctx, form); err != nil {
		c.log.WithError(err).Error("upload recipe failed")
		c.show(c.uploadView.RenderError(errorMessage(err)), "upload")
		return 0, err
	}

	rec, _ := c.store.Recipe()
	c.show(c.recipeView.Render(rec), "recipe")
	c.show(c.uploadView.RenderMessage(""), "upload")
	c.show(c.bookmarksView.Render(c.store.Bookmarks()), "bookmarks")
	c.history.PushFragment(rec.ID)

	c.log.WithField("recipe", rec.ID).Info("recipe uploaded")
	return c.closeDelay, nil
}

// ResetUpload clears the upload region so the panel opens empty.
func (c *Controller) ResetUpload() {
	c.uploadView.Clear()
}

func (c *Controller) pageInfo() markup.PageInfo {
	search := c.store.Search()
	return markup.PageInfo{Page: search.Page, Pages: search.NumPages()}
}

func (c *Controller) setStatus(s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
}

// show logs render failures. The empty state is not a failure.
func (c *Controller) show(err error, region string) {
	if err == nil || errors.Is(err, render.ErrEmpty) {
		return
	}
	c.log.WithError(err).WithField("region", region).Error("render failed")
}

// errorMessage returns the text shown to the user for err.
func errorMessage(err error) string {
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Message
	}
	return err.Error()
}
