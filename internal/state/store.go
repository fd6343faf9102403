// Package state holds the application state: the current recipe, the
// search results and the bookmark collection.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nikbrunner/forkify/internal/model"
	"github.com/nikbrunner/forkify/internal/storage"
	"github.com/sirupsen/logrus"
)

// DefaultResultsPerPage is used when StoreParams.ResultsPerPage is unset.
const DefaultResultsPerPage = 10

// Gateway is the remote recipe API.
type Gateway interface {
	GetRecipe(ctx context.Context, id string) (model.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]model.SearchResult, error)
	CreateRecipe(ctx context.Context, draft model.RecipeDraft) (model.Recipe, error)
}

// SearchState is the state of the last search.
type SearchState struct {
	Query          string
	Page           int // 1-based
	Results        []model.SearchResult
	ResultsPerPage int
}

// NumPages returns how many pages the results span.
func (s SearchState) NumPages() int {
	if s.ResultsPerPage <= 0 {
		return 0
	}
	return (len(s.Results) + s.ResultsPerPage - 1) / s.ResultsPerPage
}

// Store owns the application state. It is safe for concurrent use; the
// lock is never held while waiting on the gateway, so when two loads race
// the one that resolves last wins.
type Store struct {
	mu        sync.Mutex
	gateway   Gateway
	storage   storage.BookmarkStorage
	log       logrus.FieldLogger
	recipe    *model.Recipe
	search    SearchState
	bookmarks []model.Recipe
}

// StoreParams holds parameters for creating a new Store.
type StoreParams struct {
	Gateway        Gateway
	Storage        storage.BookmarkStorage
	ResultsPerPage int                // optional, defaults to DefaultResultsPerPage
	Logger         logrus.FieldLogger // optional
}

// New creates a Store and restores the persisted bookmarks.
func New(params StoreParams) (*Store, error) {
	perPage := params.ResultsPerPage
	if perPage <= 0 {
		perPage = DefaultResultsPerPage
	}
	log := params.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Store{
		gateway:   params.Gateway,
		storage:   params.Storage,
		log:       log,
		search:    SearchState{Page: 1, ResultsPerPage: perPage},
		bookmarks: []model.Recipe{},
	}

	data, ok, err := s.storage.ReadBookmarks()
	if err != nil {
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}
	if ok && strings.TrimSpace(data) != "" {
		if err := json.Unmarshal([]byte(data), &s.bookmarks); err != nil {
			return nil, fmt.Errorf("decode bookmarks: %w", err)
		}
	}
	s.log.WithField("count", len(s.bookmarks)).Debug("bookmarks restored")

	return s, nil
}

// LoadRecipe fetches the recipe and makes it the current one.
// On failure the current recipe is left untouched.
func (s *Store) LoadRecipe(ctx context.Context, id string) error {
	rec, err := s.gateway.GetRecipe(ctx, id)
	if err != nil {
		return &model.RecipeLoadError{ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Bookmarked = s.indexOfBookmark(rec.ID) >= 0
	s.recipe = &rec
	return nil
}

// LoadSearchResults runs a new search and resets pagination to page 1.
// A blank query returns model.ErrEmptyInput and changes nothing.
func (s *Store) LoadSearchResults(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return model.ErrEmptyInput
	}

	results, err := s.gateway.SearchRecipes(ctx, query)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.search.Query = query
	s.search.Results = results
	s.search.Page = 1
	return nil
}

// SearchResultsPage returns one page of the search results and makes it
// the current page. A page of 0 (or less) means the current page. Pages
// past the end yield an empty slice.
func (s *Store) SearchResultsPage(page int) []model.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page <= 0 {
		page = s.search.Page
	}
	s.search.Page = page

	start := (page - 1) * s.search.ResultsPerPage
	end := page * s.search.ResultsPerPage
	if start > len(s.search.Results) {
		start = len(s.search.Results)
	}
	if end > len(s.search.Results) {
		end = len(s.search.Results)
	}

	result := make([]model.SearchResult, end-start)
	copy(result, s.search.Results[start:end])
	return result
}

// UpdateServings rescales every ingredient quantity to newServings.
func (s *Store) UpdateServings(newServings int) error {
	if newServings <= 0 {
		return &model.ValidationError{Field: "servings", Reason: "must be a positive number"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return model.ErrNoRecipe
	}
	old := float64(s.recipe.Servings)
	if old <= 0 {
		// Nothing to scale from
		s.recipe.Servings = newServings
		return nil
	}
	for i := range s.recipe.Ingredients {
		q := s.recipe.Ingredients[i].Quantity
		if q == nil {
			continue
		}
		scaled := *q * float64(newServings) / old
		s.recipe.Ingredients[i].Quantity = &scaled
	}
	s.recipe.Servings = newServings
	return nil
}

// ToggleBookmark bookmarks the current recipe, or removes the bookmark
// if it already has one.
func (s *Store) ToggleBookmark() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return model.ErrNoRecipe
	}
	if s.recipe.Bookmarked {
		return s.deleteBookmark(s.recipe.ID)
	}
	return s.addBookmark(*s.recipe)
}

// DeleteBookmark removes the bookmark with the given id, if any.
func (s *Store) DeleteBookmark(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteBookmark(id)
}

// ClearBookmarks removes every bookmark.
func (s *Store) ClearBookmarks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.bookmarks
	s.bookmarks = []model.Recipe{}
	if err := s.persist(); err != nil {
		s.bookmarks = prev
		return err
	}
	if s.recipe != nil {
		s.recipe.Bookmarked = false
	}
	return nil
}

// ImportResult summarizes an ImportBookmarks run.
type ImportResult struct {
	Added   int
	Skipped int              // already bookmarked
	Failed  map[string]error // by recipe id
}

// ImportBookmarks fetches each recipe and bookmarks it. Ids that are
// already bookmarked are skipped; fetch failures are collected and do not
// stop the import. The collection is persisted once at the end.
func (s *Store) ImportBookmarks(ctx context.Context, ids []string) (ImportResult, error) {
	result := ImportResult{Failed: map[string]error{}}

	var fetched []model.Recipe
	seen := map[string]bool{}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if s.IsBookmarked(id) {
			result.Skipped++
			continue
		}
		rec, err := s.gateway.GetRecipe(ctx, id)
		if err != nil {
			result.Failed[id] = err
			continue
		}
		fetched = append(fetched, rec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.bookmarks
	for _, rec := range fetched {
		if s.indexOfBookmark(rec.ID) >= 0 {
			result.Skipped++
			continue
		}
		entry := rec.Clone()
		entry.Bookmarked = false
		s.bookmarks = append(s.bookmarks, entry)
		result.Added++
	}
	if result.Added == 0 {
		return result, nil
	}
	if err := s.persist(); err != nil {
		s.bookmarks = prev
		return ImportResult{Failed: result.Failed}, err
	}
	for _, rec := range fetched {
		s.markCurrent(rec.ID, true)
	}
	s.log.WithField("added", result.Added).Info("bookmarks imported")
	return result, nil
}

// UploadRecipe validates the upload form, sends the recipe to the API and
// makes the created recipe the current, bookmarked one.
func (s *Store) UploadRecipe(ctx context.Context, form model.UploadForm) error {
	draft, err := model.ParseUploadForm(form)
	if err != nil {
		return err
	}

	rec, err := s.gateway.CreateRecipe(ctx, draft)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipe = &rec
	return s.addBookmark(rec)
}

// Recipe returns a copy of the current recipe.
func (s *Store) Recipe() (model.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recipe == nil {
		return model.Recipe{}, false
	}
	return s.recipe.Clone(), true
}

// Search returns a copy of the search state.
func (s *Store) Search() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := s.search
	search.Results = append([]model.SearchResult(nil), s.search.Results...)
	return search
}

// Bookmarks returns a copy of the bookmark collection in insertion order.
func (s *Store) Bookmarks() []model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Recipe, len(s.bookmarks))
	for i, b := range s.bookmarks {
		result[i] = b.Clone()
		result[i].Bookmarked = true
	}
	return result
}

// IsBookmarked reports whether a recipe with the given id is bookmarked.
func (s *Store) IsBookmarked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOfBookmark(id) >= 0
}

// addBookmark must be called with s.mu held.
func (s *Store) addBookmark(rec model.Recipe) error {
	if s.indexOfBookmark(rec.ID) >= 0 {
		s.markCurrent(rec.ID, true)
		return nil
	}

	entry := rec.Clone()
	entry.Bookmarked = false
	s.bookmarks = append(s.bookmarks, entry)
	if err := s.persist(); err != nil {
		s.bookmarks = s.bookmarks[:len(s.bookmarks)-1]
		return err
	}
	s.markCurrent(rec.ID, true)
	s.log.WithField("recipe", rec.ID).Info("bookmark added")
	return nil
}

// deleteBookmark must be called with s.mu held.
func (s *Store) deleteBookmark(id string) error {
	idx := s.indexOfBookmark(id)
	if idx < 0 {
		s.markCurrent(id, false)
		return nil
	}

	prev := s.bookmarks
	next := make([]model.Recipe, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.bookmarks = next
	if err := s.persist(); err != nil {
		s.bookmarks = prev
		return err
	}
	s.markCurrent(id, false)
	s.log.WithField("recipe", id).Info("bookmark removed")
	return nil
}

func (s *Store) markCurrent(id string, bookmarked bool) {
	if s.recipe != nil && s.recipe.ID == id {
		s.recipe.Bookmarked = bookmarked
	}
}

func (s *Store) indexOfBookmark(id string) int {
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the bookmark collection synchronously.
func (s *Store) persist() error {
	data, err := json.Marshal(s.bookmarks)
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := s.storage.WriteBookmarks(string(data)); err != nil {
		return fmt.Errorf("write bookmarks: %w", err)
	}
	return nil
}
