// Package forkifytest provides an in-process fake of the forkify recipe API
// for tests.
package forkifytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// BasePath is the path prefix of the recipe endpoints.
const BasePath = "/api/v2/recipes/"

// Ingredient is the wire form of a recipe ingredient.
type Ingredient struct {
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
}

// Recipe is the wire form of a recipe as the API stores it.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Publisher   string       `json:"publisher"`
	SourceURL   string       `json:"source_url"`
	ImageURL    string       `json:"image_url"`
	Servings    int          `json:"servings"`
	CookingTime int          `json:"cooking_time"`
	Ingredients []Ingredient `json:"ingredients"`
	Key         string       `json:"key,omitempty"`
}

type summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	ImageURL  string `json:"image_url"`
	Key       string `json:"key,omitempty"`
}

type failure struct {
	status  int
	message string
}

// Server is a fake forkify API backed by an in-memory recipe list.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	recipes  []Recipe
	failNext *failure
	requests []*http.Request
}

// NewServer starts a fake API seeded with recipes. Call Close when done.
func NewServer(recipes ...Recipe) *Server {
	s := &Server{recipes: recipes}
	mux := http.NewServeMux()
	mux.HandleFunc(BasePath, s.handle)
	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL returns the URL the api client should be configured with.
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

// FailNext makes the next request fail with the given status and message.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = &failure{status: status, message: message}
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// Recipes returns the recipes currently stored.
func (s *Server) Recipes() []Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recipe(nil), s.recipes...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Clone(r.Context()))
	fail := s.failNext
	s.failNext = nil
	s.mu.Unlock()

	if fail != nil {
		writeFail(w, fail.status, fail.message)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, BasePath)
	key := r.URL.Query().Get("key")

	switch {
	case r.Method == http.MethodPost && id == "":
		s.create(w, r, key)
	case r.Method == http.MethodGet && id == "":
		s.search(w, r.URL.Query().Get("search"), key)
	case r.Method == http.MethodGet:
		s.get(w, id, key)
	default:
		writeFail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) get(w http.ResponseWriter, id, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.recipes {
		if rec.ID == id && visible(rec, key) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "success",
				"data":   map[string]any{"recipe": rec},
			})
			return
		}
	}
	writeFail(w, http.StatusBadRequest, "Invalid _id: "+id+". Try again!")
}

func (s *Server) search(w http.ResponseWriter, query, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.ToLower(query)
	results := []summary{}
	for _, rec := range s.recipes {
		if !visible(rec, key) || !strings.Contains(strings.ToLower(rec.Title), query) {
			continue
		}
		results = append(results, summary{
			ID:        rec.ID,
			Title:     rec.Title,
			Publisher: rec.Publisher,
			ImageURL:  rec.ImageURL,
			Key:       rec.Key,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"results": len(results),
		"data":    map[string]any{"recipes": results},
	})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, key string) {
	if key == "" {
		writeFail(w, http.StatusUnauthorized, "Invalid API key")
		return
	}
	var rec Recipe
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid recipe: "+err.Error())
		return
	}
	if rec.Title == "" {
		writeFail(w, http.StatusBadRequest, "Recipe validation failed: title: Path `title` is required.")
		return
	}
	rec.ID = uuid.NewString()
	rec.Key = key

	s.mu.Lock()
	s.recipes = append(s.recipes, rec)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "success",
		"data":   map[string]any{"recipe": rec},
	})
}

// visible hides user recipes from requests made with another key.
func visible(rec Recipe, key string) bool {
	return rec.Key == "" || rec.Key == key
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"status": "fail", "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
