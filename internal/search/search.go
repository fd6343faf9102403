// Package search finds bookmarked recipes by fuzzy matching.
package search

import (
	"github.com/nikbrunner/forkify/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult is one recipe matched by a query.
type SearchResult struct {
	Recipe *model.Recipe
	// MatchedIndexes are rune indexes into Recipe.Title, empty for a
	// publisher match.
	MatchedIndexes []int
	Score          int
	ByPublisher    bool
}

// field exposes one string field of each recipe as a fuzzy.Source.
type field struct {
	recipes []model.Recipe
	get     func(*model.Recipe) string
}

func (f field) String(i int) string { return f.get(&f.recipes[i]) }
func (f field) Len() int            { return len(f.recipes) }

func title(r *model.Recipe) string     { return r.Title }
func publisher(r *model.Recipe) string { return r.Publisher }

// FuzzySearchRecipes matches query against recipe titles, best first.
// Recipes whose title does not match but whose publisher does follow,
// also best first. Results point into recipes.
func FuzzySearchRecipes(recipes []model.Recipe, query string) []SearchResult {
	if query == "" {
		return nil
	}

	var results []SearchResult
	seen := make(map[int]bool)
	for _, m := range fuzzy.FindFrom(query, field{recipes, title}) {
		seen[m.Index] = true
		results = append(results, SearchResult{
			Recipe:         &recipes[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	for _, m := range fuzzy.FindFrom(query, field{recipes, publisher}) {
		if seen[m.Index] {
			continue
		}
		results = append(results, SearchResult{
			Recipe:      &recipes[m.Index],
			Score:       m.Score,
			ByPublisher: true,
		})
	}
	return results
}
