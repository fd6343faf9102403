package model

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Quantity    *float64 `json:"quantity"` // nil = no quantity ("salt to taste")
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
}

// Recipe is the full recipe shown in the recipe region.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Publisher   string       `json:"publisher"`
	SourceURL   string       `json:"sourceUrl"`
	ImageURL    string       `json:"image"`
	Servings    int          `json:"servings"`
	CookingTime int          `json:"cookingTime"` // minutes
	Ingredients []Ingredient `json:"ingredients"`
	Key         *string      `json:"key,omitempty"` // nil = not a user-uploaded recipe
	Bookmarked  bool         `json:"-"`             // derived from the bookmark collection
}

// SearchResult is the summary of a recipe returned by a search.
type SearchResult struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Publisher string  `json:"publisher"`
	ImageURL  string  `json:"image"`
	Key       *string `json:"key,omitempty"`
}

// Clone returns a deep copy of the recipe so callers can't mutate
// shared ingredient quantities.
func (r Recipe) Clone() Recipe {
	c := r
	if r.Key != nil {
		k := *r.Key
		c.Key = &k
	}
	if r.Ingredients != nil {
		c.Ingredients = make([]Ingredient, len(r.Ingredients))
		for i, ing := range r.Ingredients {
			c.Ingredients[i] = ing
			if ing.Quantity != nil {
				q := *ing.Quantity
				c.Ingredients[i].Quantity = &q
			}
		}
	}
	return c
}

// Clone returns a copy of the result that shares no pointers with it.
func (s SearchResult) Clone() SearchResult {
	c := s
	if s.Key != nil {
		k := *s.Key
		c.Key = &k
	}
	return c
}

// Summary returns the search-result shaped view of a recipe.
// Bookmarks are listed with the same preview markup as search results.
func (r Recipe) Summary() SearchResult {
	s := SearchResult{
		ID:        r.ID,
		Title:     r.Title,
		Publisher: r.Publisher,
		ImageURL:  r.ImageURL,
	}
	if r.Key != nil {
		k := *r.Key
		s.Key = &k
	}
	return s
}

// IsUserRecipe reports whether the recipe was uploaded with the API key.
func (r Recipe) IsUserRecipe() bool {
	return r.Key != nil && *r.Key != ""
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}
