package api

import "github.com/nikbrunner/forkify/internal/model"

// envelope is the common shape of every forkify API response.
type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Results *int   `json:"results,omitempty"`
	Data    T      `json:"data"`
}

type recipeData struct {
	Recipe apiRecipe `json:"recipe"`
}

type searchData struct {
	Recipes []apiSummary `json:"recipes"`
}

type apiIngredient struct {
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
}

// apiRecipe is the snake_case wire form of a recipe. ID is empty when
// uploading.
type apiRecipe struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Publisher   string          `json:"publisher"`
	SourceURL   string          `json:"source_url"`
	ImageURL    string          `json:"image_url"`
	Servings    int             `json:"servings"`
	CookingTime int             `json:"cooking_time"`
	Ingredients []apiIngredient `json:"ingredients"`
	Key         *string         `json:"key,omitempty"`
}

type apiSummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Publisher string  `json:"publisher"`
	ImageURL  string  `json:"image_url"`
	Key       *string `json:"key,omitempty"`
}

func (r apiRecipe) toModel() model.Recipe {
	ingredients := make([]model.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = model.Ingredient{
			Quantity:    ing.Quantity,
			Unit:        ing.Unit,
			Description: ing.Description,
		}
	}
	return model.Recipe{
		ID:          r.ID,
		Title:       r.Title,
		Publisher:   r.Publisher,
		SourceURL:   r.SourceURL,
		ImageURL:    r.ImageURL,
		Servings:    r.Servings,
		CookingTime: r.CookingTime,
		Ingredients: ingredients,
		Key:         nonEmpty(r.Key),
	}
}

func (s apiSummary) toModel() model.SearchResult {
	return model.SearchResult{
		ID:        s.ID,
		Title:     s.Title,
		Publisher: s.Publisher,
		ImageURL:  s.ImageURL,
		Key:       nonEmpty(s.Key),
	}
}

func fromDraft(d model.RecipeDraft) apiRecipe {
	ingredients := make([]apiIngredient, len(d.Ingredients))
	for i, ing := range d.Ingredients {
		ingredients[i] = apiIngredient{
			Quantity:    ing.Quantity,
			Unit:        ing.Unit,
			Description: ing.Description,
		}
	}
	return apiRecipe{
		Title:       d.Title,
		Publisher:   d.Publisher,
		SourceURL:   d.SourceURL,
		ImageURL:    d.ImageURL,
		Servings:    d.Servings,
		CookingTime: d.CookingTime,
		Ingredients: ingredients,
	}
}

// nonEmpty maps an absent or empty key to nil.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
