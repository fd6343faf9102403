package forkifytest

import "fmt"

func qty(f float64) *float64 { return &f }

// Pizza returns a recipe with four servings and one unquantified ingredient.
func Pizza() Recipe {
	return Recipe{
		ID:          "5ed6604591c37cdc054bc886",
		Title:       "Pizza Dough",
		Publisher:   "Closet Cooking",
		SourceURL:   "http://www.closetcooking.com/pizza-dough",
		ImageURL:    "http://forkify-api.herokuapp.com/images/pizza.jpg",
		Servings:    4,
		CookingTime: 45,
		Ingredients: []Ingredient{
			{Quantity: qty(2), Unit: "cups", Description: "flour"},
			{Quantity: qty(0.5), Unit: "tsp", Description: "yeast"},
			{Quantity: nil, Unit: "", Description: "salt to taste"},
		},
	}
}

// Pastas returns n search-matchable pasta recipes with ids "pasta-1".."pasta-n".
func Pastas(n int) []Recipe {
	recipes := make([]Recipe, n)
	for i := range recipes {
		recipes[i] = Recipe{
			ID:          fmt.Sprintf("pasta-%d", i+1),
			Title:       fmt.Sprintf("Pasta Dish %d", i+1),
			Publisher:   "Simply Recipes",
			SourceURL:   fmt.Sprintf("https://example.com/pasta-%d", i+1),
			ImageURL:    fmt.Sprintf("https://example.com/pasta-%d.jpg", i+1),
			Servings:    2,
			CookingTime: 30,
			Ingredients: []Ingredient{
				{Quantity: qty(200), Unit: "g", Description: "pasta"},
			},
		}
	}
	return recipes
}
