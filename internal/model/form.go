package model

import (
	"math"
	"strconv"
	"strings"
)

// FormField is one key/value pair of a submitted form.
type FormField struct {
	Key   string
	Value string
}

// UploadForm is the flat key/value representation of the upload form,
// in field order.
type UploadForm []FormField

// Get returns the value of the first field named key.
func (f UploadForm) Get(key string) string {
	for _, field := range f {
		if field.Key == key {
			return field.Value
		}
	}
	return ""
}

// Set replaces the value of key, appending the field if it doesn't exist.
func (f *UploadForm) Set(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, FormField{Key: key, Value: value})
}

// RecipeDraft is a recipe candidate built from the upload form, before
// the API has assigned it an id.
type RecipeDraft struct {
	Title       string
	SourceURL   string
	ImageURL    string
	Publisher   string
	CookingTime int
	Servings    int
	Ingredients []Ingredient
}

const ingredientPrefix = "ingredient"

// ParseUploadForm turns the upload form into a RecipeDraft.
//
// Every non-empty field whose key starts with "ingredient" must be a
// "quantity,unit,description" triple. An empty quantity becomes nil.
func ParseUploadForm(form UploadForm) (RecipeDraft, error) {
	var ingredients []Ingredient
	for _, field := range form {
		if !strings.HasPrefix(field.Key, ingredientPrefix) || field.Value == "" {
			continue
		}
		ing, err := parseIngredient(field.Key, field.Value)
		if err != nil {
			return RecipeDraft{}, err
		}
		ingredients = append(ingredients, ing)
	}

	cookingTime, err := parseNumber("cookingTime", form.Get("cookingTime"))
	if err != nil {
		return RecipeDraft{}, err
	}
	servings, err := parseNumber("servings", form.Get("servings"))
	if err != nil {
		return RecipeDraft{}, err
	}
	if servings < 1 {
		return RecipeDraft{}, &ValidationError{Field: "servings", Reason: "must be at least 1"}
	}

	return RecipeDraft{
		Title:       form.Get("title"),
		SourceURL:   form.Get("sourceUrl"),
		ImageURL:    form.Get("image"),
		Publisher:   form.Get("publisher"),
		CookingTime: cookingTime,
		Servings:    servings,
		Ingredients: ingredients,
	}, nil
}

func parseIngredient(key, value string) (Ingredient, error) {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) != 3 {
		return Ingredient{}, &ValidationError{
			Field:  key,
			Reason: `wrong ingredient format! Please use the correct format: "quantity,unit,description"`,
		}
	}

	ing := Ingredient{Unit: parts[1], Description: parts[2]}
	if parts[0] != "" {
		q, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || !isFinite(q) {
			return Ingredient{}, &ValidationError{Field: key, Reason: "quantity must be a number"}
		}
		ing.Quantity = &q
	}
	return ing, nil
}

// parseNumber coerces a numeric form field to a non-negative whole
// number, dropping any fraction. Blank counts as zero.
func parseNumber(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || !isFinite(n) {
		return 0, &ValidationError{Field: field, Reason: "must be a number"}
	}
	if n < 0 || n >= math.MaxInt32 {
		return 0, &ValidationError{Field: field, Reason: "out of range"}
	}
	return int(n), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
