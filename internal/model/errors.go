package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput = errors.New("empty input")
	ErrNoRecipe   = errors.New("no recipe loaded")
)

// ValidationError reports malformed user input, such as an upload form
// ingredient that isn't a "quantity,unit,description" triple.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RecipeLoadError wraps the failure to load a recipe by id.
type RecipeLoadError struct {
	ID  string
	Err error
}

func (e *RecipeLoadError) Error() string {
	return fmt.Sprintf("load recipe %s: %v", e.ID, e.Err)
}

func (e *RecipeLoadError) Unwrap() error {
	return e.Err
}
