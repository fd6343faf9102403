package render

import (
	"errors"
	"reflect"
	"sync/atomic"
)

// ErrEmpty is returned by View.Render when there was nothing to render
// and the empty-state error view was shown instead.
var ErrEmpty = errors.New("nothing to render")

// Generator turns view data into markup.
type Generator[T any] func(data T) string

// Templates produce the markup shared by every view.
type Templates struct {
	Spinner func() string
	Error   func(message string) string
	Message func(message string) string
}

// View renders data of type T into a Region.
type View[T any] struct {
	region    *Region
	generate  Generator[T]
	templates Templates
	errorMsg  string
	message   string

	// owned is set while the region holds markup from generate rather
	// than a spinner, error or message.
	owned atomic.Bool
}

// ViewParams holds parameters for creating a new View.
type ViewParams[T any] struct {
	Region       *Region
	Generate     Generator[T]
	Templates    Templates
	ErrorMessage string // default for RenderError("")
	Message      string // default for RenderMessage("")
}

// NewView creates a View.
func NewView[T any](params ViewParams[T]) *View[T] {
	return &View[T]{
		region:    params.Region,
		generate:  params.Generate,
		templates: params.Templates,
		errorMsg:  params.ErrorMessage,
		message:   params.Message,
	}
}

// Region returns the region the view renders into.
func (v *View[T]) Region() *Region {
	return v.region
}

// Render replaces the region content with the markup for data. Empty data
// (nil, zero, or a zero-length collection) shows the default error message
// and returns ErrEmpty.
func (v *View[T]) Render(data T) error {
	if IsEmpty(data) {
		if err := v.RenderError(""); err != nil {
			return err
		}
		return ErrEmpty
	}
	return v.show(v.generate(data), true)
}

// Update patches the region in place so unchanged nodes are kept. A region
// that was never rendered is rendered instead, unless data is empty. While
// the region shows a spinner, error or message, Update leaves it alone: the
// patch only pairs markup of the same shape.
func (v *View[T]) Update(data T) error {
	if v.region.IsEmpty() {
		if IsEmpty(data) {
			return nil
		}
		return v.Render(data)
	}
	if !v.owned.Load() {
		return nil
	}
	return v.region.Patch(v.generate(data))
}

// Clear empties the region.
func (v *View[T]) Clear() {
	v.owned.Store(false)
	v.region.Clear()
}

// RenderSpinner shows the loading indicator.
func (v *View[T]) RenderSpinner() error {
	return v.show(v.templates.Spinner(), false)
}

// RenderError shows an error message, or the view's default one.
func (v *View[T]) RenderError(message string) error {
	if message == "" {
		message = v.errorMsg
	}
	return v.show(v.templates.Error(message), false)
}

// RenderMessage shows an informational message, or the view's default one.
func (v *View[T]) RenderMessage(message string) error {
	if message == "" {
		message = v.message
	}
	return v.show(v.templates.Message(message), false)
}

func (v *View[T]) show(markup string, owned bool) error {
	v.owned.Store(false)
	if err := v.region.Replace(markup); err != nil {
		return err
	}
	v.owned.Store(owned)
	return nil
}

// IsEmpty reports whether data counts as absent for rendering.
func IsEmpty(data any) bool {
	if data == nil {
		return true
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return IsEmpty(v.Elem().Interface())
	default:
		return v.IsZero()
	}
}
