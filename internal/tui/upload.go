package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/forkify/internal/model"
	"github.com/nikbrunner/forkify/internal/tui/layout"
)

// uploadField is one input of the upload form.
type uploadField struct {
	key   string // form key, e.g. "title" or "ingredient-1"
	label string
	input textinput.Model
}

// UploadState holds the inputs of the add-recipe form.
type UploadState struct {
	fields []uploadField
	focus  int
}

// NewUploadState creates the upload form: recipe data followed by
// cfg.Input.IngredientFields ingredient inputs.
func NewUploadState(cfg layout.LayoutConfig) UploadState {
	newInput := func(placeholder string, limit int) textinput.Model {
		input := textinput.New()
		input.Placeholder = placeholder
		input.CharLimit = limit
		input.Width = cfg.Input.FieldWidth
		return input
	}

	fields := []uploadField{
		{key: "title", label: "Title", input: newInput("Pizza Dough", cfg.Input.FieldCharLimit)},
		{key: "sourceUrl", label: "URL", input: newInput("https://...", cfg.Input.URLCharLimit)},
		{key: "image", label: "Image URL", input: newInput("https://...", cfg.Input.URLCharLimit)},
		{key: "publisher", label: "Publisher", input: newInput("Your name", cfg.Input.FieldCharLimit)},
		{key: "cookingTime", label: "Prep time", input: newInput("minutes", 5)},
		{key: "servings", label: "Servings", input: newInput("4", 5)},
	}
	for i := 1; i <= cfg.Input.IngredientFields; i++ {
		fields = append(fields, uploadField{
			key:   fmt.Sprintf("ingredient-%d", i),
			label: fmt.Sprintf("Ingredient %d", i),
			input: newInput("quantity,unit,description", cfg.Input.FieldCharLimit),
		})
	}

	u := UploadState{fields: fields}
	u.fields[0].input.Focus()
	return u
}

// Reset clears every input and focuses the first one.
func (u *UploadState) Reset() {
	for i := range u.fields {
		u.fields[i].input.Reset()
		u.fields[i].input.Blur()
	}
	u.focus = 0
	u.fields[0].input.Focus()
}

// Form returns the inputs as a flat form, in field order.
func (u UploadState) Form() model.UploadForm {
	form := make(model.UploadForm, 0, len(u.fields))
	for _, f := range u.fields {
		form = append(form, model.FormField{Key: f.key, Value: f.input.Value()})
	}
	return form
}

// Next moves the focus to the next input, wrapping around.
func (u *UploadState) Next() {
	u.move(1)
}

// Prev moves the focus to the previous input, wrapping around.
func (u *UploadState) Prev() {
	u.move(-1)
}

// OnLastField reports whether the last input has focus.
func (u UploadState) OnLastField() bool {
	return u.focus == len(u.fields)-1
}

func (u *UploadState) move(delta int) {
	u.fields[u.focus].input.Blur()
	u.focus = (u.focus + delta + len(u.fields)) % len(u.fields)
	u.fields[u.focus].input.Focus()
}

// Update forwards a message to the focused input.
func (u *UploadState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	u.fields[u.focus].input, cmd = u.fields[u.focus].input.Update(msg)
	return cmd
}
