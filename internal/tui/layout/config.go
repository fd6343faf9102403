// Package layout computes pane geometry and fits text into terminal cells.
package layout

// LayoutConfig holds the tunable sizes of the TUI.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig sizes the results, bookmarks and recipe panes.
type PaneConfig struct {
	// Rows taken by everything but pane content: app padding, header,
	// pane borders and the help bar.
	HeightReduction int
	MinHeight       int

	// Share of the usable width given to the results/bookmarks column.
	ListWidthPercent int
	MinListWidth     int
	MinRecipeWidth   int

	// Cells lost to app padding and column borders before splitting.
	ColumnOffset int
	// Cells lost to a pane's border and padding.
	ContentPadding int
}

// ModalConfig sizes the upload modal.
type ModalConfig struct {
	WidthPercent int
	MinWidth     int
	MaxWidth     int
}

// InputConfig sizes the search and upload form inputs.
type InputConfig struct {
	SearchCharLimit  int
	SearchWidth      int
	FieldCharLimit   int
	URLCharLimit     int
	FieldWidth       int
	IngredientFields int // ingredient rows in the upload form
}

// TextConfig controls truncation.
type TextConfig struct {
	Ellipsis string
}

// DefaultConfig returns the sizes used by forkify.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  6,
			MinHeight:        5,
			ListWidthPercent: 35,
			MinListWidth:     24,
			MinRecipeWidth:   30,
			ColumnOffset:     8,
			ContentPadding:   4,
		},
		Modal: ModalConfig{WidthPercent: 60, MinWidth: 50, MaxWidth: 90},
		Input: InputConfig{
			SearchCharLimit:  100,
			SearchWidth:      40,
			FieldCharLimit:   200,
			URLCharLimit:     500,
			FieldWidth:       50,
			IngredientFields: 6,
		},
		Text: TextConfig{Ellipsis: "..."},
	}
}
