package layout

// Columns holds the widths of the two screen columns.
type Columns struct {
	List   int // results and bookmarks
	Recipe int
}

// CalculatePaneHeight returns the content height of a full-height pane,
// at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	return max(terminalHeight-cfg.HeightReduction, cfg.MinHeight)
}

// CalculateColumns splits the terminal width into the list and recipe
// columns. Both columns respect their minimum widths, so a narrow
// terminal gets a layout wider than itself.
func CalculateColumns(terminalWidth int, cfg PaneConfig) Columns {
	available := terminalWidth - cfg.ColumnOffset
	list := max(available*cfg.ListWidthPercent/100, cfg.MinListWidth)
	return Columns{
		List:   list,
		Recipe: max(available-list, cfg.MinRecipeWidth),
	}
}

// SplitHeight divides a column height between the results and bookmarks
// panes, which share the list column. Each pane has its own border.
func SplitHeight(height int) (top, bottom int) {
	// Stacking a second pane costs two border rows.
	usable := height - 2
	if usable < 2 {
		return 1, 1
	}
	top = usable * 3 / 5
	return top, usable - top
}

// CalculateItemWidth returns the width left for item text inside a pane.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return paneWidth - cfg.ContentPadding
}

// CalculateVisibleHeight returns how many item rows fit below
// headerLines, at least one.
func CalculateVisibleHeight(paneHeight, headerLines int) int {
	return max(paneHeight-headerLines, 1)
}

// CalculateViewportOffset returns the first visible row for a viewport of
// viewportHeight rows, keeping the selected row near the middle.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}
	return min(max(selected-viewportHeight/2, 0), total-viewportHeight)
}

// VisibleRange returns the slice bounds of the items shown in a viewport
// of the given height, scrolled so the selected item stays visible.
func VisibleRange(selected, total, viewportHeight int) (start, end int) {
	start = CalculateViewportOffset(selected, total, viewportHeight)
	return start, min(start+viewportHeight, total)
}
