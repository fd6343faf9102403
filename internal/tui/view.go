package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/forkify/internal/tui/layout"
)

// renderView creates the complete two-column view.
func (a App) renderView() string {
	if a.mode == ModeUpload {
		return a.renderUploadModal()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	cols := layout.CalculateColumns(a.width, a.layoutConfig.Pane)
	resultsHeight, bookmarksHeight := layout.SplitHeight(paneHeight)

	listColumn := lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderResultsPane(cols.List, resultsHeight),
		a.renderBookmarksPane(cols.List, bookmarksHeight),
	)
	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		listColumn,
		a.renderRecipePane(cols.Recipe, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), columns, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders the app name and the search input.
func (a App) renderHeader() string {
	title := a.styles.Title.Render("forkify")
	if a.mode == ModeSearch {
		return title + "  " + a.searchInput.View()
	}
	if a.pending > 0 {
		return title + "  " + a.spinner.View()
	}
	if a.status != "" {
		return title + "  " + a.styles.Status.Render(a.status)
	}
	return title
}

// paneStyle returns the border style for a pane.
func (a App) paneStyle(p Pane) lipgloss.Style {
	if a.focus == p {
		return a.styles.PaneActive
	}
	return a.styles.Pane
}

// renderResultsPane renders the search results and the pagination line.
func (a App) renderResultsPane(width, height int) string {
	var content strings.Builder
	content.WriteString(a.styles.Heading.Render("Results") + "\n")

	previews, notice := ReadPreviews(a.regions.Results)
	prev, next := ReadPagination(a.regions.Pagination)
	footer := a.renderPagination(prev, next)

	headerLines := 1
	if footer != "" {
		headerLines++
	}
	visible := layout.CalculateVisibleHeight(height, headerLines)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	switch {
	case notice.Kind != NoticeNone:
		content.WriteString(a.renderNotice(notice, itemWidth))
	case len(previews) == 0:
		content.WriteString(a.styles.Empty.Render("(search for a recipe)"))
	default:
		content.WriteString(a.renderPreviews(previews, a.resultsCursor, a.focus == PaneResults, itemWidth, visible))
		if footer != "" {
			content.WriteString("\n" + footer)
		}
	}

	return a.paneStyle(PaneResults).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderBookmarksPane renders the bookmarks list.
func (a App) renderBookmarksPane(width, height int) string {
	var content strings.Builder
	content.WriteString(a.styles.Heading.Render("Bookmarks") + "\n")

	previews, notice := ReadPreviews(a.regions.Bookmarks)
	visible := layout.CalculateVisibleHeight(height, 1)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if notice.Kind != NoticeNone {
		content.WriteString(a.renderNotice(notice, itemWidth))
	} else {
		content.WriteString(a.renderPreviews(previews, a.bookmarksCursor, a.focus == PaneBookmarks, itemWidth, visible))
	}

	return a.paneStyle(PaneBookmarks).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderPreviews renders a scrolled window of previews around the cursor.
func (a App) renderPreviews(previews []Preview, cursor int, focused bool, width, visible int) string {
	var b strings.Builder
	offset := layout.CalculateViewportOffset(cursor, len(previews), visible)

	for i, p := range previews {
		// Skip items outside the viewport
		if i < offset {
			continue
		}
		if i >= offset+visible {
			break
		}
		b.WriteString(a.renderPreview(p, focused && i == cursor, width) + "\n")
	}
	return b.String()
}

// renderPreview renders one preview as "title  publisher".
func (a App) renderPreview(p Preview, selected bool, maxWidth int) string {
	prefix := "  "
	if p.Active {
		prefix = "> "
	}
	title := p.Title
	if p.User {
		title += " *"
	}

	if selected {
		line, _ := layout.TruncateText(prefix+title, maxWidth, a.layoutConfig.Text)
		for layout.VisibleLength(line) < maxWidth {
			line += " "
		}
		return a.styles.ItemSelected.Render(line)
	}

	titleStyle := a.styles.Item
	if p.Active {
		titleStyle = a.styles.ItemActive
	}
	line := titleStyle.Render(prefix+title) + "  " + a.styles.Publisher.Render(p.Publisher)
	return layout.TruncateANSIAware(line, maxWidth, a.layoutConfig.Text)
}

// renderPagination renders the page buttons, "" when there are none.
func (a App) renderPagination(prev, next int) string {
	var parts []string
	if prev > 0 {
		parts = append(parts, fmt.Sprintf("<- Page %d", prev))
	}
	if next > 0 {
		parts = append(parts, fmt.Sprintf("Page %d ->", next))
	}
	if len(parts) == 0 {
		return ""
	}
	return a.styles.Publisher.Render(strings.Join(parts, "   "))
}

// renderRecipePane renders the recipe card, scrolled by recipeScroll.
func (a App) renderRecipePane(width, height int) string {
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	var content string
	card, notice, ok := ReadRecipe(a.regions.Recipe)
	switch {
	case notice.Kind != NoticeNone:
		content = a.renderNotice(notice, itemWidth)
	case !ok:
		content = a.styles.Empty.Render("(no recipe)")
	default:
		lines := a.recipeLines(card, itemWidth)
		scroll := a.recipeScroll
		if scroll > len(lines)-1 {
			scroll = len(lines) - 1
		}
		if scroll < 0 {
			scroll = 0
		}
		lines = lines[scroll:]
		if len(lines) > height {
			lines = lines[:height]
		}
		content = strings.Join(lines, "\n")
	}

	return a.paneStyle(PaneRecipe).
		Width(width).
		Height(height).
		Render(content)
}

// recipeLines lays out a recipe card as lines of at most width columns.
func (a App) recipeLines(card RecipeCard, width int) []string {
	var lines []string
	for _, l := range layout.WrapText(card.Title, width) {
		lines = append(lines, a.styles.RecipeTitle.Render(l))
	}

	mark := "[ ] bookmark"
	if card.Bookmarked {
		mark = a.styles.Bookmarked.Render("[x] bookmarked")
	}
	info := fmt.Sprintf("%s min   %s servings (-/+)", card.Minutes, card.Servings)
	lines = append(lines,
		"",
		a.styles.Info.Render(info),
		mark,
	)
	if card.User {
		lines = append(lines, a.styles.Publisher.Render("your recipe"))
	}

	lines = append(lines, "", a.styles.Heading.Render("Recipe ingredients"))
	for _, ing := range card.Ingredients {
		for i, l := range layout.WrapText(ing, width-2) {
			if i == 0 {
				lines = append(lines, "- "+l)
			} else {
				lines = append(lines, "  "+l)
			}
		}
	}

	lines = append(lines, "", a.styles.Heading.Render("How to cook it"))
	for _, l := range layout.WrapText("This recipe was carefully designed and tested by "+card.Publisher+".", width) {
		lines = append(lines, a.styles.Publisher.Render(l))
	}
	if card.SourceURL != "" {
		url, _ := layout.TruncateText(card.SourceURL, width, a.layoutConfig.Text)
		lines = append(lines, a.styles.URL.Render(url))
	}
	return lines
}

// renderNotice renders a spinner, error or message notice.
func (a App) renderNotice(n Notice, width int) string {
	switch n.Kind {
	case NoticeSpinner:
		return a.spinner.View() + " Loading..."
	case NoticeError:
		return a.styles.Error.Render(strings.Join(layout.WrapText("! "+n.Text, width), "\n"))
	case NoticeMessage:
		return a.styles.Message.Render(strings.Join(layout.WrapText(n.Text, width), "\n"))
	default:
		return ""
	}
}

// renderUploadModal renders the add-recipe form centered on screen.
func (a App) renderUploadModal() string {
	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.WidthPercent, a.layoutConfig.Modal)

	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Add recipe") + "\n\n")

	for i, f := range a.upload.fields {
		label := f.label
		if i == a.upload.focus {
			label = a.styles.Title.Render(label)
		}
		content.WriteString(a.styles.Label.Render(label) + f.input.View() + "\n")
	}

	// Upload progress or outcome
	if n := a.uploadNotice(); n.Kind != NoticeNone {
		content.WriteString("\n" + a.renderNotice(n, modalWidth-4) + "\n")
	}

	content.WriteString("\n" + a.renderHintsInline(a.uploadHints()))

	modal := a.styles.Modal.Width(modalWidth).Render(content.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

// uploadNotice reads the notice shown in the upload region.
func (a App) uploadNotice() Notice {
	return readNotice(readRegion(a.regions.Upload))
}

// renderHelpBar renders the contextual hints bar at the bottom.
func (a App) renderHelpBar() string {
	return a.renderHints(a.contextualHints())
}

