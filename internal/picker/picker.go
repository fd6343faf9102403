// Package picker is a small TUI for choosing one of several bookmarked
// recipes.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/forkify/internal/model"
	"github.com/nikbrunner/forkify/internal/search"
	"github.com/nikbrunner/forkify/internal/tui/layout"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Underline(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)
)

// keyMap holds the picker bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Choose key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("k", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down")),
	Top:    key.NewBinding(key.WithKeys("g", "home")),
	Bottom: key.NewBinding(key.WithKeys("G", "end")),
	Choose: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// Picker lets the user choose one recipe out of fuzzy search results.
type Picker struct {
	results   []search.SearchResult
	query     string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
	text      layout.TextConfig
}

// New creates a Picker over results, which are shown in order.
func New(results []search.SearchResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
		text:    layout.DefaultConfig().Text,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height

	case tea.KeyMsg:
		last := len(p.results) - 1
		switch {
		case key.Matches(msg, keys.Cancel):
			p.cancelled = true
			return p, tea.Quit
		case key.Matches(msg, keys.Choose):
			p.selected = true
			return p, tea.Quit
		case key.Matches(msg, keys.Down):
			p.cursor = min(p.cursor+1, max(last, 0))
		case key.Matches(msg, keys.Up):
			p.cursor = max(p.cursor-1, 0)
		case key.Matches(msg, keys.Top):
			p.cursor = 0
		case key.Matches(msg, keys.Bottom):
			p.cursor = max(last, 0)
		}
	}
	return p, nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d recipes)", p.query, len(p.results))))
	b.WriteString("\n\n")

	// Each result takes two lines
	maxVisible := (p.height - 5) / 2
	if maxVisible < 1 {
		maxVisible = 1
	}
	start, end := layout.VisibleRange(p.cursor, len(p.results), maxVisible)

	for i := start; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := highlight(result.Recipe.Title, result.MatchedIndexes, style)
		if result.ByPublisher {
			title += urlStyle.Render(" by ") + matchStyle.Render(result.Recipe.Publisher)
		}
		title = layout.TruncateANSIAware(title, p.width-4, p.text)
		url, _ := layout.TruncateText(result.Recipe.SourceURL, p.width-4, p.text)

		fmt.Fprintf(&b, "%s%s\n", cursor, title)
		fmt.Fprintf(&b, "   %s\n", urlStyle.Render(url))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("j/k: move  g/G: top/bottom  Enter: open  q/Esc: cancel"))

	return b.String()
}

// highlight styles the matched runes of title.
func highlight(title string, matched []int, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(title)
	}
	isMatch := make(map[int]bool, len(matched))
	for _, i := range matched {
		isMatch[i] = true
	}

	var b strings.Builder
	for i, r := range []rune(title) {
		if isMatch[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// SelectedRecipe returns the selected recipe, or nil if cancelled.
func (p Picker) SelectedRecipe() *model.Recipe {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Recipe
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
