package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App        lipgloss.Style
	Pane       lipgloss.Style
	PaneActive lipgloss.Style
	Modal      lipgloss.Style

	Title       lipgloss.Style
	RecipeTitle lipgloss.Style
	Heading     lipgloss.Style
	Label       lipgloss.Style

	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemActive   lipgloss.Style // result whose recipe is on screen
	Publisher    lipgloss.Style
	Info         lipgloss.Style
	Bookmarked   lipgloss.Style
	URL          lipgloss.Style

	Error   lipgloss.Style
	Message lipgloss.Style
	Status  lipgloss.Style
	Empty   lipgloss.Style

	HintKey  lipgloss.Style
	HintDesc lipgloss.Style
}

// palette is the warm grayscale the TUI draws with. Orange is the only
// accent.
type palette struct {
	text, muted, accent, danger, border lipgloss.TerminalColor
}

var forkifyPalette = palette{
	text:   lipgloss.AdaptiveColor{Light: "#505050", Dark: "#B0B0B0"},
	muted:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"},
	accent: lipgloss.AdaptiveColor{Light: "#C0661E", Dark: "#F38E49"},
	danger: lipgloss.AdaptiveColor{Light: "#A03030", Dark: "#D06060"},
	border: lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"},
}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boxed(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	p := forkifyPalette
	return Styles{
		App:        lipgloss.NewStyle().Padding(1, 2, 0, 2),
		Pane:       boxed(p.border).Padding(0, 1),
		PaneActive: boxed(p.accent).Padding(0, 1),
		Modal:      boxed(p.accent).Padding(1, 2),

		Title:       fg(p.accent).Bold(true),
		RecipeTitle: fg(p.accent).Bold(true),
		Heading:     fg(p.text).Bold(true),
		Label:       fg(p.muted).Width(14),

		Item:         fg(p.text),
		ItemSelected: lipgloss.NewStyle().Background(p.accent).Foreground(lipgloss.Color("#1A1A1A")),
		ItemActive:   fg(p.accent).Bold(true),
		Publisher:    fg(p.muted),
		Info:         fg(p.text),
		Bookmarked:   fg(p.accent),
		URL:          fg(p.muted).Underline(true),

		Error:   fg(p.danger),
		Message: fg(p.accent),
		Status:  fg(p.muted).Italic(true),
		Empty:   fg(p.muted),

		HintKey:  fg(p.muted),
		HintDesc: fg(p.muted),
	}
}
