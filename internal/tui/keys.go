package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Select       key.Binding
	Back         key.Binding
	NextPane     key.Binding
	Search       key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding
	ServingsUp   key.Binding
	ServingsDown key.Binding
	Bookmark     key.Binding
	Delete       key.Binding
	Upload       key.Binding
	YankURL      key.Binding
	Quit         key.Binding

	// Form keys
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("l", "right", "enter"),
			key.WithHelp("l/enter", "open recipe"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h", "previous recipe"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		Search: key.NewBinding(
			key.WithKeys("/", "s"),
			key.WithHelp("/", "search"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "["),
			key.WithHelp("p", "previous page"),
		),
		ServingsUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more servings"),
		),
		ServingsDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer servings"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmark"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove bookmark"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "add recipe"),
		),
		YankURL: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "yank URL"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-Tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "upload"),
		),
	}
}
