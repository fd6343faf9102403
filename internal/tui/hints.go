package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Hint is one key shown in a help line.
type Hint struct {
	Key  string
	Desc string
}

// hint labels a binding with its help key and a short description.
func hint(b key.Binding, desc string) Hint {
	return Hint{Key: b.Help().Key, Desc: desc}
}

// renderHints renders the bottom bar: "j/down:move tab:pane q:quit"
func (a App) renderHints(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints inside a modal: "Tab next  Esc close"
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// contextualHints returns the bottom bar hints for the current mode and
// focused pane. The upload modal carries its own.
func (a App) contextualHints() []Hint {
	k := a.keys
	switch a.mode {
	case ModeSearch:
		return []Hint{hint(k.Confirm, "search"), hint(k.Cancel, "cancel")}
	case ModeUpload:
		return nil
	}

	hints := []Hint{hint(k.Down, "move"), hint(k.NextPane, "pane"), hint(k.Search, "search")}
	switch a.focus {
	case PaneResults:
		hints = append(hints, hint(k.Select, "open"), hint(k.NextPage, "next"), hint(k.PrevPage, "prev"))
	case PaneBookmarks:
		hints = append(hints, hint(k.Select, "open"), hint(k.Delete, "del"))
	case PaneRecipe:
		hints = append(hints, hint(k.ServingsUp, "more"), hint(k.ServingsDown, "less"), hint(k.YankURL, "yank"))
	}
	return append(hints,
		hint(k.Back, "back"),
		hint(k.Bookmark, "bookmark"),
		hint(k.Upload, "add"),
		hint(k.Quit, "quit"),
	)
}

// uploadHints returns the inline hints of the upload modal.
func (a App) uploadHints() []Hint {
	return []Hint{
		hint(a.keys.NextField, "next"),
		hint(a.keys.PrevField, "prev"),
		hint(a.keys.Submit, "upload"),
		hint(a.keys.Cancel, "close"),
	}
}
