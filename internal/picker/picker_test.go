package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/forkify/internal/model"
	"github.com/nikbrunner/forkify/internal/search"
	"github.com/nikbrunner/forkify/internal/tui/layout"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func threeResults() []search.SearchResult {
	return []search.SearchResult{
		{Recipe: &model.Recipe{ID: "r1", Title: "Pizza Dough", SourceURL: "https://example.com/pizza"}, MatchedIndexes: []int{0}},
		{Recipe: &model.Recipe{ID: "r2", Title: "Pasta Carbonara", SourceURL: "https://example.com/pasta"}, MatchedIndexes: []int{0}},
		{Recipe: &model.Recipe{ID: "r3", Title: "Penne Arrabbiata", Publisher: "Simply Recipes"}, ByPublisher: true},
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// run feeds keys to a picker and reports whether the last one quit.
func run(p Picker, keys ...string) (Picker, bool) {
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = p.Update(keyMsg(k))
		p = m.(Picker)
	}
	if cmd == nil {
		return p, false
	}
	_, quit := cmd().(tea.QuitMsg)
	return p, quit
}

func TestPicker_Keys(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantCursor int
		wantID     string // "" when nothing is chosen
		wantQuit   bool
	}{
		{"starts at top", nil, 0, "", false},
		{"j moves down", []string{"j"}, 1, "", false},
		{"arrows move", []string{"down", "down", "up"}, 1, "", false},
		{"stops at bottom", []string{"j", "j", "j", "j"}, 2, "", false},
		{"stops at top", []string{"k", "k"}, 0, "", false},
		{"G jumps to bottom", []string{"G"}, 2, "", false},
		{"g jumps to top", []string{"end", "g"}, 0, "", false},
		{"home jumps to top", []string{"G", "home"}, 0, "", false},
		{"enter chooses", []string{"j", "enter"}, 1, "r2", true},
		{"q cancels", []string{"j", "q"}, 1, "", true},
		{"esc cancels", []string{"esc"}, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, quit := run(New(threeResults(), "p"), tt.keys...)

			assert.Equal(t, p.cursor, tt.wantCursor)
			assert.Equal(t, quit, tt.wantQuit)
			got := p.SelectedRecipe()
			if tt.wantID == "" {
				assert.Assert(t, got == nil)
			} else {
				assert.Assert(t, got != nil)
				assert.Equal(t, got.ID, tt.wantID)
			}
		})
	}
}

func TestPicker_Cancelled(t *testing.T) {
	p, _ := run(New(threeResults(), "p"), "esc")
	assert.Assert(t, p.Cancelled())

	p, _ = run(New(threeResults(), "p"), "enter")
	assert.Assert(t, !p.Cancelled())
}

func TestPicker_Empty(t *testing.T) {
	p, _ := run(New(nil, "x"), "j", "G", "enter")
	assert.Equal(t, p.cursor, 0)
	assert.Assert(t, p.SelectedRecipe() == nil)
}

func TestPicker_WindowSize(t *testing.T) {
	m, _ := New(threeResults(), "p").Update(tea.WindowSizeMsg{Width: 30, Height: 7})
	p := m.(Picker)
	assert.Equal(t, p.width, 30)

	// One result fits in a 7 line terminal.
	view := layout.StripANSI(p.View())
	assert.Assert(t, is.Contains(view, "Pizza"))
	assert.Assert(t, !strings.Contains(view, "Pasta"))
}

func TestPicker_View(t *testing.T) {
	view := layout.StripANSI(New(threeResults(), "p").View())

	for _, want := range []string{
		"Search: p (3 recipes)",
		"> Pizza Dough",
		"Pasta Carbonara",
		"https://example.com/pasta",
		"Penne Arrabbiata by Simply Recipes",
	} {
		assert.Assert(t, is.Contains(view, want))
	}
}
