package layout

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestVisibleLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain", "flour", 5},
		{"styled", "\x1b[1;31mflour\x1b[0m", 5},
		{"wide runes", "ラーメン", 8},
		{"only escapes", "\x1b[1m\x1b[0m", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, VisibleLength(tt.input), tt.want)
		})
	}
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, StripANSI("2 \x1b[1mcups\x1b[0m flour"), "2 cups flour")
	assert.Equal(t, StripANSI("plain"), "plain")
}

func TestTruncateText(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		name      string
		text      string
		maxWidth  int
		want      string
		truncated bool
	}{
		{"fits", "Pizza Dough", 20, "Pizza Dough", false},
		{"exact", "Pizza", 5, "Pizza", false},
		{"cut", "Pizza Dough", 8, "Pizza...", true},
		{"only room for ellipsis", "Pizza Dough", 3, "...", true},
		{"narrower than ellipsis", "Pizza Dough", 2, "..", true},
		{"zero", "Pizza", 0, "", true},
		{"wide runes", "ラーメン屋", 7, "ラー...", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateText(tt.text, tt.maxWidth, cfg)
			assert.Equal(t, got, tt.want)
			assert.Equal(t, truncated, tt.truncated)
		})
	}
}

func TestTruncateANSIAware(t *testing.T) {
	cfg := DefaultConfig().Text

	t.Run("short styled text is untouched", func(t *testing.T) {
		in := "\x1b[1mPizza\x1b[0m"
		assert.Equal(t, TruncateANSIAware(in, 10, cfg), in)
	})

	t.Run("cut keeps escapes and resets", func(t *testing.T) {
		got := TruncateANSIAware("\x1b[33mPizza\x1b[0m Dough", 8, cfg)
		assert.Assert(t, VisibleLength(got) <= 8)
		assert.Assert(t, strings.HasPrefix(got, "\x1b[33m"))
		assert.Assert(t, strings.HasSuffix(got, "...\x1b[0m"))
		assert.Equal(t, StripANSI(got), "Pizza...")
	})

	t.Run("degenerate widths", func(t *testing.T) {
		assert.Equal(t, TruncateANSIAware("Pizza", 0, cfg), "")
		assert.Equal(t, TruncateANSIAware("Pizza", -1, cfg), "")
		assert.Assert(t, VisibleLength(TruncateANSIAware("Pizza Dough", 2, cfg)) <= 2)
	})
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "two cups flour", 20, []string{"two cups flour"}},
		{"wraps on spaces", "two cups of flour", 8, []string{"two cups", "of flour"}},
		{"collapses whitespace", "a   b", 10, []string{"a b"}},
		{"cuts long words", "abcdefghij xy", 4, []string{"abcd", "efgh", "ij", "xy"}},
		{"wide runes", "ラーメン", 4, []string{"ラー", "メン"}},
		{"wide rune in one cell", "ラ", 1, []string{"ラ"}},
		{"empty", "", 10, nil},
		{"zero width", "text", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Assert(t, is.DeepEqual(WrapText(tt.text, tt.width), tt.want))
		})
	}
}
