package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// reset clears any style left open by a cut escape sequence.
const reset = "\x1b[0m"

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleLength returns the number of terminal cells s occupies.
// Escape codes take none; wide runes take two.
func VisibleLength(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText cuts plain text to maxWidth cells, ending it with the
// ellipsis. Reports whether anything was cut.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if ansi.StringWidth(text) <= maxWidth {
		return text, false
	}
	if maxWidth <= ansi.StringWidth(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateANSIAware cuts styled text to maxWidth cells. Escape codes are
// kept and a reset is appended when the text was cut.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(styledText) <= maxWidth {
		return styledText
	}
	tail := cfg.Ellipsis
	if ansi.StringWidth(tail) > maxWidth {
		tail = ansi.Truncate(tail, maxWidth, "")
	}
	return ansi.Truncate(styledText, maxWidth, tail) + reset
}

// WrapText breaks text into lines of at most width cells, splitting on
// spaces. Words wider than width are cut.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	line := ""
	flush := func() {
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
	}
	for _, word := range strings.Fields(text) {
		for ansi.StringWidth(word) > width {
			flush()
			head := ansi.Truncate(word, width, "")
			if head == "" {
				// A wide rune in a one-cell column gets a line of its own.
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
		}
		if word == "" {
			continue
		}
		switch {
		case line == "":
			line = word
		case ansi.StringWidth(line)+1+ansi.StringWidth(word) <= width:
			line += " " + word
		default:
			flush()
			line = word
		}
	}
	flush()
	return lines
}
