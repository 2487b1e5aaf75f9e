package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks text into lines at most width cells wide. Breaks happen
// at spaces; a word wider than width is split across lines.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return strings.Split(text, "\n")
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		var line strings.Builder
		lineWidth := 0
		flush := func() {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		for _, word := range words {
			ww := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+ww <= width {
				line.WriteByte(' ')
				line.WriteString(word)
				lineWidth += 1 + ww
				continue
			}
			if lineWidth > 0 {
				flush()
			}
			for ww > width {
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					// A single rune wider than the line.
					head = string([]rune(word)[:1])
				}
				lines = append(lines, head)
				word = word[len(head):]
				ww = runewidth.StringWidth(word)
			}
			line.WriteString(word)
			lineWidth = ww
		}
		flush()
	}
	return lines
}

// hangingIndent wraps text after prefix and aligns continuation lines
// under the first character of text.
func hangingIndent(prefix, text string, width int) []string {
	prefixWidth := runewidth.StringWidth(prefix)
	lines := wrapText(text, width-prefixWidth)
	pad := strings.Repeat(" ", prefixWidth)
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return lines
}
