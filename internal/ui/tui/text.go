package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// fitWidth truncates or pads text to exactly width terminal cells.
func fitWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) > width {
		return runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

// truncate shortens text to at most width cells.
func truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}

// alignRight pads text on the left to width cells. Numbers read best
// right-aligned.
func alignRight(text string, width int) string {
	if w := runewidth.StringWidth(text); w < width {
		return strings.Repeat(" ", width-w) + text
	}
	return text
}
