// Package textwrap breaks prose into lines that fit a terminal width.
package textwrap

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	r       rune
	width   int
	isSpace bool
}

// Wrap splits text into lines no wider than width display columns.
// Explicit line breaks are kept. Words longer than width are split.
// A width of zero or less disables wrapping.
func Wrap(text string, width int) []string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if width <= 0 {
		return paragraphs
	}
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, wrapLine(p, width)...)
	}
	return out
}

// String is Wrap joined with newlines.
func String(text string, width int) string {
	return strings.Join(Wrap(text, width), "\n")
}

func wrapLine(text string, width int) []string {
	cells := make([]cell, 0, len(text))
	for _, r := range text {
		if r == '\t' {
			r = ' '
		}
		cells = append(cells, cell{r: r, width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}

	var lines []string
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				lines = append(lines, render(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
				continue
			}
			if lastSpaceIdx >= 0 {
				lines = append(lines, render(line[:lastSpaceIdx]))
				line = append([]cell{}, line[lastSpaceIdx+1:]...)
				lineWidth = widthOf(line)
				lastSpaceIdx = lastSpace(line)
			} else {
				lines = append(lines, render(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(lines, render(line))
}

func render(line []cell) string {
	var b strings.Builder
	for _, item := range line {
		b.WriteRune(item.r)
	}
	return strings.TrimRight(b.String(), " ")
}

func widthOf(line []cell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpace(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
