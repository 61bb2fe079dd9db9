package typing

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks each line of text into lines no wider than width display
// columns. Runs of whitespace inside a line collapse to one space, existing
// line breaks are kept and words wider than width are split.
func Wrap(text string, width int) string {
	if width < 1 {
		return text
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   strings.Builder
		curW  int
	)
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW = 0
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)
		if w > width {
			if curW > 0 {
				flush()
			}
			pieces := splitWord(word, width)
			for _, p := range pieces[:len(pieces)-1] {
				lines = append(lines, p)
			}
			last := pieces[len(pieces)-1]
			cur.WriteString(last)
			curW = runewidth.StringWidth(last)
			continue
		}
		if curW > 0 && curW+1+w > width {
			flush()
		}
		if curW > 0 {
			cur.WriteByte(' ')
			curW++
		}
		cur.WriteString(word)
		curW += w
	}
	if curW > 0 {
		flush()
	}
	return lines
}

// splitWord cuts word into pieces of at most width columns.
func splitWord(word string, width int) []string {
	var (
		pieces []string
		cur    strings.Builder
		curW   int
	)
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if curW > 0 && curW+rw > width {
			pieces = append(pieces, cur.String())
			cur.Reset()
			curW = 0
		}
		cur.WriteRune(r)
		curW += rw
	}
	if cur.Len() > 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces
}
