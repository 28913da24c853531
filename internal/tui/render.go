package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// missedSpace is shown where a space was expected but something else typed.
const missedSpace = '·'

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	flaggedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D46B08"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

type cell struct {
	s       string
	width   int
	isSpace bool
}

// buildCells styles every target rune against what was typed so far. The
// current word turns orange once the session is flagged.
func buildCells(target, input []rune, cursor int, flagged bool) []cell {
	word, hasWord := wordAt(target, cursor)
	current := currentWordStyle
	if flagged {
		current = flaggedStyle
	}

	out := make([]cell, 0, len(target))
	for i, want := range target {
		shown := want
		style := pendingStyle
		switch {
		case i < len(input) && want == ' ' && input[i] != ' ':
			shown = missedSpace
			style = incorrectStyle
		case i < len(input) && input[i] == want:
			style = correctStyle
		case i < len(input):
			style = incorrectStyle
		case want != ' ' && hasWord && i >= word.start && i < word.end:
			style = current
		}
		if i == cursor && i >= len(input) {
			style = style.Underline(true)
		}
		out = append(out, cell{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	return out
}

type span struct {
	start int
	end   int
}

// wordAt returns the word under cursor, or the next word when the cursor
// sits on a space. A negative cursor selects the first word.
func wordAt(target []rune, cursor int) (span, bool) {
	var words []span
	start := -1
	for i, r := range target {
		if r == ' ' {
			if start != -1 {
				words = append(words, span{start, i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, span{start, len(target)})
	}
	if len(words) == 0 {
		return span{}, false
	}
	if cursor < 0 {
		return words[0], true
	}
	for _, w := range words {
		if cursor < w.end {
			return w, true
		}
	}
	return words[len(words)-1], true
}

func joinCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks cells into lines no wider than width, preferring the last
// space on the line. The space at a break is dropped.
func wrapCells(cells []cell, width int) []string {
	if width <= 0 {
		return []string{joinCells(cells)}
	}
	var lines []string
	line := make([]cell, 0, width)
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if c.isSpace && len(line) == 0 && len(lines) > 0 {
			i++
			continue
		}
		if lineWidth+c.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				lines = append(lines, joinCells(line[:lastSpace]))
				line = append([]cell{}, line[lastSpace+1:]...)
			} else {
				lines = append(lines, joinCells(line))
				line = line[:0]
			}
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	return append(lines, joinCells(line))
}

func measure(line []cell) (width, lastSpace int) {
	lastSpace = -1
	for i, c := range line {
		width += c.width
		if c.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
