package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuicast/internal/model"
)

// wordLayout maps words onto wrapped rows. A nil line is a paragraph break.
type wordLayout struct {
	lines [][]int
	rows  []int
}

func layoutWords(words []model.Word, paragraphs []model.Paragraph, width int) wordLayout {
	out := wordLayout{rows: make([]int, len(words))}
	if width < 1 {
		width = 1
	}
	for p, para := range paragraphs {
		if p > 0 {
			out.lines = append(out.lines, nil)
		}
		line := []int{}
		lineWidth := 0
		for i := para.Start; i < para.End && i < len(words); i++ {
			w := runewidth.StringWidth(words[i].Text)
			if len(line) > 0 && lineWidth+1+w > width {
				out.lines = append(out.lines, line)
				line = []int{}
				lineWidth = 0
			}
			if len(line) > 0 {
				lineWidth++
			}
			line = append(line, i)
			lineWidth += w
			out.rows[i] = len(out.lines)
		}
		if len(line) > 0 {
			out.lines = append(out.lines, line)
		}
	}
	return out
}

func renderLayout(words []model.Word, layout wordLayout) string {
	var b strings.Builder
	for n, line := range layout.lines {
		if n > 0 {
			b.WriteByte('\n')
		}
		for k, idx := range line {
			if k > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(styleWord(words[idx]))
		}
	}
	return b.String()
}

func styleWord(w model.Word) string {
	switch {
	case w.Active:
		return activeWordStyle.Render(w.Text)
	case w.Passed:
		return spokenStyle.Render(w.Text)
	default:
		return pendingStyle.Render(w.Text)
	}
}

// viewportLayout measures the transcript viewport in rows.
type viewportLayout struct {
	vp   *viewport.Model
	rows []int
}

func (l viewportLayout) ContainerExtent() float64 {
	return float64(l.vp.Height)
}

func (l viewportLayout) TargetPosition(index int) (float64, float64, bool) {
	if index < 0 || index >= len(l.rows) {
		return 0, 0, false
	}
	return float64(l.rows[index] - l.vp.YOffset), 1, true
}

func (l viewportLayout) ScrollBy(delta float64) {
	l.vp.SetYOffset(l.vp.YOffset + int(math.Round(delta)))
}
