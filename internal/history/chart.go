package history

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// DayTotal is the listened time of one local calendar day.
type DayTotal struct {
	Day      time.Time
	Listened float64
}

const (
	dayLayout     = "2006-01-02"
	axisSeparator = " │ "
	minBarWidth   = 10
	barColor      = "\x1b[36m"
	colorReset    = "\x1b[0m"
)

var partialBlocks = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// DailyTotals sums listened time per day of EndedAt, oldest day first. Days without listens are included.
func DailyTotals(report Report) []DayTotal {
	if len(report.Listens) == 0 {
		return nil
	}
	sums := map[string]float64{}
	first, last := dayOf(report.Listens[0].EndedAt), dayOf(report.Listens[0].EndedAt)
	for _, l := range report.Listens {
		day := dayOf(l.EndedAt)
		sums[day.Format(dayLayout)] += l.Listened
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}
	totals := []DayTotal{}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		totals = append(totals, DayTotal{Day: day, Listened: sums[day.Format(dayLayout)]})
	}
	return totals
}

// RenderDaily writes a horizontal bar chart of daily listened time.
func RenderDaily(w io.Writer, totals []DayTotal, width int) error {
	return renderDaily(w, totals, width, shouldUseColor(w))
}

func renderDaily(w io.Writer, totals []DayTotal, width int, useColor bool) error {
	if len(totals) == 0 {
		return nil
	}
	maxVal := 0.0
	for _, d := range totals {
		maxVal = math.Max(maxVal, d.Listened)
	}
	if maxVal <= 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidthBackup
	}
	labelWidth := runewidth.StringWidth(dayLayout) + runewidth.StringWidth(axisSeparator)
	valueWidth := len(" 000:00")
	barWidth := width - labelWidth - valueWidth
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	if _, err := fmt.Fprintln(w, "\nListened per day"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, d := range totals {
		bar := barFor(d.Listened/maxVal, barWidth)
		if useColor && bar != "" {
			bar = barColor + bar + colorReset
		}
		line := fmt.Sprintf("%s%s%s %s", d.Day.Format(dayLayout), axisSeparator, bar, formatMinutes(d.Listened))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func barFor(fraction float64, width int) string {
	if fraction <= 0 || width <= 0 {
		return ""
	}
	eighths := int(math.Round(math.Min(fraction, 1) * float64(width*8)))
	full, rem := eighths/8, eighths%8
	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	if rem > 0 {
		b.WriteRune(partialBlocks[rem])
	}
	return b.String()
}

func formatMinutes(seconds float64) string {
	total := int(math.Floor(seconds / 60))
	return fmt.Sprintf("%dh%02dm", total/60, total%60)
}

func dayOf(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
