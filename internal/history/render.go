package history

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/tuicast/internal/transport"
)

const terminalWidthBackup = 100

// Render writes the history table. Lines longer than width are truncated; width <= 0 disables it.
func Render(w io.Writer, report Report, width int) error {
	if len(report.Modules) == 0 {
		_, err := fmt.Fprintln(w, "No listening history yet.")
		return err
	}
	headers := []string{"Title", "Sessions", "Listened", "Position", "Progress", "Status"}
	rows := make([][]string, 0, len(report.Modules))
	for _, m := range report.Modules {
		status := "in progress"
		if m.Completed {
			status = "completed"
		}
		title := m.Title
		if title == "" {
			title = m.ModuleID
		}
		rows = append(rows, []string{
			title,
			fmt.Sprintf("%d", m.Sessions),
			transport.FormatTime(m.Listened),
			transport.FormatTime(m.Position) + " / " + transport.FormatTime(m.Duration),
			fmt.Sprintf("%.0f%%", m.Progress()*100),
			status,
		})
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
	lines = append(lines, "", fmt.Sprintf("Total listened %s · %d of %d completed",
		transport.FormatTime(report.TotalListened), report.Completed, len(report.Modules)))
	for _, line := range lines {
		if width > 0 && runewidth.StringWidth(line) > width {
			line = runewidth.Truncate(line, width, "…")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// OutputWidth returns the terminal width for w, or 0 when w is not a terminal.
func OutputWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
