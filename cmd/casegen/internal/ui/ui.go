package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Output is where every helper writes. Tests replace it.
var Output io.Writer = os.Stdout

// Input is where Confirm reads answers from.
var Input io.Reader = os.Stdin

// PrintHeader prints a section header
func PrintHeader(title string) {
	line := strings.Repeat("=", runewidth.StringWidth(title)+4)
	fmt.Fprintf(Output, "\n%s%s%s\n", colorBold+colorBlue, line, colorReset)
	fmt.Fprintf(Output, "%s  %s  %s\n", colorBold+colorBlue, title, colorReset)
	fmt.Fprintf(Output, "%s%s%s\n\n", colorBold+colorBlue, line, colorReset)
}

// PrintStep prints a step in progress
func PrintStep(message string) {
	fmt.Fprintf(Output, "%s▶%s %s\n", colorCyan, colorReset, message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(Output, "%s✓%s %s\n", colorGreen, colorReset, message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(Output, "%s✗%s %s\n", colorRed, colorReset, message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(Output, "%s⚠%s %s\n", colorYellow, colorReset, message)
}

// PrintInfo prints an informational message
func PrintInfo(message string) {
	fmt.Fprintf(Output, "  %s\n", message)
}

// PrintMuted prints a de-emphasized line
func PrintMuted(message string) {
	fmt.Fprintf(Output, "  %s%s%s\n", colorGray, message, colorReset)
}

// PrintCoverage prints a coverage ratio bar
func PrintCoverage(covered, total int) {
	if total == 0 {
		return
	}

	percentage := float64(covered) / float64(total) * 100
	barWidth := 40
	filled := int(float64(barWidth) * float64(covered) / float64(total))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	color := colorGreen
	if covered < total {
		color = colorYellow
	}
	fmt.Fprintf(Output, "Classes covered [%s%s%s] %d/%d (%.1f%%)\n",
		color, bar, colorReset, covered, total, percentage)
}

// PrintTable prints a simple table. Column widths are measured in terminal
// cells, so accented and wide characters stay aligned.
func PrintTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && runewidth.StringWidth(cell) > widths[i] {
				widths[i] = runewidth.StringWidth(cell)
			}
		}
	}

	// Print header
	for i, h := range headers {
		fmt.Fprintf(Output, "%s%s%s  ", colorBold, runewidth.FillRight(h, widths[i]), colorReset)
	}
	fmt.Fprintln(Output)

	// Print separator
	for _, w := range widths {
		fmt.Fprint(Output, strings.Repeat("-", w)+"  ")
	}
	fmt.Fprintln(Output)

	// Print rows
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(Output, "%s  ", runewidth.FillRight(cell, widths[i]))
			}
		}
		fmt.Fprintln(Output)
	}
}

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1).Align(lipgloss.Center)
)

// RenderGrid renders a bordered table. Columns at or past markFrom are
// centered and colored, which suits the coverage marker columns; pass a
// negative markFrom to disable.
func RenderGrid(headers []string, rows [][]string, markFrom int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if markFrom >= 0 && col >= markFrom {
				return markStyle
			}
			return cellStyle
		})
	return t.String()
}

// PrintGrid prints a table rendered by RenderGrid
func PrintGrid(headers []string, rows [][]string, markFrom int) {
	fmt.Fprintln(Output, RenderGrid(headers, rows, markFrom))
}

// Confirm prompts for yes/no confirmation
func Confirm(message string) bool {
	fmt.Fprintf(Output, "%s%s (y/n): %s", colorPurple, message, colorReset)
	response, _ := bufio.NewReader(Input).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
