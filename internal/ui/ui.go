package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/swibrow/intent/internal/catalog"
	"github.com/swibrow/intent/internal/classifier"
	"github.com/swibrow/intent/internal/history"
)

// Catppuccin Mocha palette
var (
	suggestionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1")) // Green
	greetingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c2e7"))            // Pink
	retryStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))            // Subtext0
	promptStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")) // Blue
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f38ba8")) // Red
)

// IsTerminal reports whether w is a terminal. Styling is only applied
// when it is, so piped output stays plain.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Display writes the formatted response for res, styled by result kind.
func Display(w io.Writer, res classifier.Result) {
	text := classifier.Format(res)
	if IsTerminal(w) {
		text = styleFor(res.Kind).Render(text)
	}
	fmt.Fprintln(w, text)
}

// DisplayQuiet writes only the plain response (for piping).
func DisplayQuiet(w io.Writer, res classifier.Result) {
	fmt.Fprintln(w, classifier.Format(res))
}

// Prompt renders a question shown before reading input.
func Prompt(w io.Writer, msg string) string {
	if IsTerminal(w) {
		return promptStyle.Render(msg)
	}
	return msg
}

// DisplayError shows a formatted error message.
func DisplayError(msg string) {
	fmt.Fprintf(os.Stderr, "\n  %s %s\n\n", errorStyle.Render("Error:"), msg)
}

func styleFor(k classifier.Kind) lipgloss.Style {
	switch k {
	case classifier.CategoryHits:
		return suggestionStyle
	case classifier.GreetingReply:
		return greetingStyle
	default:
		return retryStyle
	}
}

// CategoryTable lists categories with their keyword phrases.
func CategoryTable(w io.Writer, cats []catalog.Category) {
	table := newTable(w, []string{"ID", "Label", "Keywords"})
	table.SetAutoWrapText(true)
	for _, c := range cats {
		table.Append([]string{c.ID, c.Label, strings.Join(c.Keywords, ", ")})
	}
	table.Render()
}

// HistoryTable lists recorded classifications.
func HistoryTable(w io.Writer, entries []history.Entry) {
	table := newTable(w, []string{"ID", "Phrase", "Response", "Uses", "Recorded At"})
	for _, e := range entries {
		table.Append([]string{
			strconv.FormatInt(e.ID, 10),
			e.Phrase,
			e.Response,
			strconv.Itoa(e.UseCount),
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}
