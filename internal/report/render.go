package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/palindrom/palindrom/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	TotalFiles   int
}

var (
	lengthStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func paint(s lipgloss.Style, text string, noColor bool) string {
	if noColor {
		return text
	}
	return s.Render(text)
}

// PrintTable renders scan results as a bordered table.
func PrintTable(w io.Writer, ps []types.Palindrome, opts PrintOptions) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "No palindromes found")
		return
	}
	fmt.Fprintf(w, "Palindromes: %d\n", len(ps))
	table := tablewriter.NewWriter(w)
	table.Header("LENGTH", "NORMALIZED", "ORIGINAL", "OFFSET")
	for _, p := range ps {
		_ = table.Append([]string{
			paint(lengthStyle, strconv.Itoa(p.Length), opts.NoColor),
			p.Normalized,
			p.Original,
			fmt.Sprintf("%d-%d", p.Start, p.End),
		})
	}
	_ = table.Render()
}

// PrintText renders scan results as plain columns, one per line.
func PrintText(w io.Writer, ps []types.Palindrome, opts PrintOptions) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "No palindromes found")
		return
	}
	fmt.Fprintf(w, "Palindromes: %d\n", len(ps))
	for _, p := range ps {
		fmt.Fprintf(w, "%-4s %s\t%s\n", paint(lengthStyle, strconv.Itoa(p.Length), opts.NoColor), p.Normalized, p.Original)
	}
}

// PrintMatchesTable renders corpus matches as a bordered table followed by a
// summary footer.
func PrintMatchesTable(w io.Writer, ms []types.Match, opts PrintOptions) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "No palindromes found")
	} else {
		fmt.Fprintf(w, "Palindromes: %d\n", len(ms))
		table := tablewriter.NewWriter(w)
		table.Header("LOCATION", "LENGTH", "NORMALIZED", "ORIGINAL")
		for _, m := range ms {
			_ = table.Append([]string{
				paint(pathStyle, fmt.Sprintf("%s:%d", m.Path, m.Line), opts.NoColor),
				strconv.Itoa(m.Length),
				m.Normalized,
				m.Original,
			})
		}
		_ = table.Render()
	}
	printFooter(w, len(ms), opts)
}

// PrintMatchesText renders corpus matches as grep-like lines.
func PrintMatchesText(w io.Writer, ms []types.Match, opts PrintOptions) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "No palindromes found")
	}
	for _, m := range ms {
		loc := paint(pathStyle, fmt.Sprintf("%s:%d", m.Path, m.Line), opts.NoColor)
		fmt.Fprintf(w, "%s  %d  %s\t%s\n", loc, m.Length, m.Normalized, m.Original)
	}
	printFooter(w, len(ms), opts)
}

func printFooter(w io.Writer, n int, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Palindromes: %d\n", n)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		if opts.TotalFiles > 0 {
			fmt.Fprintf(w, "Files scanned: %d/%d\n", opts.FilesScanned, opts.TotalFiles)
		} else {
			fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
		}
	}
}

// PrintDiscoveries renders oracle discoveries, one block per palindrome.
func PrintDiscoveries(w io.Writer, ds []types.Discovery, opts PrintOptions) {
	if len(ds) == 0 {
		fmt.Fprintln(w, "No discoveries")
		return
	}
	for i, d := range ds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, paint(lengthStyle, d.Text, opts.NoColor))
		fmt.Fprintf(w, "  %s %s:%s\n", d.Book, d.Chapter, d.Verse)
		if d.Meaning != "" {
			fmt.Fprintf(w, "  %s\n", d.Meaning)
		}
	}
}

// WriteJSON pretty-prints v as JSON for humans or pipelines.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
