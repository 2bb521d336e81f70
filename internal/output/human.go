package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/henrybloomingdale/arxiv-cli/arxiv"
)

// --- Styles ---

var (
	cyan       = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bold       = lipgloss.NewStyle().Bold(true)
	dim        = lipgloss.NewStyle().Faint(true)
	yellow     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	magenta    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)
)

const abstractPreview = 500

// truncate cuts a string to maxLen runes, appending "…" if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}

// authorSummary returns "First Author et al." for long author lists.
func authorSummary(r arxiv.Result) string {
	switch len(r.Authors) {
	case 0:
		return ""
	case 1:
		return r.Authors[0].Name
	case 2:
		return r.Authors[0].Name + ", " + r.Authors[1].Name
	default:
		return r.Authors[0].Name + " et al."
	}
}

func formatResultsHuman(w io.Writer, query string, results []arxiv.Result, full bool) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "📄 No results found.")
		return nil
	}

	fmt.Fprintln(w, bold.Render("📄 Found "+resultCount(len(results))))
	if query != "" {
		fmt.Fprintf(w, "   Query: %s\n", dim.Render(query))
	}
	fmt.Fprintln(w)

	var rows [][]string
	for i, r := range results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			cyan.Render(r.ShortID()),
			bold.Render(truncate(collapse(r.Title), 50)),
			truncate(authorSummary(r), 30),
			formatDate(r.Published),
		})
	}

	t := table.New().
		Headers("#", "arXiv", "Title", "Authors", "Published").
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		formatResultCard(w, r, full)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, dim.Render("💾 Use --csv results.csv or --ris results.ris to export"))
	return nil
}

func formatResultCard(w io.Writer, r arxiv.Result, full bool) {
	titleLine := bold.Render(collapse(r.Title))
	meta := cyan.Render("arXiv: " + r.ShortID())
	meta += dim.Render(" · ") + formatDate(r.Published)
	if !r.Updated.Equal(r.Published) {
		meta += dim.Render(" · updated ") + formatDate(r.Updated)
	}
	fmt.Fprintln(w, boxStyle.Render(titleLine+"\n"+meta))

	if len(r.Authors) > 0 {
		names := make([]string, len(r.Authors))
		for j, a := range r.Authors {
			names[j] = a.Name
			if a.Affiliation != "" {
				names[j] += dim.Render(" (" + a.Affiliation + ")")
			}
		}
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Authors:"), strings.Join(names, ", "))
	}
	if r.PDF != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("PDF:"), yellow.Render(r.PDF))
	}

	abstract := collapse(r.Summary)
	if abstract == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", labelStyle.Render("Abstract:"))
	cut := !full && len([]rune(abstract)) > abstractPreview
	if cut {
		abstract = truncate(abstract, abstractPreview)
	}
	for _, line := range strings.Split(wordWrap(abstract, 76), "\n") {
		fmt.Fprintf(w, "    %s %s\n", magenta.Render("│"), line)
	}
	if cut {
		fmt.Fprintf(w, "    %s\n", dim.Render("[use --full for complete abstract]"))
	}
}

// wordWrap wraps text at the given width, breaking at spaces.
func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return strings.Join(lines, "\n")
}
