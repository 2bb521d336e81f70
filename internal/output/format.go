// Package output provides formatting for arXiv CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/henrybloomingdale/arxiv-cli/arxiv"
)

// OutputConfig controls which output mode(s) are active.
type OutputConfig struct {
	JSON    bool   // Structured JSON
	Human   bool   // Rich terminal output with color
	Full    bool   // Show full abstracts
	CSVFile string // Export results to this CSV path (works alongside any mode)
	RISFile string // Export results to this RIS path (works alongside any mode)
}

// searchJSON is the JSON envelope for search results.
type searchJSON struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []arxiv.Result `json:"results"`
}

// queryJSON is the JSON form of a rendered query.
type queryJSON struct {
	Query      string   `json:"query"`
	Terms      []string `json:"terms"`
	Start      int      `json:"start"`
	MaxResults int      `json:"max_results"`
}

// FormatResults writes search results. query is the rendered query string.
func FormatResults(w io.Writer, query string, results []arxiv.Result, cfg OutputConfig) error {
	if cfg.CSVFile != "" {
		if err := writeResultsCSV(cfg.CSVFile, results); err != nil {
			return fmt.Errorf("CSV export failed: %w", err)
		}
	}
	if cfg.RISFile != "" {
		if err := writeResultsRIS(cfg.RISFile, results); err != nil {
			return fmt.Errorf("RIS export failed: %w", err)
		}
	}
	if cfg.JSON {
		if results == nil {
			results = []arxiv.Result{}
		}
		return writeJSON(w, searchJSON{Query: query, Count: len(results), Results: results})
	}
	if cfg.Human {
		return formatResultsHuman(w, query, results, cfg.Full)
	}
	return formatResultsPlain(w, query, results, cfg.Full)
}

// FormatQuery writes a rendered query without contacting the API.
func FormatQuery(w io.Writer, q arxiv.Query, cfg OutputConfig) error {
	if cfg.JSON {
		return writeJSON(w, queryJSON{
			Query:      q.Encode(),
			Terms:      q.Terms(),
			Start:      q.StartIndex(),
			MaxResults: q.Limit(),
		})
	}
	_, err := fmt.Fprintln(w, q.Encode())
	return err
}

// --- Plain text formatters (default) ---

func formatResultsPlain(w io.Writer, query string, results []arxiv.Result, full bool) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "Found %s\n", resultCount(len(results)))
	if query != "" {
		fmt.Fprintf(w, "Query: %s\n", query)
	}
	fmt.Fprintln(w)

	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, collapse(r.Title))
		fmt.Fprintf(w, "   ID: %s\n", r.ID)
		if len(r.Authors) > 0 {
			fmt.Fprintf(w, "   Authors: %s\n", strings.Join(r.AuthorNames(), ", "))
		}
		fmt.Fprintf(w, "   Published: %s", formatDate(r.Published))
		if !r.Updated.Equal(r.Published) {
			fmt.Fprintf(w, "  Updated: %s", formatDate(r.Updated))
		}
		fmt.Fprintln(w)
		if r.PDF != "" {
			fmt.Fprintf(w, "   PDF: %s\n", r.PDF)
		}
		if full && strings.TrimSpace(r.Summary) != "" {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "   %s\n", collapse(r.Summary))
		}
		if i < len(results)-1 {
			fmt.Fprintln(w)
		}
	}

	return nil
}

// resultCount renders "1 result" or "N results".
func resultCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// collapse joins whitespace runs; feed titles and summaries are hard-wrapped.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
