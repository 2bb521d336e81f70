package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/henrybloomingdale/arxiv-cli/arxiv"
)

var csvHeader = []string{"id", "arxiv_id", "title", "authors", "published", "updated", "pdf", "summary"}

// writeResultsCSV exports search results, one row per paper.
func writeResultsCSV(path string, results []arxiv.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.ID,
			r.ShortID(),
			collapse(r.Title),
			strings.Join(r.AuthorNames(), "; "),
			csvTime(r.Published),
			csvTime(r.Updated),
			r.PDF,
			collapse(r.Summary),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV output: %w", err)
	}
	return nil
}

func csvTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
