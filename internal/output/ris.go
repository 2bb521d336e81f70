package output

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/henrybloomingdale/arxiv-cli/arxiv"
)

// writeResultsRIS exports search results to RIS format for citation managers.
func writeResultsRIS(path string, results []arxiv.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating RIS file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, r := range results {
		writeRISTag(w, "TY", "UNPB")
		writeRISTag(w, "TI", r.Title)

		for _, a := range r.Authors {
			writeRISTag(w, "AU", risAuthor(a.Name))
		}

		if !r.Published.IsZero() {
			writeRISTag(w, "PY", r.Published.UTC().Format("2006"))
			writeRISTag(w, "DA", r.Published.UTC().Format("2006/01/02"))
		}
		writeRISTag(w, "AB", r.Summary)
		writeRISTag(w, "DB", "arXiv")
		if id := r.ShortID(); id != "" {
			writeRISTag(w, "ID", "arXiv:"+id)
		}
		writeRISTag(w, "UR", r.ID)
		writeRISTag(w, "L1", r.PDF)
		writeRISTag(w, "ER", "")

		if i < len(results)-1 {
			if _, err := w.WriteString("\n"); err != nil {
				return fmt.Errorf("writing RIS separator: %w", err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing RIS output: %w", err)
	}

	return nil
}

func writeRISTag(w *bufio.Writer, tag, value string) {
	if tag == "" {
		return
	}
	if tag != "ER" && strings.TrimSpace(value) == "" {
		return
	}
	if tag == "ER" {
		_, _ = w.WriteString("ER  -\n")
		return
	}
	_, _ = w.WriteString(tag + "  - " + sanitizeRISValue(value) + "\n")
}

// sanitizeRISValue flattens a value onto one line; RIS tags are line-based.
func sanitizeRISValue(v string) string {
	return collapse(v)
}

// risAuthor turns "First M. Last" into "Last, First M.". Single-word names
// are kept as-is.
func risAuthor(name string) string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return strings.Join(fields, " ")
	}
	last := fields[len(fields)-1]
	return last + ", " + strings.Join(fields[:len(fields)-1], " ")
}
