package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/henrybloomingdale/arxiv-cli/arxiv"
)

func sampleResults() []arxiv.Result {
	return []arxiv.Result{
		{
			ID:        "http://arxiv.org/abs/1234.5678v1",
			Published: time.Date(2012, 3, 30, 8, 15, 0, 0, time.UTC),
			Updated:   time.Date(2012, 4, 3, 10, 0, 0, 0, time.UTC),
			Title:     "Electron Transport\n  in Layered Materials",
			Summary:   "We study electron\n  transport in layered materials.",
			Authors: []arxiv.Author{
				{Name: "Ada Lovelace", Affiliation: "Analytical Engines Ltd"},
				{Name: "Charles Babbage"},
				{Name: "Mary Somerville"},
			},
			PDF: "http://arxiv.org/pdf/1234.5678v1",
		},
		{
			ID:        "http://arxiv.org/abs/hep-th/9901001v1",
			Published: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
			Updated:   time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
			Title:     "Strings & Things",
			Summary:   "A short abstract.",
			Authors:   []arxiv.Author{{Name: "E. Witten"}},
			PDF:       "http://arxiv.org/pdf/hep-th/9901001v1",
		},
	}
}

func TestFormatResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	err := FormatResults(&buf, "search_query=all:electron&start=0&max_results=10", sampleResults(), OutputConfig{JSON: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, buf.String())
	}

	if count, ok := parsed["count"].(float64); !ok || int(count) != 2 {
		t.Errorf("expected count 2, got %v", parsed["count"])
	}
	if parsed["query"] != "search_query=all:electron&start=0&max_results=10" {
		t.Errorf("expected query to be echoed unescaped, got %v", parsed["query"])
	}

	results, ok := parsed["results"].([]interface{})
	if !ok || len(results) != 2 {
		t.Fatalf("expected 2 results, got %v", parsed["results"])
	}
	first := results[0].(map[string]interface{})
	if first["pdf"] != "http://arxiv.org/pdf/1234.5678v1" {
		t.Errorf("expected pdf link, got %v", first["pdf"])
	}
	if first["published"] != "2012-03-30T08:15:00Z" {
		t.Errorf("expected RFC 3339 published, got %v", first["published"])
	}
	if !strings.Contains(buf.String(), "Strings & Things") {
		t.Error("expected HTML characters to be left unescaped")
	}
}

func TestFormatResultsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatResults(&buf, "", nil, OutputConfig{JSON: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"results": []`) {
		t.Errorf("expected empty results array, got %s", buf.String())
	}
}

func TestFormatResultsPlain(t *testing.T) {
	var buf bytes.Buffer
	err := FormatResults(&buf, "search_query=all:electron&start=0&max_results=10", sampleResults(), OutputConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Found 2 results",
		"Query: search_query=all:electron",
		"1. Electron Transport in Layered Materials",
		"ID: http://arxiv.org/abs/1234.5678v1",
		"Authors: Ada Lovelace, Charles Babbage, Mary Somerville",
		"Published: 2012-03-30  Updated: 2012-04-03",
		"PDF: http://arxiv.org/pdf/hep-th/9901001v1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "We study electron") {
		t.Error("abstract should only be shown with Full")
	}
	if strings.Contains(out, "Published: 1999-01-01  Updated") {
		t.Error("updated date should be omitted when equal to published")
	}
}

func TestFormatResultsPlainFull(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatResults(&buf, "", sampleResults(), OutputConfig{Full: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "We study electron transport in layered materials.") {
		t.Errorf("expected collapsed abstract, got:\n%s", buf.String())
	}
}

func TestFormatResultsEmpty(t *testing.T) {
	for _, human := range []bool{false, true} {
		var buf bytes.Buffer
		if err := FormatResults(&buf, "", []arxiv.Result{}, OutputConfig{Human: human}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No results") {
			t.Errorf("expected no-results message (human=%v), got %q", human, buf.String())
		}
	}
}

func TestFormatResultsHuman(t *testing.T) {
	var buf bytes.Buffer
	err := FormatResults(&buf, "search_query=all:electron&start=0&max_results=10", sampleResults(), OutputConfig{Human: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Found 2 results", "1234.5678v1", "hep-th/9901001v1", "Ada Lovelace et al.", "E. Witten", "Analytical Engines Ltd", "http://arxiv.org/pdf/1234.5678v1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestFormatResultsHumanTruncatesAbstract(t *testing.T) {
	results := sampleResults()[:1]
	results[0].Summary = strings.Repeat("word ", 200)

	var buf bytes.Buffer
	if err := FormatResults(&buf, "", results, OutputConfig{Human: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "--full") {
		t.Error("expected truncation hint for long abstract")
	}

	buf.Reset()
	if err := FormatResults(&buf, "", results, OutputConfig{Human: true, Full: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "[use --full") {
		t.Error("did not expect truncation hint with Full")
	}
}

func TestFormatQuery(t *testing.T) {
	q := arxiv.NewQuery().Term("cat:cs.CR").Term(`"machine learning"`)

	var buf bytes.Buffer
	if err := FormatQuery(&buf, q, OutputConfig{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "search_query=cat:cs.CR+\"machine learning\"&start=0&max_results=10\n" {
		t.Errorf("unexpected plain query %q", got)
	}

	buf.Reset()
	if err := FormatQuery(&buf, q.Start(20).MaxResults(5), OutputConfig{JSON: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parsed struct {
		Query      string   `json:"query"`
		Terms      []string `json:"terms"`
		Start      int      `json:"start"`
		MaxResults int      `json:"max_results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Start != 20 || parsed.MaxResults != 5 || len(parsed.Terms) != 2 {
		t.Errorf("unexpected query JSON: %+v", parsed)
	}
	if !strings.Contains(parsed.Query, "&start=20&max_results=5") {
		t.Errorf("unexpected rendered query %q", parsed.Query)
	}
}

func TestFormatResultsSingular(t *testing.T) {
	for _, human := range []bool{false, true} {
		var buf bytes.Buffer
		if err := FormatResults(&buf, "", sampleResults()[:1], OutputConfig{Human: human}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Found 1 result\n") || strings.Contains(buf.String(), "1 results") {
			t.Errorf("expected singular count (human=%v), got:\n%s", human, buf.String())
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected untouched string, got %q", got)
	}
	if got := truncate("Ångström units", 5); got != "Ångs…" {
		t.Errorf("expected rune-safe truncation, got %q", got)
	}
}
