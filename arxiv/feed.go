package arxiv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrAPI is wrapped by a ParseError when the feed carries an arXiv API
// error entry instead of results.
var ErrAPI = errors.New("arxiv API error")

// XML structures for parsing Atom feeds returned by /api/query.

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        *string      `xml:"id"`
	Updated   *string      `xml:"updated"`
	Published *string      `xml:"published"`
	Title     *string      `xml:"title"`
	Summary   *string      `xml:"summary"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name        *string `xml:"name"`
	Affiliation string  `xml:"affiliation"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

// entry is a validated feed entry.
type entry struct {
	id        string
	updated   time.Time
	published time.Time
	title     string
	summary   string
	authors   []Author
	links     []atomLink
}

// ParseFeed parses an Atom feed body into results, deriving each PDF link
// from the entry identifier. Any malformed input yields a *ParseError and
// no results.
func ParseFeed(data []byte) ([]Result, error) {
	return parseFeed(data, false)
}

func parseFeed(data []byte, feedPDFLinks bool) ([]Result, error) {
	entries, err := parseEntries(data)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		results = append(results, convertEntry(e, feedPDFLinks))
	}
	return results, nil
}

// parseEntries decodes and validates every entry of the feed.
func parseEntries(data []byte) ([]entry, error) {
	var f atomFeed
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decoding feed XML: %w", err)}
	}

	entries := make([]entry, 0, len(f.Entries))
	for i, ae := range f.Entries {
		if ae.ID != nil && isAPIErrorID(*ae.ID) {
			msg := ""
			if ae.Summary != nil {
				msg = strings.TrimSpace(*ae.Summary)
			}
			return nil, &ParseError{Err: fmt.Errorf("%w: %s", ErrAPI, msg)}
		}
		e, err := validateEntry(ae)
		if err != nil {
			return nil, &ParseError{Err: fmt.Errorf("entry %d: %w", i, err)}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func validateEntry(ae atomEntry) (entry, error) {
	required := []struct {
		name string
		val  *string
	}{
		{"id", ae.ID},
		{"updated", ae.Updated},
		{"published", ae.Published},
		{"title", ae.Title},
		{"summary", ae.Summary},
	}
	for _, r := range required {
		if r.val == nil {
			return entry{}, fmt.Errorf("missing <%s>", r.name)
		}
	}

	updated, err := parseTimestamp(*ae.Updated)
	if err != nil {
		return entry{}, fmt.Errorf("parsing <updated>: %w", err)
	}
	published, err := parseTimestamp(*ae.Published)
	if err != nil {
		return entry{}, fmt.Errorf("parsing <published>: %w", err)
	}

	authors := make([]Author, 0, len(ae.Authors))
	for j, aa := range ae.Authors {
		if aa.Name == nil {
			return entry{}, fmt.Errorf("author %d: missing <name>", j)
		}
		authors = append(authors, Author{
			Name:        *aa.Name,
			Affiliation: aa.Affiliation,
		})
	}

	return entry{
		id:        *ae.ID,
		updated:   updated,
		published: published,
		title:     *ae.Title,
		summary:   *ae.Summary,
		authors:   authors,
		links:     ae.Links,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(s))
}

func isAPIErrorID(id string) bool {
	return strings.Contains(id, "arxiv.org/api/errors")
}

func convertEntry(e entry, feedPDFLinks bool) Result {
	pdf := ""
	if feedPDFLinks {
		pdf = pdfLink(e.links)
	}
	if pdf == "" {
		pdf = PDFURL(e.id)
	}

	return Result{
		ID:        e.id,
		Updated:   e.updated,
		Published: e.published,
		Title:     e.title,
		Summary:   e.summary,
		Authors:   e.authors,
		PDF:       pdf,
	}
}

// pdfLink returns the href of the entry's link titled "pdf", if any.
func pdfLink(links []atomLink) string {
	for _, l := range links {
		if l.Title == "pdf" && l.Href != "" {
			return l.Href
		}
	}
	return ""
}

// PDFURL derives a PDF link from an abstract-page identifier by replacing
// the first "abs" with "pdf". An identifier without "abs" is returned
// unchanged.
func PDFURL(id string) string {
	return strings.Replace(id, "abs", "pdf", 1)
}
