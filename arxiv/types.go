// Package arxiv provides a client for the arXiv search API.
//
// A search is built with NewQuery, sent with Client.Search, and returned as
// a slice of Result in feed order:
//
//	c := arxiv.NewClient()
//	results, err := c.Search(ctx, arxiv.NewQuery().Term("all:electron").MaxResults(5))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range results {
//		fmt.Println(r.Title, r.PDF)
//	}
package arxiv

import (
	"strings"
	"time"
)

// Author is one author of a paper.
type Author struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
}

// Result is one paper returned by a search.
type Result struct {
	ID        string    `json:"id"`
	Updated   time.Time `json:"updated"`
	Published time.Time `json:"published"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Authors   []Author  `json:"authors"`
	PDF       string    `json:"pdf,omitempty"`
}

// AuthorNames returns the author names in feed order.
func (r Result) AuthorNames() []string {
	names := make([]string, len(r.Authors))
	for i, a := range r.Authors {
		names[i] = a.Name
	}
	return names
}

// ShortID returns the arXiv identifier without the abstract-page prefix,
// e.g. "1234.5678v1" for "http://arxiv.org/abs/1234.5678v1".
func (r Result) ShortID() string {
	if i := strings.Index(r.ID, "/abs/"); i >= 0 {
		return r.ID[i+len("/abs/"):]
	}
	return r.ID
}
