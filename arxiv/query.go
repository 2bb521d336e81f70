package arxiv

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultStart is the zero-based offset of the first result.
	DefaultStart = 0
	// DefaultMaxResults is the number of results requested when unset.
	DefaultMaxResults = 10
)

// Query is an immutable search configuration. Every builder method returns
// a new Query; the receiver is never modified, so a Query can be shared and
// extended from several goroutines.
//
//	q := arxiv.NewQuery().Term("cat:cs.CR").Term(`"machine learning"`).MaxResults(3)
//	fmt.Println(q) // search_query=cat:cs.CR+"machine learning"&start=0&max_results=3
type Query struct {
	terms      []string
	start      int
	maxResults int
}

// NewQuery returns a Query with no terms, start 0 and max results 10.
func NewQuery() Query {
	return Query{start: DefaultStart, maxResults: DefaultMaxResults}
}

// Term appends a search-term fragment. The fragment is inserted verbatim:
// field prefixes, boolean operators and URL escaping are the caller's job
// (see EscapeTerm).
func (q Query) Term(fragment string) Query {
	terms := make([]string, len(q.terms), len(q.terms)+1)
	copy(terms, q.terms)
	q.terms = append(terms, fragment)
	return q
}

// Start sets the zero-based offset of the first result. Not validated.
func (q Query) Start(n int) Query {
	q.start = n
	return q
}

// MaxResults sets the number of results to request. Not validated; the
// API enforces its own limits.
func (q Query) MaxResults(n int) Query {
	q.maxResults = n
	return q
}

// Terms returns a copy of the fragments in insertion order.
func (q Query) Terms() []string {
	out := make([]string, len(q.terms))
	copy(out, q.terms)
	return out
}

// StartIndex returns the configured start offset.
func (q Query) StartIndex() int { return q.start }

// Limit returns the configured maximum result count.
func (q Query) Limit() int { return q.maxResults }

// Encode renders the query string sent to the API:
//
//	search_query=<f1>+<f2>+...+<fN>&start=<S>&max_results=<M>
func (q Query) Encode() string {
	var b strings.Builder
	b.WriteString("search_query=")
	b.WriteString(strings.Join(q.terms, "+"))
	b.WriteString("&start=")
	b.WriteString(strconv.Itoa(q.start))
	b.WriteString("&max_results=")
	b.WriteString(strconv.Itoa(q.maxResults))
	return b.String()
}

func (q Query) String() string { return q.Encode() }

// EscapeTerm percent-encodes a fragment for use with Term. Spaces become
// "+", which the API reads as a space.
func EscapeTerm(s string) string {
	return url.QueryEscape(s)
}
