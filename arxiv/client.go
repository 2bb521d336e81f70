package arxiv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the arXiv search endpoint.
	DefaultBaseURL = "https://export.arxiv.org/api/query"

	// DefaultUserAgent is a conventional browser string; the endpoint may
	// reject requests with an empty or library-default agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:66.0) Gecko/20100101 Firefox/66.0"

	// DefaultTimeout bounds a single request, body read included.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseBytes is the maximum response body size (50 MB).
	DefaultMaxResponseBytes int64 = 50 * 1024 * 1024
)

// Client issues search requests against the arXiv API. A Client holds no
// per-request state and is safe for concurrent use.
type Client struct {
	BaseURL      string
	UserAgent    string
	HTTPClient   *http.Client
	MaxBytes     int64
	Logger       *slog.Logger
	FeedPDFLinks bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the search endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = u }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.UserAgent = ua }
}

// WithHTTPClient sets a custom HTTP client. Connection reuse, timeouts and
// proxies are the HTTP client's concern.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithMaxResponseBytes sets the maximum allowed response body size.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) { c.MaxBytes = n }
}

// WithLogger sets the logger used for request-level debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// WithFeedPDFLinks makes results use the entry's own link titled "pdf"
// when the feed carries one, instead of deriving it from the identifier.
func WithFeedPDFLinks(enabled bool) Option {
	return func(c *Client) { c.FeedPDFLinks = enabled }
}

// NewClient creates a new arXiv client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxResponseBytes,
		Logger:    slog.New(slog.DiscardHandler),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	return c
}

// Search renders q, fetches the feed and returns its entries in order.
func (c *Client) Search(ctx context.Context, q Query) ([]Result, error) {
	return c.SearchRaw(ctx, q.Encode())
}

// SearchRaw fetches the feed for an already rendered query string.
// It fails with a *TransportError when the request cannot be completed and
// with a *ParseError when the body is not a well-formed feed.
func (c *Client) SearchRaw(ctx context.Context, query string) ([]Result, error) {
	body, err := c.doGet(ctx, c.BaseURL+"?"+query)
	if err != nil {
		return nil, err
	}

	results, err := parseFeed(body, c.FeedPDFLinks)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("arxiv search complete", "query", query, "results", len(results))
	return results, nil
}

// doGet performs one GET and returns the full body. Non-200 responses are
// reported without reading the body.
func (c *Client) doGet(ctx context.Context, fullURL string) ([]byte, error) {
	resp, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Guard against unbounded reads: read up to MaxBytes+1 to detect oversized responses.
	limit := c.MaxBytes
	if limit < math.MaxInt64 {
		limit++
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, &TransportError{URL: fullURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if int64(len(body)) > c.MaxBytes {
		return nil, &TransportError{URL: fullURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w of %d bytes", ErrResponseTooLarge, c.MaxBytes)}
	}
	return body, nil
}

// get sends the request and checks the status. On success the caller owns
// resp.Body.
func (c *Client) get(ctx context.Context, fullURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &TransportError{URL: fullURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	c.Logger.Debug("arxiv request", "url", fullURL)
	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: fullURL, Err: fmt.Errorf("executing request: %w", err)}
	}
	c.Logger.Debug("arxiv response", "url", fullURL, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &TransportError{URL: fullURL, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}
	return resp, nil
}
