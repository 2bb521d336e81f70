package arxiv

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// DefaultAbsURL is the prefix of arXiv abstract pages.
const DefaultAbsURL = "http://arxiv.org/abs/"

// PDFURLForID returns the PDF link for a bare arXiv identifier
// ("2301.00001v2", "hep-th/9901001") or an abstract-page URL. Anything
// that already looks like a URL goes through PDFURL.
func PDFURLForID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "arXiv:")
	if strings.Contains(id, "://") {
		return PDFURL(id)
	}
	return PDFURL(DefaultAbsURL + id)
}

// DownloadPDF fetches pdfURL with the client's User-Agent and streams the
// body to w. It returns the number of bytes written.
func (c *Client) DownloadPDF(ctx context.Context, pdfURL string, w io.Writer) (int64, error) {
	resp, err := c.get(ctx, pdfURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &TransportError{URL: pdfURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("copying body: %w", err)}
	}
	c.Logger.Debug("arxiv pdf downloaded", "url", pdfURL, "bytes", n)
	return n, nil
}
