package extract

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rotisserie/eris"
)

// maxBodyBytes caps how much HTML the local fetcher reads per page.
const maxBodyBytes = 2 << 20

// LocalFetcher fetches HTML via net/http and reduces it to article text with
// readability. Free, no API calls; used as a fallback when the reader
// service fails for generic articles.
type LocalFetcher struct {
	client    *http.Client
	userAgent string
}

// NewLocalFetcher creates a LocalFetcher with sensible defaults.
func NewLocalFetcher(userAgent string) *LocalFetcher {
	return &LocalFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch downloads a page and returns its title and readable text.
func (l *LocalFetcher) Fetch(ctx context.Context, targetURL string) (title, text string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", "", eris.Wrap(err, "local: create request")
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", "", eris.Wrap(err, "local: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", "", eris.Errorf("local: status %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", "", eris.Wrap(err, "local: read body")
	}
	if len(body) < 100 {
		return "", "", eris.New("local: empty page")
	}

	parsedURL, err := nurl.Parse(targetURL)
	if err != nil {
		return "", "", eris.Wrap(err, "local: parse url")
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return "", "", eris.Wrap(err, "local: readability parse")
	}

	title = article.Title
	if t := htmlTitle(body); t != "" {
		title = t
	}

	text = strings.TrimSpace(article.TextContent)
	if len(text) < 100 {
		return "", "", eris.Errorf("local: insufficient readable text (%d chars)", len(text))
	}

	return title, text, nil
}

// htmlTitle prefers og:title over the document title; social card titles
// tend to be cleaner than <title> tags padded with site names.
func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
