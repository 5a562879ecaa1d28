// Package preview fetches a web page and extracts the pieces useful when
// drafting post copy: title, site name, and a readable excerpt.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const (
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36"
	maxRedirects = 5
	maxBodyBytes = 4 << 20
)

// Preview is the extracted summary of one page.
type Preview struct {
	URL       string `json:"url"`
	FinalURL  string `json:"final_url"`
	Status    int    `json:"status"`
	Title     string `json:"title"`
	SiteName  string `json:"site_name,omitempty"`
	Excerpt   string `json:"excerpt"`
	Truncated bool   `json:"truncated"`
}

// Fetcher retrieves pages over HTTP and runs readability extraction.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher with a bounded redirect chain and timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Preview fetches rawURL and extracts a summary. maxChars bounds the excerpt;
// values <= 0 fall back to 500.
func (f *Fetcher) Preview(ctx context.Context, rawURL string, maxChars int) (*Preview, error) {
	if maxChars <= 0 {
		maxChars = 500
	}
	parsed, err := validateURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("preview: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("preview: read %s: %w", rawURL, err)
	}

	p := &Preview{
		URL:      rawURL,
		FinalURL: resp.Request.URL.String(),
		Status:   resp.StatusCode,
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		p.Excerpt, p.Truncated = clip(strings.TrimSpace(string(body)), maxChars)
		return p, nil
	}

	p.Title = article.Title
	p.SiteName = article.SiteName
	excerpt := strings.TrimSpace(article.Excerpt)
	if excerpt == "" {
		excerpt = strings.TrimSpace(article.TextContent)
	}
	p.Excerpt, p.Truncated = clip(excerpt, maxChars)
	return p, nil
}

// validateURL checks that rawURL is http(s) with a valid domain.
func validateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("only http/https allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing domain in URL")
	}
	return u, nil
}

func clip(s string, maxChars int) (string, bool) {
	if len(s) <= maxChars {
		return s, false
	}
	return s[:maxChars], true
}
