package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Release Notes</title>
  <meta property="og:site_name" content="Acme Blog">
</head>
<body>
  <article>
    <h1>Release Notes</h1>
    <p>We shipped the new scheduling engine this week. It handles recurring
    posts, one-shot posts, and cron expressions with timezone support.</p>
    <p>Upgrade is automatic for all pages.</p>
  </article>
</body>
</html>`

func TestPreview_ExtractsTitleAndExcerpt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	t.Cleanup(srv.Close)

	p, err := NewFetcher().Preview(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != http.StatusOK {
		t.Errorf("unexpected status %d", p.Status)
	}
	if p.Title != "Release Notes" {
		t.Errorf("unexpected title %q", p.Title)
	}
	if !strings.Contains(p.Excerpt, "scheduling engine") {
		t.Errorf("excerpt missing article text: %q", p.Excerpt)
	}
}

func TestPreview_ClipsExcerpt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	t.Cleanup(srv.Close)

	p, err := NewFetcher().Preview(context.Background(), srv.URL, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Excerpt) > 100 {
		t.Errorf("excerpt not clipped: %d chars", len(p.Excerpt))
	}
	if !p.Truncated {
		t.Error("truncation not reported")
	}
}

func TestPreview_FollowsRedirect(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, srv.URL+"/new", http.StatusMovedPermanently)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	t.Cleanup(srv.Close)

	p, err := NewFetcher().Preview(context.Background(), srv.URL+"/old", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(p.FinalURL, "/new") {
		t.Errorf("final url not recorded, got %q", p.FinalURL)
	}
}

func TestPreview_RejectsBadURLs(t *testing.T) {
	f := NewFetcher()
	for _, raw := range []string{
		"ftp://example.com/file",
		"file:///etc/passwd",
		"https://",
		"not a url at all",
	} {
		if _, err := f.Preview(context.Background(), raw, 0); err == nil {
			t.Errorf("%q: expected error", raw)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if _, err := validateURL("https://example.com/page"); err != nil {
		t.Errorf("valid url rejected: %v", err)
	}
	if _, err := validateURL("gopher://example.com"); err == nil {
		t.Error("non-http scheme accepted")
	}
}

func TestClip(t *testing.T) {
	if s, trunc := clip("short", 10); s != "short" || trunc {
		t.Errorf("unexpected clip %q %v", s, trunc)
	}
	if s, trunc := clip("0123456789abc", 10); s != "0123456789" || !trunc {
		t.Errorf("unexpected clip %q %v", s, trunc)
	}
}
