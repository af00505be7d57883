package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Automation Hits Back Office</title></head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>Automation Hits Back Office</h1>
<p>Acme Corp announced it will replace 2,000 invoice processing roles with
an internal agent platform over the next eighteen months. The company said
affected staff would be offered retraining into oversight positions.</p>
<p>Analysts called the move the largest single automation-driven
restructuring in the sector this year. Union representatives disputed the
retraining figures.</p>
<p>The rollout begins in the Ohio shared services center, which handles
accounts payable for the North American division.</p>
</article>
<footer>Copyright 2026</footer>
</body>
</html>`

func newArticleServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchText(t *testing.T) {
	srv := newArticleServer(t, articleHTML)
	f := NewFetcher(WithAllowHTTP())

	text, err := f.FetchText(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Acme Corp")
	assert.Contains(t, text, "2,000 invoice processing roles")
	assert.Contains(t, text, "Automation Hits Back Office")
	assert.NotContains(t, text, "<p>")
	assert.NotContains(t, text, "<article>")
}

func TestFetchTextNonArticlePageFallsBack(t *testing.T) {
	srv := newArticleServer(t, `<html><body><p>short note</p></body></html>`)
	f := NewFetcher(WithAllowHTTP())

	text, err := f.FetchText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "short note")
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(WithAllowHTTP())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchRejectsUnsafeURL(t *testing.T) {
	f := NewFetcher()

	unsafe := []string{
		"http://example.com/article",
		"https://localhost/admin",
		"https://192.168.1.1/router",
		"https://169.254.169.254/latest/meta-data",
	}
	for _, u := range unsafe {
		_, err := f.Fetch(context.Background(), u)
		assert.Error(t, err, "expected %s to be rejected", u)
	}
}

func TestFetchRedirectLimit(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	f := NewFetcher(WithAllowHTTP())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect")
}

func TestFetchSizeLimit(t *testing.T) {
	big := strings.Repeat("a", maxContentSize+10)
	srv := newArticleServer(t, big)

	f := NewFetcher(WithAllowHTTP())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
