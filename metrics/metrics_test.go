package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveRelayCall(t *testing.T) {
	m := New()
	m.ObserveRelayCall("openrouter", "llama-8b-free", "success", 1200*time.Millisecond)
	m.ObserveRelayCall("openrouter", "llama-8b-free", "retryable", 300*time.Millisecond)
	m.ObserveRelayCall("anthropic", "claude-sonnet", "success", 2*time.Second)

	out := scrape(t, m)
	assert.Contains(t, out, `relay_calls_total{model="llama-8b-free",outcome="success",provider="openrouter"} 1`)
	assert.Contains(t, out, `relay_calls_total{model="llama-8b-free",outcome="retryable",provider="openrouter"} 1`)
	assert.Contains(t, out, `relay_calls_total{model="claude-sonnet",outcome="success",provider="anthropic"} 1`)
	assert.Contains(t, out, "relay_call_duration_seconds_bucket")
}

func TestObserveHTTPRequest(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest("/api/ai", http.MethodPost, 200, 50*time.Millisecond)
	m.ObserveHTTPRequest("/api/ai", http.MethodPost, 429, 10*time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `http_requests_total{code="200",method="POST",route="/api/ai"} 1`)
	assert.Contains(t, out, `http_requests_total{code="429",method="POST",route="/api/ai"} 1`)
}

func TestCounters(t *testing.T) {
	m := New()
	m.SignalsStored(7)
	m.ArticleBuilt()
	m.ArticleBuilt()

	out := scrape(t, m)
	assert.Contains(t, out, "signals_stored_total 7")
	assert.Contains(t, out, "articles_built_total 2")
}

func TestIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()
	a.ArticleBuilt()

	if strings.Contains(scrape(t, b), "articles_built_total 1") {
		t.Error("registries should be isolated")
	}
}
