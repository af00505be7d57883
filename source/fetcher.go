package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
)

const (
	// maxContentSize limits downloads to 10MB to prevent memory exhaustion.
	maxContentSize = 10 * 1024 * 1024

	// maxRedirects limits redirect chains.
	maxRedirects = 5

	userAgent = "commant-center/1.0 (+article-ingest)"

	defaultFetchTimeout = 30 * time.Second
)

// Fetcher retrieves web pages and reduces them to readable article text.
// All requests are validated against SSRF, including at redirect and dial
// time so DNS rebinding cannot bypass the URL check.
type Fetcher struct {
	client    *http.Client
	converter *md.Converter
	allowHTTP bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout overrides the default request timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithAllowHTTP permits plain-HTTP and loopback targets. Only for local
// development and tests.
func WithAllowHTTP() FetcherOption {
	return func(f *Fetcher) {
		f.allowHTTP = true
	}
}

// NewFetcher creates a fetcher with secure defaults.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{}

	transport := &http.Transport{
		DialContext:           f.safeDialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}

	f.client = &http.Client{
		Timeout:   defaultFetchTimeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (max %d)", maxRedirects)
			}
			if err := validateURL(req.URL.String(), f.allowHTTP); err != nil {
				return fmt.Errorf("redirect blocked: %w", err)
			}
			return nil
		},
	}

	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	f.converter = conv

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// safeDialContext resolves the host and rejects private IPs before
// connecting. Validating the resolved address closes the rebinding window
// between URL validation and connection.
func (f *Fetcher) safeDialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("DNS resolution failed: %w", err)
	}

	if !f.allowHTTP {
		for _, ip := range ips {
			if IsPrivateIP(ip.IP) {
				return nil, fmt.Errorf("connection to private IP %s blocked", ip.IP)
			}
		}
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	return dialer.DialContext(ctx, network, net.JoinHostPort(host, port))
}

// Fetch downloads a page and returns the raw body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := validateURL(rawURL, f.allowHTTP); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxContentSize {
		return nil, fmt.Errorf("content exceeds %d bytes", maxContentSize)
	}

	return body, nil
}

// FetchText downloads a page, extracts the main article, and returns it as
// markdown prefixed with the title. Pages where no article can be extracted
// fall back to converting the full body.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	var title, contentHTML string
	article, err := readability.FromReader(strings.NewReader(string(body)), pageURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		title = article.Title
		contentHTML = article.Content
	} else {
		contentHTML = string(body)
	}

	text, err := f.converter.ConvertString(contentHTML)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", rawURL)
	}

	if title != "" && !strings.HasPrefix(text, "# ") {
		text = "# " + title + "\n\n" + text
	}
	return text, nil
}
