package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultDiscoveryURL is the Anthropic messages endpoint used for
// tool-assisted contact discovery.
const DefaultDiscoveryURL = "https://api.anthropic.com/v1/messages"

// DefaultMCPServerURL is the Clay MCP server exposed to the model.
const DefaultMCPServerURL = "https://api.clay.com/v3/mcp"

// discoveryModel and discoveryMaxTokens pin the discovery call to the paid
// tier; free models cannot use MCP tools.
const (
	discoveryModel     = "claude-sonnet-4-20250514"
	discoveryMaxTokens = 2000
)

// Contact is one discovered outreach target. The JSON field names follow the
// shape the MCP tool returns.
type Contact struct {
	Name    string `json:"name"`
	Title   string `json:"latest_experience_title"`
	Company string `json:"latest_experience_company"`
	URL     string `json:"url,omitempty"`
}

// Key identifies the contact within a discovery batch. Two people can share
// a name, so the company is part of the key.
func (c Contact) Key() string {
	return c.Name + "|" + c.Company
}

// DiscoveryResult holds the structured and free-text parts of a discovery
// response.
type DiscoveryResult struct {
	Contacts []Contact
	Texts    []string
}

// DiscoveryClient issues tool-assisted relay calls against a vendor endpoint
// with an attached MCP server. It is separate from Client because the request
// shape (mcp_servers) and response shape (mcp_tool_result blocks) fall
// outside the normalized completion contract.
type DiscoveryClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiURL     string
	mcpURL     string
}

// DiscoveryOption configures a DiscoveryClient.
type DiscoveryOption func(*DiscoveryClient)

// WithDiscoveryHTTPClient sets a custom HTTP client.
func WithDiscoveryHTTPClient(c *http.Client) DiscoveryOption {
	return func(d *DiscoveryClient) {
		d.httpClient = c
	}
}

// WithDiscoveryLogger sets the logger.
func WithDiscoveryLogger(logger *slog.Logger) DiscoveryOption {
	return func(d *DiscoveryClient) {
		d.logger = logger
	}
}

// WithDiscoveryURL overrides the vendor endpoint, used by tests.
func WithDiscoveryURL(url string) DiscoveryOption {
	return func(d *DiscoveryClient) {
		d.apiURL = url
	}
}

// WithMCPServerURL overrides the MCP server exposed to the model.
func WithMCPServerURL(url string) DiscoveryOption {
	return func(d *DiscoveryClient) {
		d.mcpURL = url
	}
}

// NewDiscoveryClient creates a discovery client.
func NewDiscoveryClient(opts ...DiscoveryOption) *DiscoveryClient {
	d := &DiscoveryClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
		apiURL:     DefaultDiscoveryURL,
		mcpURL:     DefaultMCPServerURL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type mcpServer struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

type discoveryRequest struct {
	Model      string          `json:"model"`
	MaxTokens  int             `json:"max_tokens"`
	System     string          `json:"system,omitempty"`
	Messages   []anthropicWire `json:"messages"`
	MCPServers []mcpServer     `json:"mcp_servers"`
}

type anthropicWire struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// discoveryBlock is one content block of the vendor response. Text blocks
// carry prose; mcp_tool_result blocks carry nested tool output.
type discoveryBlock struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content,omitempty"`
}

// Discover runs one tool-assisted relay call and collects contacts from
// mcp_tool_result blocks plus all free-text blocks. Tool results that fail
// to parse are skipped silently; the free text is always retained so the
// caller can fall back to it.
func (d *DiscoveryClient) Discover(ctx context.Context, system, prompt, callerKey string) (*DiscoveryResult, error) {
	credential := callerKey
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		credential = key
	}
	if credential == "" {
		return nil, NewFatalError(ErrNoCredential)
	}

	body, err := json.Marshal(discoveryRequest{
		Model:     discoveryModel,
		MaxTokens: discoveryMaxTokens,
		System:    system,
		Messages:  []anthropicWire{{Role: "user", Content: prompt}},
		MCPServers: []mcpServer{
			{Type: "url", URL: d.mcpURL, Name: "clay"},
		},
	})
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build discovery request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create discovery request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", credential)
	req.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewFatalError(&TimeoutError{Budget: d.httpClient.Timeout, err: err})
		}
		return nil, NewTransientError(&NetworkError{err: err})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(&NetworkError{err: fmt.Errorf("read discovery response: %w", err)})
	}

	if resp.StatusCode != http.StatusOK {
		detail := string(respBody)
		if len(detail) > 200 {
			detail = detail[:200] + "..."
		}
		return nil, NewFatalError(&UpstreamError{
			Provider: "anthropic",
			Model:    discoveryModel,
			Status:   resp.StatusCode,
			Detail:   detail,
		})
	}

	var parsed struct {
		Content []discoveryBlock `json:"content"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, NewFatalError(fmt.Errorf("parse discovery response: %w", err))
	}

	result := &DiscoveryResult{}
	for _, block := range parsed.Content {
		switch block.Type {
		case "mcp_tool_result":
			for _, inner := range block.Content {
				var payload struct {
					Contacts []Contact `json:"contacts"`
				}
				if err := json.Unmarshal([]byte(inner.Text), &payload); err != nil {
					continue
				}
				if len(payload.Contacts) > 0 {
					result.Contacts = payload.Contacts
				}
			}
		case "text":
			if strings.TrimSpace(block.Text) != "" {
				result.Texts = append(result.Texts, block.Text)
			}
		}
	}

	d.logger.Debug("Discovery call complete",
		"contacts", len(result.Contacts),
		"texts", len(result.Texts),
		"duration", time.Since(start))

	return result, nil
}
