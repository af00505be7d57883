// Package llm provides a provider-agnostic relay client with model fallback.
// A request names a capability; the model registry resolves it to an ordered
// candidate chain and the client tries each candidate until one succeeds or
// the chain is exhausted.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mohiawrai2609/commant-center/model"
)

// maxResponseSize limits the response body read to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// DefaultTimeout is the caller-visible budget for one relay call.
const DefaultTimeout = 120 * time.Second

// DefaultRetryableStatuses is the default policy table of upstream HTTP
// statuses that justify advancing to the next fallback candidate. Vendors
// disagree on codes: OpenRouter signals a missing free model with 404, others
// overload with 429/503. Everything outside the table is an authoritative
// rejection and terminates the fallback immediately.
func DefaultRetryableStatuses() map[int]bool {
	return map[int]bool{
		http.StatusTooManyRequests:     true,
		http.StatusNotFound:            true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
	}
}

// Client is a provider-agnostic relay client with model fallback support.
type Client struct {
	registry   *model.Registry
	httpClient *http.Client
	logger     *slog.Logger
	observer   Observer
	retryable  map[int]bool

	// now is injected for deterministic date anchoring in tests.
	now func() time.Time
}

// Observer receives relay call outcomes for instrumentation.
type Observer interface {
	ObserveRelayCall(provider, modelName, outcome string, duration time.Duration)
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`    // "system", "user", or "assistant"
	Content string `json:"content"` // Message content
}

// Request defines a relay completion request.
type Request struct {
	// Capability specifies the semantic capability ("scanning", "writing", etc.).
	// The registry resolves this to candidate models.
	Capability string

	// Messages is the chat history to send to the model.
	Messages []Message

	// Search requests freshness-anchored behavior: the user prompt is
	// prefixed with today's date so the upstream model has a temporal anchor.
	// This is caller-side augmentation, not a vendor search switch.
	Search bool

	// Credential is an optional caller-supplied API key. Server-held
	// environment credentials take precedence.
	Credential string

	// Temperature controls randomness. nil uses endpoint default.
	Temperature *float64

	// MaxTokens limits response length. 0 uses the endpoint's configured cap.
	MaxTokens int
}

// TokenUsage represents token consumption details for a relay call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response contains the normalized completion result.
type Response struct {
	// RequestID uniquely identifies this relay call.
	RequestID string

	// Content is the generated text, normalized across vendor shapes.
	// Empty string when the vendor returned no content.
	Content string

	// Model is the actual model that produced the response.
	Model string

	// Usage contains token consumption metrics where the vendor reports them.
	Usage TokenUsage

	// FinishReason indicates why generation stopped.
	FinishReason string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the per-call budget.
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithObserver sets the instrumentation observer.
func WithObserver(o Observer) ClientOption {
	return func(client *Client) {
		client.observer = o
	}
}

// WithRetryableStatuses replaces the retryable-status policy table.
func WithRetryableStatuses(statuses map[int]bool) ClientOption {
	return func(client *Client) {
		client.retryable = statuses
	}
}

// WithClock sets the time source used for search date anchoring.
func WithClock(now func() time.Time) ClientOption {
	return func(client *Client) {
		client.now = now
	}
}

// NewClient creates a new relay client with the given model registry.
func NewClient(registry *model.Registry, opts ...ClientOption) *Client {
	c := &Client{
		registry: registry,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:    slog.Default(),
		retryable: DefaultRetryableStatuses(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Ask is the common relay shape: one system instruction, one user prompt.
func (c *Client) Ask(ctx context.Context, capability, system, prompt string, search bool, credential string) (string, error) {
	resp, err := c.Complete(ctx, Request{
		Capability: capability,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Search:     search,
		Credential: credential,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Complete sends a completion request, iterating the fallback chain.
//
// Each candidate gets exactly one attempt; on a retryable failure the client
// advances to the next candidate immediately, with no backoff delay. A fatal
// failure (authoritative vendor rejection, timeout) is returned at once
// without exhausting the remaining candidates.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.Capability == "" {
		return nil, fmt.Errorf("capability is required")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	requestID := uuid.New().String()

	capVal := model.ParseCapability(req.Capability)
	if capVal == "" {
		capVal = model.Capability(req.Capability)
	}
	chain := c.registry.GetAvailableFallbackChain(capVal)
	if len(chain) == 0 {
		return nil, fmt.Errorf("no models configured for capability %s", req.Capability)
	}

	messages := req.Messages
	if req.Search {
		messages = anchorToDate(messages, c.now())
	}

	var attempts []AttemptError
	var issued bool

	for _, modelName := range chain {
		endpoint := c.registry.GetEndpoint(modelName)
		if endpoint == nil {
			c.logger.Debug("No endpoint for model, skipping", "model", modelName)
			continue
		}

		provider := GetProvider(endpoint.Provider)
		if provider == nil {
			c.logger.Debug("Unknown provider, skipping", "model", modelName, "provider", endpoint.Provider)
			continue
		}

		credential := provider.ResolveCredential(req.Credential)
		if credential == "" {
			attempts = append(attempts, AttemptError{Model: modelName, Err: ErrNoCredential})
			continue
		}
		issued = true

		start := c.now()
		resp, err := c.doRequest(ctx, provider, endpoint, credential, messages, req)
		if err == nil {
			c.registry.MarkEndpointSuccess(modelName)
			c.observe(endpoint.Provider, modelName, "success", time.Since(start))

			resp.RequestID = requestID
			return resp, nil
		}

		attempts = append(attempts, AttemptError{Model: modelName, Err: err})

		if IsFatal(err) {
			// Authoritative rejection: no alternative candidate can fix it.
			c.observe(endpoint.Provider, modelName, "fatal", time.Since(start))
			c.logger.Warn("Terminal relay failure, not trying fallbacks",
				"model", modelName,
				"provider", endpoint.Provider,
				"error", err)
			return nil, err
		}

		c.registry.MarkEndpointFailure(modelName)
		c.observe(endpoint.Provider, modelName, "retryable", time.Since(start))
		c.logger.Warn("Candidate failed, trying fallback",
			"model", modelName,
			"provider", endpoint.Provider,
			"error", err)
	}

	if !issued {
		// Skips without attempts mean no candidate even had a credential
		// checked: every entry lacked an endpoint or provider.
		if len(attempts) == 0 {
			return nil, NewFatalError(fmt.Errorf("%w for capability %s", ErrNoCandidates, req.Capability))
		}
		return nil, NewFatalError(ErrNoCredential)
	}

	return nil, &ExhaustedError{Capability: req.Capability, Attempts: attempts}
}

func (c *Client) observe(provider, modelName, outcome string, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRelayCall(provider, modelName, outcome, duration)
	}
}

// anchorToDate prefixes the first user message with today's date so freshness
// requests have a temporal anchor.
func anchorToDate(messages []Message, now time.Time) []Message {
	anchored := make([]Message, len(messages))
	copy(anchored, messages)
	for i, msg := range anchored {
		if msg.Role == "user" {
			anchored[i].Content = fmt.Sprintf("[Today's date: %s. Use your latest training knowledge.]\n\n%s",
				now.Format("Mon Jan 2 2006"), msg.Content)
			break
		}
	}
	return anchored
}

// doRequest executes a single HTTP request against one candidate endpoint.
func (c *Client) doRequest(ctx context.Context, provider Provider, ep *model.EndpointConfig, credential string, messages []Message, req Request) (*Response, error) {
	url := provider.BuildURL(ep.URL)

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = ep.MaxTokens
	}

	body, err := provider.BuildRequestBody(ep.Model, messages, req.Temperature, maxTokens)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	c.logger.Debug("Sending relay request",
		"provider", provider.Name(),
		"model", ep.Model,
		"url", url,
		"messages", len(messages))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	provider.SetHeaders(httpReq, credential)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(&NetworkError{err: fmt.Errorf("read response body: %w", err)})
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, c.classifyHTTPError(provider.Name(), ep.Model, httpResp.StatusCode, respBody)
	}

	resp, err := provider.ParseResponse(respBody, ep.Model)
	if err != nil {
		// A vendor 200 with an unparseable body is a vendor fault, not ours;
		// the next candidate may behave.
		return nil, NewTransientError(fmt.Errorf("parse %s response: %w", provider.Name(), err))
	}
	return resp, nil
}

// classifyTransportError maps network-level failures. Timeouts are terminal:
// the caller's budget is spent. Other transport faults are transient and the
// next candidate is tried.
func (c *Client) classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewFatalError(&TimeoutError{Budget: c.httpClient.Timeout, err: err})
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewFatalError(&TimeoutError{Budget: c.httpClient.Timeout, err: err})
	}
	if errors.Is(err, context.Canceled) {
		return NewFatalError(err)
	}
	return NewTransientError(&NetworkError{err: err})
}

// classifyHTTPError applies the retryable-status policy table.
func (c *Client) classifyHTTPError(providerName, modelName string, statusCode int, body []byte) error {
	detail := string(body)
	if len(detail) > 200 {
		detail = detail[:200] + "..."
	}

	if c.retryable[statusCode] {
		return NewTransientError(fmt.Errorf("%s returned status %d for %s: %s",
			providerName, statusCode, modelName, detail))
	}

	return NewFatalError(&UpstreamError{
		Provider: providerName,
		Model:    modelName,
		Status:   statusCode,
		Detail:   detail,
	})
}
