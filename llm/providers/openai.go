package providers

import (
	"net/http"
	"os"
	"strings"

	"github.com/mohiawrai2609/commant-center/llm"
)

// OpenAIProvider implements the OpenAI API. It shares the wire format with
// OpenRouter but uses a different default URL and credential source.
type OpenAIProvider struct {
	OpenRouterProvider // Embed for shared request/response format
}

func init() {
	llm.RegisterProvider(&OpenAIProvider{})
}

// Name returns the provider identifier.
func (o *OpenAIProvider) Name() string {
	return "openai"
}

// BuildURL constructs the OpenAI API endpoint.
func (o *OpenAIProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}

	return baseURL + "/chat/completions"
}

// ResolveCredential prefers the server-held key over the caller-supplied one.
func (o *OpenAIProvider) ResolveCredential(callerKey string) string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return callerKey
}

// SetHeaders adds OpenAI authentication headers.
func (o *OpenAIProvider) SetHeaders(req *http.Request, credential string) {
	req.Header.Set("Authorization", "Bearer "+credential)
}
