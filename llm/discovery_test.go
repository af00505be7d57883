package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiawrai2609/commant-center/llm"
)

func TestDiscoveryClient_Discover(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		servers, ok := req["mcp_servers"].([]any)
		require.True(t, ok)
		require.Len(t, servers, 1)

		toolPayload, _ := json.Marshal(map[string]any{
			"contacts": []map[string]string{
				{
					"name":                      "Jordan Li",
					"latest_experience_title":   "CHRO",
					"latest_experience_company": "Acme Corp",
					"url":                       "https://linkedin.com/in/jordanli",
				},
			},
		})

		resp := map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "Found one strong match."},
				{
					"type": "mcp_tool_result",
					"content": []map[string]string{
						{"type": "text", "text": string(toolPayload)},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := llm.NewDiscoveryClient(llm.WithDiscoveryURL(server.URL))

	result, err := client.Discover(context.Background(), "find contacts", "signal details", "")
	require.NoError(t, err)

	require.Len(t, result.Contacts, 1)
	assert.Equal(t, "Jordan Li", result.Contacts[0].Name)
	assert.Equal(t, "CHRO", result.Contacts[0].Title)
	assert.Equal(t, "Acme Corp", result.Contacts[0].Company)
	assert.Equal(t, "Jordan Li|Acme Corp", result.Contacts[0].Key())
	assert.Equal(t, []string{"Found one strong match."}, result.Texts)
}

func TestDiscoveryClient_Discover_NoStructuredContacts(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "I could not reach the directory."},
				{
					"type": "mcp_tool_result",
					"content": []map[string]string{
						{"type": "text", "text": "not json at all"},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := llm.NewDiscoveryClient(llm.WithDiscoveryURL(server.URL))

	result, err := client.Discover(context.Background(), "find contacts", "signal details", "")
	require.NoError(t, err)
	assert.Empty(t, result.Contacts)
	assert.Equal(t, []string{"I could not reach the directory."}, result.Texts)
}

func TestDiscoveryClient_Discover_NoCredential(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	client := llm.NewDiscoveryClient()
	_, err := client.Discover(context.Background(), "sys", "prompt", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrNoCredential)
}

func TestDiscoveryClient_Discover_UpstreamRejection(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("billing issue"))
	}))
	defer server.Close()

	client := llm.NewDiscoveryClient(llm.WithDiscoveryURL(server.URL))

	_, err := client.Discover(context.Background(), "sys", "prompt", "")
	require.Error(t, err)

	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusForbidden, upstream.Status)
}
