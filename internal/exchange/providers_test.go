package exchange

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routineshell/internal/config"
	"routineshell/internal/metrics"
	"routineshell/pkg/routinetypes"
)

var sampleProducts = []routinetypes.ResolvedProduct{
	{ID: "1", Name: "Cleanser", Brand: "A", Category: "cleanser", Description: "d1"},
	{ID: "3", Name: "Serum", Brand: "C", Category: "serum", Description: "d3"},
}

var sampleMessages = []routinetypes.Message{
	{Role: routinetypes.RoleSystem, Content: "Be concise."},
	{Role: routinetypes.RoleUser, Content: "Build my routine"},
	{Role: routinetypes.RoleAssistant, Content: "Sure"},
	{Role: routinetypes.RoleUser, Content: "Thanks"},
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem(sampleMessages, sampleProducts)

	assert.True(t, strings.HasPrefix(system, "Be concise.\n\n"))
	assert.Contains(t, system, `"name": "Serum"`)
	assert.Len(t, rest, 3)
	for _, m := range rest {
		assert.NotEqual(t, routinetypes.RoleSystem, m.Role)
	}

	system, _ = splitSystem(nil, nil)
	assert.Equal(t, "The user has not selected any products.", system)
}

func TestOpenAIExchange(t *testing.T) {
	var request map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &request))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":0,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Morning: cleanser, serum."}}]}`))
	}))
	defer server.Close()

	ex := NewOpenAIExchange(OpenAIConfig{APIKey: "test-key", Model: "gpt-test", BaseURL: server.URL + "/"})
	reply, err := ex.Send(context.Background(), sampleMessages, sampleProducts)
	require.NoError(t, err)
	assert.Equal(t, "Morning: cleanser, serum.", reply)

	assert.Equal(t, "gpt-test", request["model"])
	messages, ok := request["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 4)
	first := messages[0].(map[string]interface{})
	assert.Equal(t, "system", first["role"])
}

func TestOpenAIExchange_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer server.Close()

	ex := NewOpenAIExchange(OpenAIConfig{APIKey: "k", BaseURL: server.URL + "/"})
	_, err := ex.Send(context.Background(), sampleMessages, nil)

	var remote *routinetypes.RemoteServiceError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusTooManyRequests, remote.StatusCode)

	_, err = NewOpenAIExchange(OpenAIConfig{}).Send(context.Background(), nil, nil)
	require.ErrorAs(t, err, &remote)
	assert.Zero(t, remote.StatusCode)
}

func TestAnthropicExchange(t *testing.T) {
	var request map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/messages"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &request))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"Evening: cleanser."}],
			"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer server.Close()

	ex := NewAnthropicExchange(AnthropicConfig{APIKey: "k", Model: "claude-test", BaseURL: server.URL})
	reply, err := ex.Send(context.Background(), sampleMessages, sampleProducts)
	require.NoError(t, err)
	assert.Equal(t, "Evening: cleanser.", reply)

	messages, ok := request["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 3)
	assert.NotNil(t, request["system"])
}

func TestAnthropicExchange_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer server.Close()

	_, err := NewAnthropicExchange(AnthropicConfig{APIKey: "k", BaseURL: server.URL}).Send(context.Background(), sampleMessages, nil)

	var remote *routinetypes.RemoteServiceError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusInternalServerError, remote.StatusCode)
}

func TestToAnthropicMessages_EmptyConversation(t *testing.T) {
	_, turns := toAnthropicMessages(nil, nil)
	assert.Len(t, turns, 1)
}

func TestToGeminiContents(t *testing.T) {
	system, contents := toGeminiContents(sampleMessages, sampleProducts)

	assert.Contains(t, system, "Be concise.")
	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "Thanks", contents[2].Parts[0].Text)

	_, contents = toGeminiContents(nil, nil)
	assert.Len(t, contents, 1)
}

func TestGeminiExchange_MissingKey(t *testing.T) {
	_, err := NewGeminiExchange(GeminiConfig{}).Send(context.Background(), nil, nil)
	var remote *routinetypes.RemoteServiceError
	assert.ErrorAs(t, err, &remote)
}

func TestNew(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"reply":"hi"}`))
	}))
	defer server.Close()

	ex, err := New(&config.Config{Provider: config.ProviderHTTP, Endpoint: server.URL, DebugHTTP: true}, metrics.New())
	require.NoError(t, err)
	reply, err := ex.Send(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", reply)

	for _, provider := range []string{config.ProviderOpenAI, config.ProviderAnthropic, config.ProviderGemini} {
		ex, err := New(&config.Config{Provider: provider, Endpoint: config.DefaultEndpoint}, nil)
		require.NoError(t, err, provider)
		assert.NotNil(t, ex)
	}

	_, err = New(&config.Config{Provider: "fax"}, nil)
	assert.Error(t, err)
}

func TestProviderBaseURL(t *testing.T) {
	assert.Empty(t, providerBaseURL(&config.Config{Endpoint: config.DefaultEndpoint}))
	assert.Equal(t, "https://proxy.local/v1/", providerBaseURL(&config.Config{Endpoint: "https://proxy.local/v1/"}))
}
