// Package exchange sends the conversation and the resolved selection to a
// remote assistant and returns its reply text.
//
// HTTPExchange speaks the plain JSON contract ({messages, products} in,
// loosely shaped reply out). The OpenAI, Anthropic and Gemini exchanges call
// those providers directly and pass the products as a system context message.
// Every implementation reports failures as *routinetypes.RemoteServiceError
// and makes exactly one attempt.
package exchange

import (
	"context"
	"fmt"
	"net/http"

	"routineshell/internal/config"
	"routineshell/internal/logger"
	"routineshell/internal/metrics"
	"routineshell/pkg/routinetypes"
)

// Exchanger performs one request/response round trip with the assistant.
type Exchanger interface {
	Send(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error)
}

// ExchangerFunc adapts a function to Exchanger.
type ExchangerFunc func(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error)

// Send calls f.
func (f ExchangerFunc) Send(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error) {
	return f(ctx, messages, products)
}

// New builds the Exchanger selected by cfg.Provider, instrumented with m.
// When cfg.DebugHTTP is set, request and response bodies are logged at debug level.
func New(cfg *config.Config, m *metrics.Metrics) (Exchanger, error) {
	httpClient := &http.Client{}
	if cfg.DebugHTTP {
		httpClient.Transport = NewDebugTransport(nil, logger.NewStyledLogger("HTTP"))
	}

	var ex Exchanger
	switch cfg.Provider {
	case config.ProviderHTTP, "":
		ex = NewHTTPExchange(cfg.Endpoint, httpClient)
	case config.ProviderOpenAI:
		ex = NewOpenAIExchange(OpenAIConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: providerBaseURL(cfg), HTTPClient: httpClient})
	case config.ProviderAnthropic:
		ex = NewAnthropicExchange(AnthropicConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: providerBaseURL(cfg), HTTPClient: httpClient})
	case config.ProviderGemini:
		ex = NewGeminiExchange(GeminiConfig{APIKey: cfg.APIKey, Model: cfg.Model, HTTPClient: httpClient})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	return Instrument(ex, providerLabel(cfg.Provider), m), nil
}

// providerBaseURL lets a direct provider be pointed at a compatible proxy by
// setting endpoint. The default endpoint only applies to the http provider.
func providerBaseURL(cfg *config.Config) string {
	if cfg.Endpoint == "" || cfg.Endpoint == config.DefaultEndpoint {
		return ""
	}
	return cfg.Endpoint
}

func providerLabel(provider string) string {
	if provider == "" {
		return config.ProviderHTTP
	}
	return provider
}
