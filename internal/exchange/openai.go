package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"routineshell/internal/logger"
	"routineshell/pkg/routinetypes"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig configures an OpenAIExchange.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIExchange calls the Chat Completions API. The client is created lazily
// on the first Send.
type OpenAIExchange struct {
	cfg    OpenAIConfig
	client *openai.Client
	log    *log.Logger
}

// NewOpenAIExchange creates an OpenAIExchange.
func NewOpenAIExchange(cfg OpenAIConfig) *OpenAIExchange {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	return &OpenAIExchange{cfg: cfg, log: logger.NewStyledLogger("Exchange")}
}

func (e *OpenAIExchange) initializeClientIfNeeded() error {
	if e.client != nil {
		return nil
	}
	if e.cfg.APIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	options := []option.RequestOption{
		option.WithAPIKey(e.cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if e.cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(e.cfg.BaseURL))
	}
	if e.cfg.HTTPClient != nil {
		options = append(options, option.WithHTTPClient(e.cfg.HTTPClient))
	}

	client := openai.NewClient(options...)
	e.client = &client
	e.log.Debug("OpenAI client initialized", "model", e.cfg.Model)
	return nil
}

// Send implements Exchanger.
func (e *OpenAIExchange) Send(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error) {
	if err := e.initializeClientIfNeeded(); err != nil {
		return "", &routinetypes.RemoteServiceError{Err: err}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(e.cfg.Model),
		Messages: toOpenAIMessages(messages, products),
	}

	completion, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &routinetypes.RemoteServiceError{StatusCode: apiErr.StatusCode, Body: apiErr.Error(), Err: err}
		}
		return "", &routinetypes.RemoteServiceError{Err: err}
	}

	if len(completion.Choices) == 0 {
		return "", &routinetypes.RemoteServiceError{Err: fmt.Errorf("no response choices returned")}
	}
	return completion.Choices[0].Message.Content, nil
}

// toOpenAIMessages puts the combined system text (including the product
// context) first, followed by the user and assistant turns in order.
func toOpenAIMessages(messages []routinetypes.Message, products []routinetypes.ResolvedProduct) []openai.ChatCompletionMessageParamUnion {
	system, rest := splitSystem(messages, products)

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(rest)+1)
	out = append(out, openai.SystemMessage(system))
	for _, m := range rest {
		switch m.Role {
		case routinetypes.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case routinetypes.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		}
	}
	return out
}
