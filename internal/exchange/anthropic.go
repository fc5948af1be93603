package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"

	"routineshell/internal/logger"
	"routineshell/pkg/routinetypes"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-3-5-sonnet-20241022"

const anthropicMaxTokens = 2048

// AnthropicConfig configures an AnthropicExchange.
type AnthropicConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// AnthropicExchange calls the Messages API.
type AnthropicExchange struct {
	cfg    AnthropicConfig
	client *anthropic.Client
	log    *log.Logger
}

// NewAnthropicExchange creates an AnthropicExchange.
func NewAnthropicExchange(cfg AnthropicConfig) *AnthropicExchange {
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}
	return &AnthropicExchange{cfg: cfg, log: logger.NewStyledLogger("Exchange")}
}

func (e *AnthropicExchange) initializeClientIfNeeded() error {
	if e.client != nil {
		return nil
	}
	if e.cfg.APIKey == "" {
		return fmt.Errorf("anthropic API key not configured")
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

	client := anthropic.NewClient(options...)
	e.client = &client
	e.log.Debug("Anthropic client initialized", "model", e.cfg.Model)
	return nil
}

// Send implements Exchanger.
func (e *AnthropicExchange) Send(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error) {
	if err := e.initializeClientIfNeeded(); err != nil {
		return "", &routinetypes.RemoteServiceError{Err: err}
	}

	system, turns := toAnthropicMessages(messages, products)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.cfg.Model),
		MaxTokens: anthropicMaxTokens,
		Messages:  turns,
		System:    []anthropic.TextBlockParam{{Text: system}},
	}

	message, err := e.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &routinetypes.RemoteServiceError{StatusCode: apiErr.StatusCode, Body: apiErr.Error(), Err: err}
		}
		return "", &routinetypes.RemoteServiceError{Err: err}
	}

	var content strings.Builder
	for _, block := range message.Content {
		content.WriteString(block.Text)
	}
	return content.String(), nil
}

// toAnthropicMessages returns the system text and the user/assistant turns.
// The Messages API requires at least one user turn, so an empty conversation
// gets a placeholder.
func toAnthropicMessages(messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, []anthropic.MessageParam) {
	system, rest := splitSystem(messages, products)

	out := make([]anthropic.MessageParam, 0, len(rest))
	for _, m := range rest {
		switch m.Role {
		case routinetypes.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case routinetypes.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(out) == 0 {
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock("Hello.")))
	}
	return system, out
}
