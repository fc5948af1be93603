package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"routineshell/internal/logger"
	"routineshell/pkg/routinetypes"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures a GeminiExchange.
type GeminiConfig struct {
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// GeminiExchange calls GenerateContent on the Gemini API.
type GeminiExchange struct {
	cfg    GeminiConfig
	client *genai.Client
	log    *log.Logger
}

// NewGeminiExchange creates a GeminiExchange.
func NewGeminiExchange(cfg GeminiConfig) *GeminiExchange {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	return &GeminiExchange{cfg: cfg, log: logger.NewStyledLogger("Exchange")}
}

func (e *GeminiExchange) initializeClientIfNeeded(ctx context.Context) error {
	if e.client != nil {
		return nil
	}
	if e.cfg.APIKey == "" {
		return fmt.Errorf("google API key not configured")
	}

	clientConfig := &genai.ClientConfig{APIKey: e.cfg.APIKey}
	if e.cfg.HTTPClient != nil {
		clientConfig.HTTPClient = e.cfg.HTTPClient
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	e.client = client
	e.log.Debug("Gemini client initialized", "model", e.cfg.Model)
	return nil
}

// Send implements Exchanger.
func (e *GeminiExchange) Send(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error) {
	if err := e.initializeClientIfNeeded(ctx); err != nil {
		return "", &routinetypes.RemoteServiceError{Err: err}
	}

	system, contents := toGeminiContents(messages, products)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	result, err := e.client.Models.GenerateContent(ctx, e.cfg.Model, contents, config)
	if err != nil {
		return "", &routinetypes.RemoteServiceError{Err: err}
	}
	return geminiText(result), nil
}

// toGeminiContents maps assistant turns to the "model" role and returns the
// system text separately.
func toGeminiContents(messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, []*genai.Content) {
	system, rest := splitSystem(messages, products)

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		var role string
		switch m.Role {
		case routinetypes.RoleUser:
			role = "user"
		case routinetypes.RoleAssistant:
			role = "model"
		default:
			continue
		}
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: m.Content}},
			Role:  role,
		})
	}
	if len(contents) == 0 {
		contents = append(contents, &genai.Content{Parts: []*genai.Part{{Text: ""}}, Role: "user"})
	}
	return system, contents
}

// geminiText concatenates non-thought text parts of every candidate.
func geminiText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text == "" || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
