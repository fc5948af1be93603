package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"routineshell/internal/logger"
	"routineshell/pkg/routinetypes"
)

// HTTPExchange posts {messages, products} as JSON to a single endpoint.
// No timeout is applied beyond the caller's context.
type HTTPExchange struct {
	endpoint   string
	httpClient *http.Client
	log        *log.Logger
}

// NewHTTPExchange creates an HTTPExchange. A nil client uses a zero http.Client.
func NewHTTPExchange(endpoint string, httpClient *http.Client) *HTTPExchange {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPExchange{
		endpoint:   endpoint,
		httpClient: httpClient,
		log:        logger.NewStyledLogger("Exchange"),
	}
}

// Send implements Exchanger.
func (e *HTTPExchange) Send(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error) {
	payload := routinetypes.OutboundPayload{Messages: messages, Products: products}
	if payload.Messages == nil {
		payload.Messages = []routinetypes.Message{}
	}
	if payload.Products == nil {
		payload.Products = []routinetypes.ResolvedProduct{}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", &routinetypes.RemoteServiceError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	e.log.Debug("Sending exchange", "endpoint", e.endpoint, "messages", len(messages), "products", len(products))
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", &routinetypes.RemoteServiceError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &routinetypes.RemoteServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &routinetypes.RemoteServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	reply, decoder := ExtractReply(body)
	e.log.Debug("Exchange reply decoded", "status", resp.StatusCode, "decoder", decoder)
	return reply, nil
}
