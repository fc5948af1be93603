package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPSource fetches the catalog with a single GET. Any 2xx status is success.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource. A nil client uses http.DefaultClient.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

// Name returns the URL.
func (s *HTTPSource) Name() string {
	return s.url
}

// Format is YAML when the URL path ends in .yaml or .yml.
func (s *HTTPSource) Format() Format {
	path := s.url
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return FormatForPath(path)
}

// Fetch performs the GET request.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
