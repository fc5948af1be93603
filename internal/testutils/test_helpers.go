package testutils

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"routineshell/internal/catalog"
	"routineshell/pkg/routinetypes"
)

// SampleProducts returns a small fixed catalog: two cleansers, a serum and a
// sunscreen, with ids "1" through "4".
func SampleProducts() []routinetypes.ProductRecord {
	return []routinetypes.ProductRecord{
		{ID: "1", Name: "Gentle Foam Cleanser", Brand: "Aqua Lab", Category: "cleanser", Description: "Low pH daily foam.", Image: "foam.png"},
		{ID: "2", Name: "Oil Balm", Brand: "Melt", Category: "cleanser", Description: "First cleanse for sunscreen.", Image: "balm.png"},
		{ID: "3", Name: "Niacinamide Serum", Brand: "Base", Category: "serum", Description: "10% niacinamide.", Image: "serum.png"},
		{ID: "4", Name: "Daily Fluid SPF50", Brand: "Sol", Category: "sunscreen", Description: "Light fluid sunscreen.", Image: "spf.png"},
	}
}

// SampleCatalog returns an Index over SampleProducts.
func SampleCatalog() *catalog.Index {
	return catalog.NewIndex(SampleProducts())
}

// EmbeddedCatalog loads the bundled sample catalog.
func EmbeddedCatalog(t *testing.T) *catalog.Index {
	t.Helper()
	idx, err := catalog.Load(context.Background(), catalog.NewEmbeddedSource())
	require.NoError(t, err)
	return idx
}

// CreateTempFile writes content to filename inside a fresh temp dir and
// returns the full path.
func CreateTempFile(t *testing.T, filename, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// CreateTempDir creates a temp dir populated with files (relative path -> content).
func CreateTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// ExchangeCall records one Send invocation.
type ExchangeCall struct {
	Messages []routinetypes.Message
	Products []routinetypes.ResolvedProduct
}

// FakeExchanger is a scripted exchanger that records every call.
type FakeExchanger struct {
	mu    sync.Mutex
	calls []ExchangeCall

	// Reply is returned when Err is nil.
	Reply string
	// Err, when set, is returned instead of Reply.
	Err error
	// Block, when set, is waited on before replying.
	Block chan struct{}
}

// Send implements the exchange interface.
func (f *FakeExchanger) Send(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ExchangeCall{
		Messages: append([]routinetypes.Message(nil), messages...),
		Products: append([]routinetypes.ResolvedProduct(nil), products...),
	})
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

// Calls returns a copy of the recorded calls.
func (f *FakeExchanger) Calls() []ExchangeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExchangeCall(nil), f.calls...)
}

// LastCall returns the most recent call. It fails the test when there is none.
func (f *FakeExchanger) LastCall(t *testing.T) ExchangeCall {
	t.Helper()
	calls := f.Calls()
	require.NotEmpty(t, calls, "exchanger was never called")
	return calls[len(calls)-1]
}
