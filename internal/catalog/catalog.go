// Package catalog loads the product collection once and answers category and
// identifier lookups against it.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"routineshell/internal/logger"
	"routineshell/internal/version"
	"routineshell/pkg/routinetypes"
)

// Index is an immutable, loaded catalog. It is safe for concurrent reads.
type Index struct {
	products   []routinetypes.ProductRecord
	byID       map[routinetypes.ProductID]int
	categories []string
}

// NewIndex builds an Index from records in source order. Records without an
// id are skipped; on duplicate ids the first record wins.
func NewIndex(products []routinetypes.ProductRecord) *Index {
	log := logger.NewStyledLogger("Catalog")

	idx := &Index{
		products: make([]routinetypes.ProductRecord, 0, len(products)),
		byID:     make(map[routinetypes.ProductID]int, len(products)),
	}
	seenCategory := make(map[string]bool)

	for _, p := range products {
		p.ID = routinetypes.NormalizeID(p.ID)
		if p.ID == "" {
			log.Warn("Skipping product without id", "name", p.Name)
			continue
		}
		if _, dup := idx.byID[p.ID]; dup {
			log.Warn("Skipping duplicate product id", "product", p.ID)
			continue
		}
		idx.byID[p.ID] = len(idx.products)
		idx.products = append(idx.products, p)

		if p.Category != "" && !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			idx.categories = append(idx.categories, p.Category)
		}
	}
	return idx
}

// Empty returns the placeholder index used when the catalog cannot be loaded.
func Empty() *Index {
	return NewIndex(nil)
}

// Load fetches the source once and parses it. Any fetch or parse failure is
// returned as a *routinetypes.CatalogLoadError. There is no retry.
func Load(ctx context.Context, src Source) (*Index, error) {
	log := logger.NewStyledLogger("Catalog")

	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, &routinetypes.CatalogLoadError{Source: src.Name(), Err: err}
	}

	doc, err := Decode(data, src.Format())
	if err != nil {
		return nil, &routinetypes.CatalogLoadError{Source: src.Name(), Err: err}
	}

	idx := NewIndex(*doc.Products)
	log.Debug("Catalog loaded", "source", src.Name(), "products", idx.Len(), "categories", len(idx.categories))
	return idx, nil
}

// Decode parses a catalog document. A document without a top-level products
// field yields routinetypes.ErrCatalogMalformed.
func Decode(data []byte, format Format) (*routinetypes.CatalogDocument, error) {
	var doc routinetypes.CatalogDocument

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
		}
	}

	if doc.Products == nil {
		return nil, routinetypes.ErrCatalogMalformed
	}

	if doc.Requires != "" {
		ok, err := version.Satisfies(doc.Requires)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("catalog requires RoutineShell %s, running %s", doc.Requires, version.GetVersion())
		}
	}
	return &doc, nil
}

// FilterByCategory returns the products whose category equals category
// exactly, in catalog order. An empty category yields an empty result.
func (idx *Index) FilterByCategory(category string) []routinetypes.ProductRecord {
	if category == "" {
		return nil
	}
	var out []routinetypes.ProductRecord
	for _, p := range idx.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FindByID looks up a product, comparing identifiers as text.
func (idx *Index) FindByID(id any) (routinetypes.ProductRecord, bool) {
	i, ok := idx.byID[routinetypes.NormalizeID(id)]
	if !ok {
		return routinetypes.ProductRecord{}, false
	}
	return idx.products[i], true
}

// Categories returns the distinct categories in first-seen order.
func (idx *Index) Categories() []string {
	out := make([]string, len(idx.categories))
	copy(out, idx.categories)
	return out
}

// All returns every product in catalog order.
func (idx *Index) All() []routinetypes.ProductRecord {
	out := make([]routinetypes.ProductRecord, len(idx.products))
	copy(out, idx.products)
	return out
}

// Len returns the number of products.
func (idx *Index) Len() int {
	return len(idx.products)
}

// IsEmpty reports whether the index has no products.
func (idx *Index) IsEmpty() bool {
	return len(idx.products) == 0
}
