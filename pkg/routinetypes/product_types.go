package routinetypes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProductID is a catalog identifier compared as text regardless of how the
// source document encoded it. Catalog feeds are inconsistent about emitting
// 3 or "3"; both decode to the same ProductID.
type ProductID string

// NormalizeID converts an arbitrary identifier value to its canonical text form.
func NormalizeID(v any) ProductID {
	switch id := v.(type) {
	case ProductID:
		return ProductID(strings.TrimSpace(string(id)))
	case string:
		return ProductID(strings.TrimSpace(id))
	case int:
		return ProductID(strconv.Itoa(id))
	case int64:
		return ProductID(strconv.FormatInt(id, 10))
	case float64:
		return ProductID(strconv.FormatFloat(id, 'f', -1, 64))
	case json.Number:
		return ProductID(id.String())
	case fmt.Stringer:
		return ProductID(strings.TrimSpace(id.String()))
	case nil:
		return ""
	default:
		return ProductID(strings.TrimSpace(fmt.Sprint(id)))
	}
}

// String returns the identifier text.
func (id ProductID) String() string {
	return string(id)
}

// UnmarshalJSON accepts JSON strings and JSON numbers.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("product id cannot be null")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NormalizeID(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*id = NormalizeID(n)
	return nil
}

// UnmarshalYAML accepts YAML scalars of any kind.
func (id *ProductID) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch raw.(type) {
	case map[string]interface{}, []interface{}, nil:
		return fmt.Errorf("product id must be a scalar")
	}
	*id = NormalizeID(raw)
	return nil
}

// ProductRecord is one externally supplied catalog entry.
type ProductRecord struct {
	ID          ProductID `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Brand       string    `json:"brand" yaml:"brand"`
	Category    string    `json:"category" yaml:"category"`
	Description string    `json:"description" yaml:"description"`
	Image       string    `json:"image" yaml:"image"`
}

// Resolve projects the record onto the fields sent to the assistant.
func (p ProductRecord) Resolve() ResolvedProduct {
	return ResolvedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
	}
}

// ResolvedProduct is the per-product context sent with an outbound payload.
// It deliberately has no image field.
type ResolvedProduct struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

// CatalogDocument is the top-level shape of a catalog source.
// Products is a pointer so a document without the field can be told apart
// from one with an empty list.
type CatalogDocument struct {
	// Requires is an optional semver constraint on the reading application.
	Requires string           `json:"requires,omitempty" yaml:"requires,omitempty"`
	Products *[]ProductRecord `json:"products" yaml:"products"`
}
