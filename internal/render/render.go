// Package render derives the product grid and chip list from the catalog and
// the current selection, and formats them (plus transcript entries) as
// styled terminal text.
//
// RenderGrid and RenderChipList are pure: they are recomputed on every call
// and hold no state, so a card's Selected flag always matches membership at
// the moment of rendering.
package render

import (
	"routineshell/pkg/routinetypes"
)

// Placeholder texts for empty views.
const (
	NoCategoryPlaceholder = "Choose a category to browse products."
	NoProductsPlaceholder = "No products found in this category."
	NoSelectionText       = "No products selected yet."
)

// Membership answers whether a product is currently selected.
type Membership interface {
	Contains(id any) bool
}

// OrderedSelection lists the selected ids in order.
type OrderedSelection interface {
	IDs() []routinetypes.ProductID
}

// Lookup resolves product ids against the catalog.
type Lookup interface {
	FindByID(id any) (routinetypes.ProductRecord, bool)
}

// Card is one product in the grid.
type Card struct {
	ID          routinetypes.ProductID
	Name        string
	Brand       string
	Category    string
	Description string
	Image       string
	Selected    bool
}

// Grid is the rendered product grid for one category.
type Grid struct {
	Category    string
	Cards       []Card
	Empty       bool
	Placeholder string
}

// Chip is one selected product in the chip list.
type Chip struct {
	ID    routinetypes.ProductID
	Name  string
	Brand string
}

// ChipList is the rendered list of selected products.
type ChipList struct {
	Chips       []Chip
	Empty       bool
	Placeholder string
}

// RenderGrid builds one card per product, marking the selected ones.
// products is expected to be the catalog filtered by category.
func RenderGrid(category string, products []routinetypes.ProductRecord, selection Membership) Grid {
	g := Grid{Category: category}

	if len(products) == 0 {
		g.Empty = true
		if category == "" {
			g.Placeholder = NoCategoryPlaceholder
		} else {
			g.Placeholder = NoProductsPlaceholder
		}
		return g
	}

	g.Cards = make([]Card, 0, len(products))
	for _, p := range products {
		g.Cards = append(g.Cards, Card{
			ID:          p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			Category:    p.Category,
			Description: p.Description,
			Image:       p.Image,
			Selected:    selection.Contains(p.ID),
		})
	}
	return g
}

// RenderChipList builds one chip per selected id that resolves in the
// catalog, in selection order. Unresolvable ids are left out.
func RenderChipList(selection OrderedSelection, catalog Lookup) ChipList {
	var chips []Chip
	for _, id := range selection.IDs() {
		p, ok := catalog.FindByID(id)
		if !ok {
			continue
		}
		chips = append(chips, Chip{ID: p.ID, Name: p.Name, Brand: p.Brand})
	}

	if len(chips) == 0 {
		return ChipList{Empty: true, Placeholder: NoSelectionText}
	}
	return ChipList{Chips: chips}
}
