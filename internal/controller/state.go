package controller

import (
	"routineshell/internal/catalog"
	"routineshell/internal/conversation"
	"routineshell/internal/render"
	"routineshell/internal/selection"
	"routineshell/pkg/routinetypes"
)

// State is everything one controller instance owns. Handlers mutate it;
// frontends may read it between events.
type State struct {
	Catalog   *catalog.Index
	Selection *selection.Store
	Log       *conversation.Log

	// Category is the active category; empty until the user picks one.
	Category string
	// CatalogErr is the load failure that left Catalog as the placeholder.
	CatalogErr error
}

// Grid renders the product grid for the active category.
func (s *State) Grid() render.Grid {
	return render.RenderGrid(s.Category, s.Catalog.FilterByCategory(s.Category), s.Selection)
}

// Chips renders the chip list for the current selection.
func (s *State) Chips() render.ChipList {
	return render.RenderChipList(s.Selection, s.Catalog)
}

// Products resolves the selection against the catalog for an outbound payload.
func (s *State) Products() []routinetypes.ResolvedProduct {
	return s.Selection.Resolve(s.Catalog)
}
