// Package shell provides the interactive REPL for RoutineShell. Commands are
// translated into controller events; the controller's instructions are
// printed by a ConsoleView.
package shell

import (
	"context"
	"strings"

	"routineshell/internal/controller"
	"routineshell/internal/output"
	"routineshell/internal/render"
	"routineshell/pkg/routinetypes"
)

// Session binds REPL commands to one controller.
type Session struct {
	ctx       context.Context
	ctrl      *controller.Controller
	view      *ConsoleView
	printer   *output.Printer
	formatter *render.Formatter
}

// NewSession creates a Session. The controller must have been created with
// view as its View.
func NewSession(ctx context.Context, ctrl *controller.Controller, view *ConsoleView, printer *output.Printer, formatter *render.Formatter) *Session {
	return &Session{ctx: ctx, ctrl: ctrl, view: view, printer: printer, formatter: formatter}
}

// Start dispatches the startup event.
func (s *Session) Start() {
	s.ctrl.Run(s.ctx, controller.Init())
	s.Categories(nil)
}

// Categories prints the category selector.
func (s *Session) Categories(_ []string) {
	st := s.ctrl.State()
	s.printer.Block(s.formatter.Categories(st.Catalog.Categories(), st.Category))
}

// Category switches the active category. Without arguments it lists the
// categories instead.
func (s *Session) Category(args []string) {
	if len(args) == 0 {
		s.Categories(nil)
		return
	}
	s.ctrl.Run(s.ctx, controller.CategoryChanged(strings.TrimSpace(strings.Join(args, " "))))
}

// Toggle clicks each card named by id.
func (s *Session) Toggle(args []string) {
	if len(args) == 0 {
		s.printer.Warning("Usage: toggle <id> [id...]")
		return
	}
	for _, id := range splitIDs(args) {
		s.ctrl.Run(s.ctx, controller.CardClicked(id))
	}
}

// Details expands or collapses a card.
func (s *Session) Details(args []string) {
	if len(args) != 1 {
		s.printer.Warning("Usage: details <id>")
		return
	}
	s.ctrl.Run(s.ctx, controller.DetailsToggled(args[0]))
}

// Remove removes chips from the selection.
func (s *Session) Remove(args []string) {
	if len(args) == 0 {
		s.printer.Warning("Usage: remove <id> [id...]")
		return
	}
	for _, id := range splitIDs(args) {
		s.ctrl.Run(s.ctx, controller.ChipRemoved(id))
	}
}

// Clear empties the selection.
func (s *Session) Clear(_ []string) {
	s.ctrl.Run(s.ctx, controller.ClearAll())
}

// Selected prints the chip list.
func (s *Session) Selected(_ []string) {
	s.printer.Block(s.formatter.Chips(s.ctrl.State().Chips()))
}

// Products reprints the grid for the active category.
func (s *Session) Products(_ []string) {
	s.printer.Block(s.formatter.Grid(s.ctrl.State().Grid(), s.view.isExpanded))
}

// Chat sends free text to the assistant.
func (s *Session) Chat(args []string) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return
	}
	s.ctrl.Run(s.ctx, controller.ChatSubmitted(text))
}

// Generate asks the assistant for a routine built from the selection.
func (s *Session) Generate(_ []string) {
	s.ctrl.Run(s.ctx, controller.GenerateRoutine())
}

// CategoryNames returns the catalog's categories for completion.
func (s *Session) CategoryNames() []string {
	return s.ctrl.State().Catalog.Categories()
}

// ProductIDs returns every catalog id for completion.
func (s *Session) ProductIDs() []string {
	all := s.ctrl.State().Catalog.All()
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID.String())
	}
	return ids
}

// SelectedIDs returns the selected ids for completion.
func (s *Session) SelectedIDs() []string {
	sel := s.ctrl.State().Selection.IDs()
	ids := make([]string, 0, len(sel))
	for _, id := range sel {
		ids = append(ids, id.String())
	}
	return ids
}

// splitIDs accepts "1 3", "1,3" and "#1".
func splitIDs(args []string) []routinetypes.ProductID {
	var ids []routinetypes.ProductID
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimPrefix(strings.TrimSpace(part), "#")
			if part != "" {
				ids = append(ids, routinetypes.NormalizeID(part))
			}
		}
	}
	return ids
}
