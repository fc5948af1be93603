package tui

import (
	"routineshell/internal/controller"
	"routineshell/internal/render"
	"routineshell/pkg/routinetypes"
)

// Screen is the controller's View for the TUI. It only records state; the
// model draws it on the next View call.
type Screen struct {
	grid       render.Grid
	chips      render.ChipList
	expanded   map[routinetypes.ProductID]bool
	transcript []render.Entry
	warning    string
	passes     int
}

// NewScreen creates an empty Screen.
func NewScreen() *Screen {
	return &Screen{expanded: make(map[routinetypes.ProductID]bool)}
}

// Apply implements controller.View.
func (s *Screen) Apply(instructions []controller.Instruction) {
	s.passes++
	s.warning = ""
	for _, in := range instructions {
		switch in.Op {
		case controller.OpRenderGrid:
			s.grid = in.Grid
		case controller.OpRenderChips:
			s.chips = in.Chips
		case controller.OpAppendTranscript:
			s.transcript = append(s.transcript, in.Entry)
		case controller.OpReplaceTranscript:
			s.replace(in.Target, in.Entry)
		case controller.OpToggleDetails:
			s.expanded[in.ProductID] = !s.expanded[in.ProductID]
		case controller.OpWarn:
			s.warning = in.Message
		}
	}
}

func (s *Screen) replace(target string, entry render.Entry) {
	for i, e := range s.transcript {
		if e.ID == target {
			s.transcript[i] = entry
			return
		}
	}
	s.transcript = append(s.transcript, entry)
}

func (s *Screen) isExpanded(id routinetypes.ProductID) bool {
	return s.expanded[id]
}
