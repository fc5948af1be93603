package shell

import (
	"routineshell/internal/controller"
	"routineshell/internal/output"
	"routineshell/internal/render"
	"routineshell/pkg/routinetypes"
)

// ConsoleView prints controller instructions as they arrive. A terminal
// cannot rewrite earlier output, so replaced transcript entries are printed
// again in their new form.
type ConsoleView struct {
	printer   *output.Printer
	formatter *render.Formatter

	grid       render.Grid
	chips      render.ChipList
	expanded   map[routinetypes.ProductID]bool
	transcript []render.Entry
}

// NewConsoleView creates a view printing through printer.
func NewConsoleView(printer *output.Printer, formatter *render.Formatter) *ConsoleView {
	return &ConsoleView{
		printer:   printer,
		formatter: formatter,
		expanded:  make(map[routinetypes.ProductID]bool),
	}
}

// Apply implements controller.View.
func (v *ConsoleView) Apply(instructions []controller.Instruction) {
	for _, in := range instructions {
		switch in.Op {
		case controller.OpRenderGrid:
			v.grid = in.Grid
			v.PrintGrid()
		case controller.OpRenderChips:
			v.chips = in.Chips
			v.PrintChips()
		case controller.OpAppendTranscript:
			v.transcript = append(v.transcript, in.Entry)
			v.printEntry(in.Entry)
		case controller.OpReplaceTranscript:
			v.replace(in.Target, in.Entry)
			v.printEntry(in.Entry)
		case controller.OpToggleDetails:
			v.expanded[in.ProductID] = !v.expanded[in.ProductID]
			v.PrintGrid()
		case controller.OpWarn:
			v.printer.Warning(in.Message)
		}
	}
}

// PrintGrid prints the last rendered grid.
func (v *ConsoleView) PrintGrid() {
	v.printer.Block(v.formatter.Grid(v.grid, v.isExpanded))
}

// PrintChips prints the last rendered chip list.
func (v *ConsoleView) PrintChips() {
	v.printer.Block(v.formatter.Chips(v.chips))
}

// Transcript returns the entries shown so far, placeholders replaced.
func (v *ConsoleView) Transcript() []render.Entry {
	return append([]render.Entry(nil), v.transcript...)
}

// Grid returns the last rendered grid.
func (v *ConsoleView) Grid() render.Grid {
	return v.grid
}

func (v *ConsoleView) isExpanded(id routinetypes.ProductID) bool {
	return v.expanded[id]
}

func (v *ConsoleView) replace(target string, entry render.Entry) {
	for i, e := range v.transcript {
		if e.ID == target {
			v.transcript[i] = entry
			return
		}
	}
	v.transcript = append(v.transcript, entry)
}

func (v *ConsoleView) printEntry(e render.Entry) {
	v.printer.Block(v.formatter.Entry(e))
}
