package controller

import (
	"routineshell/internal/render"
	"routineshell/pkg/routinetypes"
)

// Op is the kind of change an Instruction asks the view to make.
type Op int

// Instruction ops.
const (
	// OpRenderGrid replaces the product grid with Grid.
	OpRenderGrid Op = iota
	// OpRenderChips replaces the chip list with Chips.
	OpRenderChips
	// OpAppendTranscript appends Entry to the transcript.
	OpAppendTranscript
	// OpReplaceTranscript replaces the entry with id Target by Entry.
	OpReplaceTranscript
	// OpToggleDetails flips the expanded state of ProductID's card.
	OpToggleDetails
	// OpWarn shows Message as a transient warning.
	OpWarn
)

// Instruction is one change to apply to the view.
type Instruction struct {
	Op        Op
	Grid      render.Grid
	Chips     render.ChipList
	Entry     render.Entry
	Target    string
	ProductID routinetypes.ProductID
	Message   string
}

// View receives the instructions produced by one event. Each call is one
// render pass.
type View interface {
	Apply(instructions []Instruction)
}

// ViewFunc adapts a function to View.
type ViewFunc func(instructions []Instruction)

// Apply calls f.
func (f ViewFunc) Apply(instructions []Instruction) {
	f(instructions)
}

func renderGrid(g render.Grid) Instruction {
	return Instruction{Op: OpRenderGrid, Grid: g}
}

func renderChips(c render.ChipList) Instruction {
	return Instruction{Op: OpRenderChips, Chips: c}
}

func appendTranscript(e render.Entry) Instruction {
	return Instruction{Op: OpAppendTranscript, Entry: e}
}

func replaceTranscript(target string, e render.Entry) Instruction {
	return Instruction{Op: OpReplaceTranscript, Target: target, Entry: e}
}

func toggleDetails(id routinetypes.ProductID) Instruction {
	return Instruction{Op: OpToggleDetails, ProductID: id}
}

func warn(message string) Instruction {
	return Instruction{Op: OpWarn, Message: message}
}
