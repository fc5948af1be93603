package controller

import (
	"context"
	"errors"
	"strings"

	"routineshell/internal/render"
	"routineshell/pkg/routinetypes"
)

// User-facing messages.
const (
	CatalogUnavailableWarning = "The product catalog could not be loaded. Browsing is unavailable."
	UnknownProductWarning     = "That product is not in the catalog."
	EmptySelectionWarning     = "Select at least one product before generating a routine."
	BusyWarning               = "Still waiting for the previous reply."
	GeneratingText            = "Generating your routine…"
	FailureText               = "Sorry, the assistant could not be reached. Please try again."
)

func (c *Controller) handleInit(ctx context.Context, _ Event, st *State) Result {
	err := st.Selection.LoadFromStorage(ctx)
	var corrupt *routinetypes.StorageCorruptError
	switch {
	case errors.As(err, &corrupt):
		c.log.Debug("Stored selection discarded", "key", corrupt.Key)
	case err != nil:
		c.log.Warn("Failed to load stored selection", "error", err)
	}

	res := Result{Instructions: []Instruction{renderGrid(st.Grid()), renderChips(st.Chips())}}
	if st.CatalogErr != nil {
		res.Instructions = append(res.Instructions, warn(CatalogUnavailableWarning))
	}
	return res
}

func (c *Controller) handleCategoryChanged(_ context.Context, ev Event, st *State) Result {
	st.Category = ev.Category
	return Result{Instructions: []Instruction{renderGrid(st.Grid())}}
}

func (c *Controller) handleCardClicked(_ context.Context, ev Event, st *State) Result {
	if _, ok := st.Catalog.FindByID(ev.ProductID); !ok {
		return Result{Instructions: []Instruction{warn(UnknownProductWarning)}}
	}
	selected := st.Selection.Toggle(ev.ProductID)
	c.log.Debug("Product toggled", "product", ev.ProductID, "selected", selected)
	return c.selectionChanged(st)
}

func (c *Controller) handleDetailsToggled(_ context.Context, ev Event, _ *State) Result {
	if ev.ProductID == "" {
		return Result{}
	}
	return Result{Instructions: []Instruction{toggleDetails(ev.ProductID)}}
}

func (c *Controller) handleChipRemoved(_ context.Context, ev Event, st *State) Result {
	if !st.Selection.Contains(ev.ProductID) {
		return Result{}
	}
	st.Selection.Remove(ev.ProductID)
	return c.selectionChanged(st)
}

func (c *Controller) handleClearAll(_ context.Context, _ Event, st *State) Result {
	st.Selection.Clear()
	return c.selectionChanged(st)
}

// selectionChanged re-renders both views in one pass and asks for persistence.
func (c *Controller) selectionChanged(st *State) Result {
	return Result{
		Instructions: []Instruction{renderGrid(st.Grid()), renderChips(st.Chips())},
		Persist:      true,
	}
}

func (c *Controller) handleChatSubmitted(_ context.Context, ev Event, st *State) Result {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return Result{}
	}
	if !c.acquire() {
		return Result{Instructions: []Instruction{warn(BusyWarning)}}
	}

	st.Log.Append(routinetypes.RoleUser, text)
	eff := &Effect{
		Purpose:  PurposeChat,
		Messages: st.Log.Snapshot(),
		Products: st.Products(),
	}
	c.pending = eff

	entry := render.Entry{ID: c.newID(), Role: routinetypes.RoleUser, Content: text}
	return Result{Instructions: []Instruction{appendTranscript(entry)}, Effect: eff}
}

func (c *Controller) handleGenerateRoutine(_ context.Context, _ Event, st *State) Result {
	if st.Selection.Len() == 0 {
		return Result{Instructions: []Instruction{warn(EmptySelectionWarning)}}
	}
	if !c.acquire() {
		return Result{Instructions: []Instruction{warn(BusyWarning)}}
	}

	st.Log.Append(routinetypes.RoleSystem, c.generateSystem)
	st.Log.Append(routinetypes.RoleUser, c.generateUser)

	placeholder := render.Entry{
		ID:      c.newID(),
		Role:    routinetypes.RoleAssistant,
		Content: GeneratingText,
		Kind:    render.EntryPlaceholder,
	}
	eff := &Effect{
		Purpose:       PurposeGenerate,
		Messages:      st.Log.Snapshot(),
		Products:      st.Products(),
		PlaceholderID: placeholder.ID,
	}
	c.pending = eff

	return Result{Instructions: []Instruction{appendTranscript(placeholder)}, Effect: eff}
}

func (c *Controller) handleReplyReceived(_ context.Context, ev Event, st *State) Result {
	if !c.finish(ev.Effect) {
		c.log.Warn("Ignoring reply for an exchange that is not pending")
		return Result{}
	}

	st.Log.Append(routinetypes.RoleAssistant, ev.Reply)
	entry := render.Entry{ID: c.newID(), Role: routinetypes.RoleAssistant, Content: ev.Reply}
	return Result{Instructions: []Instruction{c.present(ev.Effect, entry)}}
}

func (c *Controller) handleReplyFailed(_ context.Context, ev Event, _ *State) Result {
	if !c.finish(ev.Effect) {
		c.log.Warn("Ignoring failure for an exchange that is not pending")
		return Result{}
	}

	var remote *routinetypes.RemoteServiceError
	if errors.As(ev.Err, &remote) {
		c.log.Error("Remote exchange failed", "status", remote.StatusCode, "error", remote)
	} else {
		c.log.Error("Remote exchange failed", "error", ev.Err)
	}

	entry := render.Entry{ID: c.newID(), Role: routinetypes.RoleAssistant, Content: FailureText, Kind: render.EntryFailure}
	return Result{Instructions: []Instruction{c.present(ev.Effect, entry)}}
}

// present replaces the generating placeholder, or appends for plain chat.
func (c *Controller) present(eff *Effect, entry render.Entry) Instruction {
	if eff.PlaceholderID != "" {
		return replaceTranscript(eff.PlaceholderID, entry)
	}
	return appendTranscript(entry)
}
