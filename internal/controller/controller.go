// Package controller wires user interactions to the selection store, the
// conversation log and the remote exchange.
//
// Events go through an explicit dispatch table. A handler returns the view
// instructions to apply, whether the selection must be persisted, and an
// optional Effect (a pending exchange). Dispatch applies the instructions
// first, then persists, then hands the Effect back to the caller, who runs it
// with Execute and dispatches the completion event it returns.
package controller

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"routineshell/internal/catalog"
	"routineshell/internal/conversation"
	"routineshell/internal/data/embedded"
	"routineshell/internal/exchange"
	"routineshell/internal/logger"
	"routineshell/internal/metrics"
	"routineshell/internal/selection"
	"routineshell/pkg/routinetypes"
)

// Purpose tells the completion handler how to present a reply.
type Purpose int

// Effect purposes.
const (
	PurposeChat Purpose = iota
	PurposeGenerate
)

// Effect is a remote exchange waiting to be executed.
type Effect struct {
	Purpose  Purpose
	Messages []routinetypes.Message
	Products []routinetypes.ResolvedProduct
	// PlaceholderID is the transcript entry to replace with the outcome.
	PlaceholderID string
}

// Result is what a handler produces.
type Result struct {
	Instructions []Instruction
	Persist      bool
	Effect       *Effect
}

type handler func(ctx context.Context, ev Event, st *State) Result

// Controller is the interaction state machine for one session. It is not safe
// for concurrent use: events must be dispatched from a single goroutine.
// Execute may run on another goroutine.
type Controller struct {
	state     *State
	view      View
	exchanger exchange.Exchanger
	handlers  map[EventKind]handler

	inflight *semaphore.Weighted
	pending  *Effect

	metrics        *metrics.Metrics
	newID          func() string
	systemPrompt   string
	generateSystem string
	generateUser   string
	log            *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics records dispatched events.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithIDGenerator overrides how transcript entry ids are generated.
func WithIDGenerator(next func() string) Option {
	return func(c *Controller) {
		if next != nil {
			c.newID = next
		}
	}
}

// WithSystemPrompt seeds the conversation with a system entry.
func WithSystemPrompt(prompt string) Option {
	return func(c *Controller) { c.systemPrompt = prompt }
}

// WithCatalogError marks the catalog as the placeholder left by a failed load.
func WithCatalogError(err error) Option {
	return func(c *Controller) { c.state.CatalogErr = err }
}

// New creates a Controller. A nil index is treated as the empty catalog.
func New(index *catalog.Index, store *selection.Store, ex exchange.Exchanger, view View, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("selection store is required")
	}
	if ex == nil {
		return nil, fmt.Errorf("exchanger is required")
	}
	if index == nil {
		index = catalog.Empty()
	}
	if view == nil {
		view = ViewFunc(func([]Instruction) {})
	}

	generateSystem, err := embedded.LoadPrompt("generate_system")
	if err != nil {
		return nil, err
	}
	generateUser, err := embedded.LoadPrompt("generate_user")
	if err != nil {
		return nil, err
	}

	c := &Controller{
		state:          &State{Catalog: index, Selection: store},
		view:           view,
		exchanger:      ex,
		inflight:       semaphore.NewWeighted(1),
		newID:          uuid.NewString,
		generateSystem: generateSystem,
		generateUser:   generateUser,
		log:            logger.NewStyledLogger("Controller"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Log = conversation.New(c.systemPrompt)

	c.handlers = map[EventKind]handler{
		EventInit:            c.handleInit,
		EventCategoryChanged: c.handleCategoryChanged,
		EventCardClicked:     c.handleCardClicked,
		EventDetailsToggled:  c.handleDetailsToggled,
		EventChipRemoved:     c.handleChipRemoved,
		EventClearAll:        c.handleClearAll,
		EventChatSubmitted:   c.handleChatSubmitted,
		EventGenerateRoutine: c.handleGenerateRoutine,
		EventReplyReceived:   c.handleReplyReceived,
		EventReplyFailed:     c.handleReplyFailed,
	}
	return c, nil
}

// State exposes the controller's state for reading between events.
func (c *Controller) State() *State {
	return c.state
}

// Busy reports whether an exchange is in flight.
func (c *Controller) Busy() bool {
	return c.pending != nil
}

// Dispatch runs the handler for ev, applies its instructions to the view,
// persists the selection when asked to, and returns the pending exchange, if any.
func (c *Controller) Dispatch(ctx context.Context, ev Event) *Effect {
	h, ok := c.handlers[ev.Kind]
	if !ok {
		c.log.Warn("No handler for event", "event", ev.Kind)
		return nil
	}
	c.metrics.ObserveEvent(ev.Kind.String())
	c.log.Debug("Dispatching event", "event", ev.Kind)

	res := h(ctx, ev, c.state)

	if len(res.Instructions) > 0 {
		c.view.Apply(res.Instructions)
	}
	if res.Persist {
		if err := c.state.Selection.SaveToStorage(ctx); err != nil {
			c.log.Warn("Failed to persist selection", "error", err)
		}
	}
	return res.Effect
}

// Execute performs the exchange described by eff and returns the completion
// event to dispatch. It does not touch controller state.
func (c *Controller) Execute(ctx context.Context, eff *Effect) Event {
	reply, err := c.exchanger.Send(ctx, eff.Messages, eff.Products)
	if err != nil {
		return Event{Kind: EventReplyFailed, Effect: eff, Err: err}
	}
	return Event{Kind: EventReplyReceived, Effect: eff, Reply: reply}
}

// Run dispatches ev and executes any resulting exchange inline, dispatching
// its completion before returning.
func (c *Controller) Run(ctx context.Context, ev Event) {
	eff := c.Dispatch(ctx, ev)
	for eff != nil {
		eff = c.Dispatch(ctx, c.Execute(ctx, eff))
	}
}

// acquire claims the single in-flight slot. The caller must record the
// resulting Effect in c.pending.
func (c *Controller) acquire() bool {
	return c.inflight.TryAcquire(1)
}

// finish releases the in-flight slot if eff is the pending exchange.
func (c *Controller) finish(eff *Effect) bool {
	if eff == nil || eff != c.pending {
		return false
	}
	c.pending = nil
	c.inflight.Release(1)
	return true
}
