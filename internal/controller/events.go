package controller

import (
	"routineshell/pkg/routinetypes"
)

// EventKind identifies a user interaction or an internal completion.
type EventKind int

// Event kinds.
const (
	EventInit EventKind = iota
	EventCategoryChanged
	EventCardClicked
	EventDetailsToggled
	EventChipRemoved
	EventClearAll
	EventChatSubmitted
	EventGenerateRoutine
	EventReplyReceived
	EventReplyFailed
)

var eventNames = map[EventKind]string{
	EventInit:            "init",
	EventCategoryChanged: "category_changed",
	EventCardClicked:     "card_clicked",
	EventDetailsToggled:  "details_toggled",
	EventChipRemoved:     "chip_removed",
	EventClearAll:        "clear_all",
	EventChatSubmitted:   "chat_submitted",
	EventGenerateRoutine: "generate_routine",
	EventReplyReceived:   "reply_received",
	EventReplyFailed:     "reply_failed",
}

// String returns the metric label for k.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a single input to the controller. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind EventKind

	// Category is the newly chosen category (EventCategoryChanged).
	Category string
	// ProductID is the card or chip the user acted on.
	ProductID routinetypes.ProductID
	// Text is the submitted chat message.
	Text string

	// Effect is the completed exchange (EventReplyReceived, EventReplyFailed).
	Effect *Effect
	// Reply is the assistant's reply text (EventReplyReceived).
	Reply string
	// Err is the exchange failure (EventReplyFailed).
	Err error
}

// Init builds the startup event.
func Init() Event { return Event{Kind: EventInit} }

// CategoryChanged builds a category selection event.
func CategoryChanged(category string) Event {
	return Event{Kind: EventCategoryChanged, Category: category}
}

// CardClicked builds a card click event.
func CardClicked(id any) Event {
	return Event{Kind: EventCardClicked, ProductID: routinetypes.NormalizeID(id)}
}

// DetailsToggled builds a details expand/collapse event.
func DetailsToggled(id any) Event {
	return Event{Kind: EventDetailsToggled, ProductID: routinetypes.NormalizeID(id)}
}

// ChipRemoved builds a chip removal event.
func ChipRemoved(id any) Event {
	return Event{Kind: EventChipRemoved, ProductID: routinetypes.NormalizeID(id)}
}

// ClearAll builds a clear-all event.
func ClearAll() Event { return Event{Kind: EventClearAll} }

// ChatSubmitted builds a chat submission event.
func ChatSubmitted(text string) Event {
	return Event{Kind: EventChatSubmitted, Text: text}
}

// GenerateRoutine builds a generate-routine event.
func GenerateRoutine() Event { return Event{Kind: EventGenerateRoutine} }
