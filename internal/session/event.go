package session

import "fmt"

// EventType names an input event.
type EventType string

const (
	PointerDown   EventType = "pointerdown"
	PointerMove   EventType = "pointermove"
	PointerUp     EventType = "pointerup"
	PointerCancel EventType = "pointercancel"
	Wheel         EventType = "wheel"
	Pinch         EventType = "pinch"
	Resize        EventType = "resize"
	Filter        EventType = "filter"
	Search        EventType = "search"
	Select        EventType = "select"
	ResetView     EventType = "reset"
	FitView       EventType = "fit"
	Snapshot      EventType = "snapshot"
)

var known = map[EventType]bool{
	PointerDown: true, PointerMove: true, PointerUp: true, PointerCancel: true,
	Wheel: true, Pinch: true, Resize: true,
	Filter: true, Search: true, Select: true,
	ResetView: true, FitView: true, Snapshot: true,
}

// Valid reports whether t is an event type Handle understands.
func (t EventType) Valid() bool {
	return known[t]
}

// Event is one input to a session. Pointer coordinates are in screen
// pixels relative to the viewport's top-left corner.
type Event struct {
	Type      EventType `json:"type"`
	Pointer   int       `json:"pointer,omitempty"`
	X         float64   `json:"x,omitempty"`
	Y         float64   `json:"y,omitempty"`
	DeltaY    float64   `json:"delta_y,omitempty"`
	DeltaMode int       `json:"delta_mode,omitempty"`
	Scale     float64   `json:"scale,omitempty"`
	Width     float64   `json:"width,omitempty"`
	Height    float64   `json:"height,omitempty"`
	Value     string    `json:"value,omitempty"`
}

// ErrUnknownEvent is returned by Handle for an unrecognised event type.
type ErrUnknownEvent struct {
	Type EventType
}

func (e *ErrUnknownEvent) Error() string {
	return fmt.Sprintf("unknown event type: %q", e.Type)
}
