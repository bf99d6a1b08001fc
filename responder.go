package banyan

import "github.com/hajimehoshi/ebiten/v2"

// EventKind identifies a kind of input event forwarded along the responder
// chain.
type EventKind uint8

const (
	EventMouseDown EventKind = iota
	EventMouseUp
	EventMouseMove
	EventKeyDown
	EventKeyUp
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button
)

// Event carries one input event. X and Y are screen pixels for mouse
// events; Key is set for key events.
type Event struct {
	Kind   EventKind
	X, Y   float32
	Button MouseButton
	Key    ebiten.Key
}

// Responder is one link in the first-responder chain
// (window -> viewport -> target). Each responder either handles an event or
// lets it fall through to its next responder.
type Responder interface {
	// HandleEvent returns true when the event was consumed.
	HandleEvent(e Event) bool

	// NextResponder returns the next link, or nil at the end of the chain.
	NextResponder() Responder
}

// Dispatch walks the chain starting at r until a responder handles the
// event. Returns false when the event fell off the end unhandled.
func Dispatch(r Responder, e Event) bool {
	for r != nil {
		if r.HandleEvent(e) {
			return true
		}
		r = r.NextResponder()
	}
	return false
}

// ResponderFunc adapts a function to a terminal Responder (no next link).
type ResponderFunc func(e Event) bool

// HandleEvent implements Responder.
func (f ResponderFunc) HandleEvent(e Event) bool { return f(e) }

// NextResponder implements Responder.
func (f ResponderFunc) NextResponder() Responder { return nil }
