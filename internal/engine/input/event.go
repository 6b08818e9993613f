// Package input dispatches keyboard and pointer events to bound handlers.
package input

import "strconv"

// EventType names a DOM-style input event.
type EventType string

const (
	KeyDown   EventType = "keydown"
	KeyUp     EventType = "keyup"
	KeyPress  EventType = "keypress"
	MouseDown EventType = "mousedown"
	MouseUp   EventType = "mouseup"
	MouseMove EventType = "mousemove"
	Wheel     EventType = "wheel"
)

// Keyboard reports whether t is delivered by the document target.
func (t EventType) Keyboard() bool {
	switch t {
	case KeyDown, KeyUp, KeyPress:
		return true
	}
	return false
}

// Pointer reports whether t is delivered by the element target.
func (t EventType) Pointer() bool {
	switch t {
	case MouseDown, MouseUp, MouseMove, Wheel:
		return true
	}
	return false
}

// Key identifies a binding. It is a key code name such as "ArrowLeft", or a
// number: a legacy key code for keyboard events, a button id for pointer
// events.
type Key struct {
	name    string
	num     int
	numeric bool
}

// Code returns a key for a key code name.
func Code(name string) Key { return Key{name: name} }

// Num returns a numeric key.
func Num(n int) Key { return Key{num: n, numeric: true} }

// Button returns the key for a pointer button. Wheel and move events use 0.
func Button(n int) Key { return Num(n) }

func (k Key) String() string {
	if k.numeric {
		return strconv.Itoa(k.num)
	}
	return k.name
}

// Event is one input event. Keyboard events fill Code, Which and KeyCode;
// pointer events fill Button, Buttons and the coordinates.
type Event struct {
	Type EventType

	Code    string
	Which   int
	KeyCode int

	Button  int
	Buttons int
	X, Y    int
	// MovementX and MovementY are the deltas since the previous move.
	MovementX, MovementY int
	DeltaY               float64

	prevented bool
}

// PreventDefault marks the event as consumed.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }
