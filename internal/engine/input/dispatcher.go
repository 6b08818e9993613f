package input

import (
	"go.uber.org/zap"

	"github.com/Faultbox/solar/internal/logger"
)

// Handler reacts to a dispatched event.
type Handler func(d *Dispatcher, ev *Event)

// Target delivers events of a type to one listener.
type Target interface {
	AddListener(t EventType, fn func(*Event))
	RemoveListener(t EventType)
}

type binding struct {
	key     Key
	handler Handler
}

// Dispatcher routes events to handlers keyed by (event type, key). Keyboard
// types listen on the document target and pointer types on the element.
type Dispatcher struct {
	element  Target
	document Target
	bindings map[EventType]map[Key]binding
	attached map[EventType]Target
	closed   bool
}

// New returns a dispatcher listening on element and document.
func New(element, document Target) *Dispatcher {
	return &Dispatcher{
		element:  element,
		document: document,
		bindings: make(map[EventType]map[Key]binding),
		attached: make(map[EventType]Target),
	}
}

// Bind registers handler for (t, key), replacing any earlier handler.
func (d *Dispatcher) Bind(t EventType, key Key, handler Handler) {
	if d.closed {
		logger.Warn("bind after unbind", zap.String("type", string(t)))
		return
	}
	byKey, ok := d.bindings[t]
	if !ok {
		byKey = make(map[Key]binding)
		d.bindings[t] = byKey
	}
	byKey[key] = binding{key: key, handler: handler}

	if _, ok := d.attached[t]; ok {
		return
	}
	var target Target
	switch {
	case t.Pointer():
		target = d.element
	case t.Keyboard():
		target = d.document
	}
	if target == nil {
		return
	}
	target.AddListener(t, d.Dispatch)
	d.attached[t] = target
}

// Dispatch delivers ev to its bound handler, if any.
func (d *Dispatcher) Dispatch(ev *Event) {
	if d.closed || ev == nil {
		return
	}
	switch {
	case ev.Type.Keyboard():
		d.keyEvent(ev)
	case ev.Type.Pointer():
		d.pointerEvent(ev)
	}
}

func (d *Dispatcher) keyEvent(ev *Event) {
	ev.PreventDefault()
	byKey := d.bindings[ev.Type]
	candidates := [...]Key{Code(ev.Code), Num(ev.Which), Num(ev.KeyCode)}
	for _, k := range candidates {
		b, ok := byKey[k]
		if !ok {
			continue
		}
		if b.key == Code(ev.Code) || b.key == Num(ev.Which) || b.key == Num(ev.KeyCode) {
			b.handler(d, ev)
		}
		return
	}
}

func (d *Dispatcher) pointerEvent(ev *Event) {
	ev.PreventDefault()
	if b, ok := d.bindings[ev.Type][Button(ev.Button)]; ok {
		b.handler(d, ev)
	}
}

// UnbindAll detaches every listener and drops all bindings. Later Dispatch
// calls do nothing. Safe to call more than once.
func (d *Dispatcher) UnbindAll() {
	if d.closed {
		return
	}
	d.closed = true
	for t, target := range d.attached {
		target.RemoveListener(t)
	}
	d.attached = nil
	d.bindings = nil
}
